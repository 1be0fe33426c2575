package core

import (
	"fmt"
	"math/big"
	"sync"

	"stakevest/core/events"
	"stakevest/core/state"
	"stakevest/core/types"
	"stakevest/native/vesting"
	"stakevest/storage"
)

// GenesisAlloc seeds an account with custody balances on first start so a
// fresh deployment has funded participants and vaults to operate with.
type GenesisAlloc struct {
	Address       [20]byte
	TokenBalance  *big.Int
	NativeBalance *big.Int
}

// Node hosts the accounting engine behind a single mutex. The engine assumes
// serialized, all-or-nothing execution; the node supplies exactly that: one
// mutating operation at a time, each reading fresh state and committing only
// after its transfers succeed.
type Node struct {
	db     storage.Database
	state  *state.Manager
	ledger *AccountLedger
	engine *vesting.Engine

	stateMu sync.Mutex
}

// NewNode wires the state manager, account ledger and vesting engine over the
// provided database. When a config record already exists its vaults are
// re-registered with the ledger.
func NewNode(db storage.Database) (*Node, error) {
	mgr := state.NewManager(db)
	ledger := NewAccountLedger(mgr)
	engine := vesting.NewEngine()
	engine.SetState(mgr)
	engine.SetLedger(ledger)

	node := &Node{
		db:     db,
		state:  mgr,
		ledger: ledger,
		engine: engine,
	}
	cfg, ok, err := mgr.VestingConfig()
	if err != nil {
		return nil, fmt.Errorf("core: load config: %w", err)
	}
	if ok {
		node.registerVaults(cfg)
	}
	return node, nil
}

func (n *Node) registerVaults(cfg *vesting.GlobalConfig) {
	n.ledger.RegisterVault(cfg.TokenVault)
	n.ledger.RegisterVault(cfg.RewardVault)
	n.ledger.RegisterVault(cfg.ReservePool)
}

// SetEmitter forwards engine events to the provided emitter.
func (n *Node) SetEmitter(emitter events.Emitter) {
	n.engine.SetEmitter(emitter)
}

// SetNowFunc overrides the engine time source. Intended for tests.
func (n *Node) SetNowFunc(now func() int64) {
	n.engine.SetNowFunc(now)
}

// ApplyGenesis credits the configured allocations exactly once per database.
func (n *Node) ApplyGenesis(allocs []GenesisAlloc) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	applied, err := n.state.GenesisApplied()
	if err != nil {
		return fmt.Errorf("core: genesis marker: %w", err)
	}
	if applied {
		return nil
	}
	for _, alloc := range allocs {
		if alloc.TokenBalance != nil && alloc.TokenBalance.Sign() > 0 {
			if err := n.ledger.Credit(assetToken, alloc.Address, alloc.TokenBalance); err != nil {
				return fmt.Errorf("core: genesis token credit: %w", err)
			}
		}
		if alloc.NativeBalance != nil && alloc.NativeBalance.Sign() > 0 {
			if err := n.ledger.Credit(vesting.AssetNative, alloc.Address, alloc.NativeBalance); err != nil {
				return fmt.Errorf("core: genesis native credit: %w", err)
			}
		}
	}
	return n.state.MarkGenesisApplied()
}

// Initialize creates the deployment config and registers its vaults.
func (n *Node) Initialize(admin [20]byte, token string, vaults vesting.Vaults, yieldRateBps uint16) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	if err := n.engine.Initialize(admin, token, vaults, yieldRateBps); err != nil {
		return err
	}
	n.ledger.RegisterVault(vaults.TokenVault)
	n.ledger.RegisterVault(vaults.RewardVault)
	n.ledger.RegisterVault(vaults.ReservePool)
	return nil
}

// Register creates a participant record for the caller.
func (n *Node) Register(owner [20]byte) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.engine.Register(owner)
}

// SeedStake performs the admin-funded first stake for a participant.
func (n *Node) SeedStake(caller, owner [20]byte, amount *big.Int) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.engine.SeedStake(caller, owner, amount)
}

// Stake moves caller tokens into custody.
func (n *Node) Stake(owner [20]byte, amount *big.Int) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.engine.Stake(owner, amount)
}

// Unstake withdraws vested tokens back to the caller.
func (n *Node) Unstake(owner [20]byte, amount *big.Int) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.engine.Unstake(owner, amount)
}

// ClaimYield pays out the accrued yield balance.
func (n *Node) ClaimYield(owner [20]byte) (*big.Int, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.engine.ClaimYield(owner)
}

// ClaimReflections pays out pending reflections.
func (n *Node) ClaimReflections(owner [20]byte) (*big.Int, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.engine.ClaimReflections(owner)
}

// DepositRewardFunds funds the reserve and advances the reflection index.
func (n *Node) DepositRewardFunds(caller [20]byte, poolAmount, totalSupply *big.Int) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.engine.DepositRewardFunds(caller, poolAmount, totalSupply)
}

// WithdrawReserve moves reserve funds back to the admin.
func (n *Node) WithdrawReserve(caller [20]byte, amount *big.Int) error {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.engine.WithdrawReserve(caller, amount)
}

// Position returns the read-only stake snapshot with previews.
func (n *Node) Position(owner [20]byte) (*vesting.Position, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.engine.Position(owner)
}

// Config returns the current global config when initialized.
func (n *Node) Config() (*vesting.GlobalConfig, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	cfg, ok, err := n.state.VestingConfig()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, vesting.ErrNotInitialized
	}
	return cfg.Normalize(), nil
}

// Account returns the custody balances for an address.
func (n *Node) Account(addr [20]byte) (*types.Account, error) {
	n.stateMu.Lock()
	defer n.stateMu.Unlock()
	return n.state.Account(addr)
}
