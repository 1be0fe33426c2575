package vesting

import (
	"fmt"
	"math/big"
	"time"

	"stakevest/core/events"
)

// AssetNative identifies the native currency reflection payouts are settled
// in, as opposed to the staked token configured per deployment.
const AssetNative = "NATIVE"

// State describes the minimal persistence functionality the engine needs from
// the surrounding state implementation. Loaded records are private copies; a
// mutation only becomes visible once it is written back.
type State interface {
	VestingConfig() (*GlobalConfig, bool, error)
	PutVestingConfig(cfg *GlobalConfig) error
	VestingStake(owner [20]byte) (*UserStake, bool, error)
	PutVestingStake(stake *UserStake) error
}

// Ledger is the custody gateway. The engine invokes it only after every
// accounting check has passed; a transfer error aborts the call before any
// record is written back.
type Ledger interface {
	// Transfer moves funds authorized by the holder of the source account.
	Transfer(asset string, from, to [20]byte, amount *big.Int) error
	// VaultTransfer moves funds out of a program-controlled vault.
	VaultTransfer(asset string, vault, to [20]byte, amount *big.Int) error
	// Balance reports the funds held by an account.
	Balance(asset string, addr [20]byte) (*big.Int, error)
}

// Vaults groups the custody accounts a deployment is initialized with.
type Vaults struct {
	TokenVault  [20]byte
	RewardVault [20]byte
	ReservePool [20]byte
}

// Engine sequences the staking, vesting and reflection orchestrations over
// the persistent records. Callers must serialize mutating invocations; the
// engine itself holds no locks.
type Engine struct {
	state   State
	ledger  Ledger
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine creates an engine with a no-op emitter. Callers wire the state
// backend and ledger gateway before use.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state State) { e.state = state }

// SetLedger configures the custody gateway used by the engine.
func (e *Engine) SetLedger(ledger Ledger) { e.ledger = ledger }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source used by the engine. Primarily intended
// for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if e.ledger == nil {
		return ErrNilLedger
	}
	return nil
}

// loadConfig reads a fresh private copy of the global config.
func (e *Engine) loadConfig() (*GlobalConfig, error) {
	cfg, ok, err := e.state.VestingConfig()
	if err != nil {
		return nil, fmt.Errorf("vesting: load config: %w", err)
	}
	if !ok || cfg == nil {
		return nil, ErrNotInitialized
	}
	return cfg.Clone().Normalize(), nil
}

func (e *Engine) loadStake(owner [20]byte) (*UserStake, error) {
	stake, ok, err := e.state.VestingStake(owner)
	if err != nil {
		return nil, fmt.Errorf("vesting: load stake: %w", err)
	}
	if !ok || stake == nil {
		return nil, ErrNotRegistered
	}
	return stake.Clone().Normalize(), nil
}

// Initialize creates the global config. It can succeed at most once per
// deployment.
func (e *Engine) Initialize(admin [20]byte, token string, vaults Vaults, yieldRateBps uint16) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if _, ok, err := e.state.VestingConfig(); err != nil {
		return fmt.Errorf("vesting: load config: %w", err)
	} else if ok {
		return ErrAlreadyInitialized
	}
	token = NormalizeToken(token)
	if token == "" {
		return fmt.Errorf("vesting: token symbol required")
	}
	if len(token) > tokenFieldLen {
		return errTokenSymbolTooLong
	}
	cfg := (&GlobalConfig{
		Admin:        admin,
		Token:        token,
		TokenVault:   vaults.TokenVault,
		RewardVault:  vaults.RewardVault,
		ReservePool:  vaults.ReservePool,
		YieldRateBps: yieldRateBps,
	}).Normalize()
	if err := e.state.PutVestingConfig(cfg); err != nil {
		return fmt.Errorf("vesting: store config: %w", err)
	}
	e.emit(events.VestingInitialized{Admin: admin, Token: token, YieldRateBps: yieldRateBps})
	return nil
}

// Register creates a zero-principal participant record for the caller. The
// record snapshots the current reflection index so only deposits made after
// registration accrue to the new participant.
func (e *Engine) Register(owner [20]byte) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return err
	}
	if _, ok, err := e.state.VestingStake(owner); err != nil {
		return fmt.Errorf("vesting: load stake: %w", err)
	} else if ok {
		return ErrAlreadyRegistered
	}
	now := e.now()
	stake := (&UserStake{
		Owner:              owner,
		LastClaimedIndex:   copyBigInt(cfg.ReflectionIndex),
		LastYieldClaimTime: now,
	}).Normalize()
	if err := e.state.PutVestingStake(stake); err != nil {
		return fmt.Errorf("vesting: store stake: %w", err)
	}
	e.emit(events.VestingRegistered{Owner: owner, InitialIndex: copyBigInt(cfg.ReflectionIndex), YieldClockUnix: now})
	return nil
}

// Stake moves tokens from the caller into custody, restarting the unlock
// window for the entire resulting principal. Yield earned on the previous
// principal is flushed into the unclaimed balance before the clock resets.
func (e *Engine) Stake(owner [20]byte, amount *big.Int) error {
	if err := e.ready(); err != nil {
		return err
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return err
	}
	stake, err := e.loadStake(owner)
	if err != nil {
		return err
	}
	return e.applyStake(cfg, stake, owner, amount, false)
}

// SeedStake is the privileged equivalent of a first stake: the admin funds the
// position on behalf of a participant who has not self-registered, creating
// the record when absent.
func (e *Engine) SeedStake(caller, owner [20]byte, amount *big.Int) error {
	if err := e.ready(); err != nil {
		return err
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return err
	}
	if caller != cfg.Admin {
		return ErrUnauthorized
	}
	stake, ok, err := e.state.VestingStake(owner)
	if err != nil {
		return fmt.Errorf("vesting: load stake: %w", err)
	}
	if !ok || stake == nil {
		stake = &UserStake{
			Owner:              owner,
			LastClaimedIndex:   copyBigInt(cfg.ReflectionIndex),
			LastYieldClaimTime: e.now(),
		}
	}
	return e.applyStake(cfg, stake.Clone().Normalize(), caller, amount, true)
}

// applyStake performs the shared stake mutation. The funding account differs
// between self-stake (the owner) and admin seeding (the admin), everything
// else is identical.
func (e *Engine) applyStake(cfg *GlobalConfig, stake *UserStake, from [20]byte, amount *big.Int, seeded bool) error {
	if err := requirePositiveAmount(amount); err != nil {
		return err
	}
	now := e.now()
	accrued := AccruedYield(stake.StakedAmount, cfg.YieldRateBps, stake.LastYieldClaimTime, now)
	unclaimed, err := addAmount(stake.UnclaimedYield, accrued)
	if err != nil {
		return err
	}
	principal, err := addAmount(stake.StakedAmount, amount)
	if err != nil {
		return err
	}
	total, err := addAmount(cfg.TotalStaked, amount)
	if err != nil {
		return err
	}
	if err := e.ledger.Transfer(cfg.Token, from, cfg.TokenVault, amount); err != nil {
		return fmt.Errorf("vesting: stake transfer: %w", err)
	}
	stake.UnclaimedYield = unclaimed
	stake.StakedAmount = principal
	stake.StartTimestamp = now
	stake.LastYieldClaimTime = now
	cfg.TotalStaked = total
	if err := e.state.PutVestingStake(stake); err != nil {
		return fmt.Errorf("vesting: store stake: %w", err)
	}
	if err := e.state.PutVestingConfig(cfg); err != nil {
		return fmt.Errorf("vesting: store config: %w", err)
	}
	e.emit(events.VestingStaked{
		Owner:        stake.Owner,
		Amount:       copyBigInt(amount),
		StakedTotal:  copyBigInt(principal),
		YieldFlushed: accrued,
		Seeded:       seeded,
	})
	return nil
}

// Unstake withdraws tokens that have become unlocked under the 7-day
// schedule. Fully unstaking resets the vesting anchor.
func (e *Engine) Unstake(owner [20]byte, amount *big.Int) error {
	if err := e.ready(); err != nil {
		return err
	}
	if err := requirePositiveAmount(amount); err != nil {
		return err
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return err
	}
	stake, err := e.loadStake(owner)
	if err != nil {
		return err
	}
	unlocked := UnlockedAmount(stake.StakedAmount, stake.StartTimestamp, e.now())
	if amount.Cmp(unlocked) > 0 {
		return ErrAmountExceedsUnlocked
	}
	principal, err := subAmount(stake.StakedAmount, amount)
	if err != nil {
		return err
	}
	total, err := subAmount(cfg.TotalStaked, amount)
	if err != nil {
		return err
	}
	if err := e.ledger.VaultTransfer(cfg.Token, cfg.TokenVault, owner, amount); err != nil {
		return fmt.Errorf("vesting: unstake transfer: %w", err)
	}
	stake.StakedAmount = principal
	if principal.Sign() == 0 {
		stake.StartTimestamp = 0
	}
	cfg.TotalStaked = total
	if err := e.state.PutVestingStake(stake); err != nil {
		return fmt.Errorf("vesting: store stake: %w", err)
	}
	if err := e.state.PutVestingConfig(cfg); err != nil {
		return fmt.Errorf("vesting: store config: %w", err)
	}
	e.emit(events.VestingUnstaked{Owner: owner, Amount: copyBigInt(amount), StakedTotal: copyBigInt(principal)})
	return nil
}

// ClaimYield flushes the accrual and pays out the full unclaimed balance from
// the reward vault.
func (e *Engine) ClaimYield(owner [20]byte) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	stake, err := e.loadStake(owner)
	if err != nil {
		return nil, err
	}
	now := e.now()
	accrued := AccruedYield(stake.StakedAmount, cfg.YieldRateBps, stake.LastYieldClaimTime, now)
	payout, err := addAmount(stake.UnclaimedYield, accrued)
	if err != nil {
		return nil, err
	}
	if payout.Sign() == 0 {
		return nil, ErrNoYieldToClaim
	}
	if err := e.ledger.VaultTransfer(cfg.Token, cfg.RewardVault, owner, payout); err != nil {
		return nil, fmt.Errorf("vesting: yield transfer: %w", err)
	}
	stake.UnclaimedYield = big.NewInt(0)
	stake.LastYieldClaimTime = now
	if err := e.state.PutVestingStake(stake); err != nil {
		return nil, fmt.Errorf("vesting: store stake: %w", err)
	}
	e.emit(events.VestingYieldClaimed{Owner: owner, Amount: copyBigInt(payout)})
	return payout, nil
}

// ClaimReflections pays out the reward accumulated since the holder's last
// observed index and advances that index.
//
// A holder with zero principal is not in an error state: the call refreshes
// the index snapshot and succeeds with a zero payout. An unchanged index, or
// a pending reward that floors to zero, fails with ErrNoReflectionsAccumulated
// so callers can distinguish "nothing to claim" from a settled payout.
func (e *Engine) ClaimReflections(owner [20]byte) (*big.Int, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	stake, err := e.loadStake(owner)
	if err != nil {
		return nil, err
	}
	if stake.StakedAmount.Sign() == 0 {
		stake.LastClaimedIndex = copyBigInt(cfg.ReflectionIndex)
		if err := e.state.PutVestingStake(stake); err != nil {
			return nil, fmt.Errorf("vesting: store stake: %w", err)
		}
		return big.NewInt(0), nil
	}
	if cfg.ReflectionIndex.Cmp(stake.LastClaimedIndex) <= 0 {
		return nil, ErrNoReflectionsAccumulated
	}
	pending := PendingReward(cfg.ReflectionIndex, stake.LastClaimedIndex, stake.StakedAmount)
	if pending.Sign() == 0 {
		return nil, ErrNoReflectionsAccumulated
	}
	if err := checkAmount(pending); err != nil {
		return nil, err
	}
	reserve, err := e.ledger.Balance(AssetNative, cfg.ReservePool)
	if err != nil {
		return nil, fmt.Errorf("vesting: reserve balance: %w", err)
	}
	if reserve == nil || reserve.Cmp(pending) < 0 {
		return nil, ErrInsufficientReflectionPool
	}
	if err := e.ledger.VaultTransfer(AssetNative, cfg.ReservePool, owner, pending); err != nil {
		return nil, fmt.Errorf("vesting: reflection transfer: %w", err)
	}
	stake.LastClaimedIndex = copyBigInt(cfg.ReflectionIndex)
	if err := e.state.PutVestingStake(stake); err != nil {
		return nil, fmt.Errorf("vesting: store stake: %w", err)
	}
	e.emit(events.VestingReflectionsClaimed{Owner: owner, Amount: copyBigInt(pending), Index: copyBigInt(cfg.ReflectionIndex)})
	return pending, nil
}

// DepositRewardFunds moves native currency into the reserve and advances the
// reflection index by floor(amount * scale / totalSupply). Admin only.
func (e *Engine) DepositRewardFunds(caller [20]byte, poolAmount, totalSupply *big.Int) error {
	if err := e.ready(); err != nil {
		return err
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return err
	}
	if caller != cfg.Admin {
		return ErrUnauthorized
	}
	if poolAmount == nil || poolAmount.Sign() < 0 {
		return ErrInvalidAmount
	}
	increment, err := DepositIncrement(poolAmount, totalSupply)
	if err != nil {
		return err
	}
	index, err := addIndex(cfg.ReflectionIndex, increment)
	if err != nil {
		return err
	}
	if poolAmount.Sign() > 0 {
		if err := e.ledger.Transfer(AssetNative, caller, cfg.ReservePool, poolAmount); err != nil {
			return fmt.Errorf("vesting: reserve deposit: %w", err)
		}
	}
	cfg.ReflectionIndex = index
	if err := e.state.PutVestingConfig(cfg); err != nil {
		return fmt.Errorf("vesting: store config: %w", err)
	}
	e.emit(events.VestingRewardsDeposited{
		Amount:      copyBigInt(poolAmount),
		TotalSupply: copyBigInt(totalSupply),
		Index:       copyBigInt(index),
	})
	return nil
}

// WithdrawReserve moves native currency from the reserve back to the admin.
func (e *Engine) WithdrawReserve(caller [20]byte, amount *big.Int) error {
	if err := e.ready(); err != nil {
		return err
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return err
	}
	if caller != cfg.Admin {
		return ErrUnauthorized
	}
	if err := requirePositiveAmount(amount); err != nil {
		return err
	}
	reserve, err := e.ledger.Balance(AssetNative, cfg.ReservePool)
	if err != nil {
		return fmt.Errorf("vesting: reserve balance: %w", err)
	}
	if reserve == nil || reserve.Cmp(amount) < 0 {
		return ErrInsufficientReflectionPool
	}
	if err := e.ledger.VaultTransfer(AssetNative, cfg.ReservePool, caller, amount); err != nil {
		return fmt.Errorf("vesting: reserve withdrawal: %w", err)
	}
	e.emit(events.VestingReserveWithdrawn{Admin: caller, Amount: copyBigInt(amount)})
	return nil
}

// Position is a read-only snapshot of a participant's stake combined with the
// calculator previews a wallet needs to render the position.
type Position struct {
	Stake              *UserStake
	Unlocked           *big.Int
	PendingYield       *big.Int
	PendingReflections *big.Int
	ComputedAtUnix     int64
}

// Position assembles the current stake record with unlock, yield and
// reflection previews at the engine's current time.
func (e *Engine) Position(owner [20]byte) (*Position, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	stake, err := e.loadStake(owner)
	if err != nil {
		return nil, err
	}
	now := e.now()
	accrued := AccruedYield(stake.StakedAmount, cfg.YieldRateBps, stake.LastYieldClaimTime, now)
	pendingYield, err := addAmount(stake.UnclaimedYield, accrued)
	if err != nil {
		return nil, err
	}
	return &Position{
		Stake:              stake,
		Unlocked:           UnlockedAmount(stake.StakedAmount, stake.StartTimestamp, now),
		PendingYield:       pendingYield,
		PendingReflections: PendingReward(cfg.ReflectionIndex, stake.LastClaimedIndex, stake.StakedAmount),
		ComputedAtUnix:     now,
	}, nil
}
