package state

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"stakevest/core/types"
	"stakevest/native/vesting"
	"stakevest/storage"
)

// Key prefixes group the persisted records. Addresses are hex-encoded in keys
// so the layout stays inspectable with standard LevelDB tooling.
var (
	vestingConfigKey   = []byte("vesting/config")
	vestingStakePrefix = []byte("vesting/stake/")
	accountPrefix      = []byte("accounts/")
	genesisAppliedKey  = []byte("meta/genesis")
)

// Manager provides typed access to the persisted accounting records on top of
// a raw key-value database. It implements vesting.State.
type Manager struct {
	db storage.Database
}

// NewManager wraps the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func stakeKey(owner [20]byte) []byte {
	key := make([]byte, 0, len(vestingStakePrefix)+2*len(owner))
	key = append(key, vestingStakePrefix...)
	return append(key, hex.EncodeToString(owner[:])...)
}

func accountKey(addr [20]byte) []byte {
	key := make([]byte, 0, len(accountPrefix)+2*len(addr))
	key = append(key, accountPrefix...)
	return append(key, hex.EncodeToString(addr[:])...)
}

// VestingConfig loads the global config record when present.
func (m *Manager) VestingConfig() (*vesting.GlobalConfig, bool, error) {
	raw, err := m.db.Get(vestingConfigKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("state: read config: %w", err)
	}
	cfg, err := vesting.DecodeConfig(raw)
	if err != nil {
		return nil, false, fmt.Errorf("state: decode config: %w", err)
	}
	return cfg, true, nil
}

// PutVestingConfig stores the global config record.
func (m *Manager) PutVestingConfig(cfg *vesting.GlobalConfig) error {
	raw, err := vesting.EncodeConfig(cfg)
	if err != nil {
		return err
	}
	return m.db.Put(vestingConfigKey, raw)
}

// VestingStake loads a participant record when present.
func (m *Manager) VestingStake(owner [20]byte) (*vesting.UserStake, bool, error) {
	raw, err := m.db.Get(stakeKey(owner))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("state: read stake: %w", err)
	}
	stake, err := vesting.DecodeStake(raw)
	if err != nil {
		return nil, false, fmt.Errorf("state: decode stake: %w", err)
	}
	return stake, true, nil
}

// PutVestingStake stores a participant record.
func (m *Manager) PutVestingStake(stake *vesting.UserStake) error {
	raw, err := vesting.EncodeStake(stake)
	if err != nil {
		return err
	}
	return m.db.Put(stakeKey(stake.Owner), raw)
}

// Account loads the custody balances for an address, returning a zeroed
// account when none has been written yet.
func (m *Manager) Account(addr [20]byte) (*types.Account, error) {
	raw, err := m.db.Get(accountKey(addr))
	if errors.Is(err, storage.ErrNotFound) {
		return (&types.Account{}).EnsureBalances(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: read account: %w", err)
	}
	account := &types.Account{}
	if err := json.Unmarshal(raw, account); err != nil {
		return nil, fmt.Errorf("state: decode account: %w", err)
	}
	return account.EnsureBalances(), nil
}

// PutAccount stores the custody balances for an address.
func (m *Manager) PutAccount(addr [20]byte, account *types.Account) error {
	raw, err := json.Marshal(account.EnsureBalances())
	if err != nil {
		return fmt.Errorf("state: encode account: %w", err)
	}
	return m.db.Put(accountKey(addr), raw)
}

// GenesisApplied reports whether the one-time genesis allocation ran.
func (m *Manager) GenesisApplied() (bool, error) {
	return m.db.Has(genesisAppliedKey)
}

// MarkGenesisApplied records that the genesis allocation ran.
func (m *Manager) MarkGenesisApplied() error {
	return m.db.Put(genesisAppliedKey, []byte{1})
}
