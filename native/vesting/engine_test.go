package vesting

import (
	"errors"
	"math/big"
	"testing"

	"stakevest/core/events"
)

type memState struct {
	cfg    *GlobalConfig
	stakes map[[20]byte]*UserStake
}

func newMemState() *memState {
	return &memState{stakes: make(map[[20]byte]*UserStake)}
}

func (s *memState) VestingConfig() (*GlobalConfig, bool, error) {
	if s.cfg == nil {
		return nil, false, nil
	}
	return s.cfg.Clone(), true, nil
}

func (s *memState) PutVestingConfig(cfg *GlobalConfig) error {
	s.cfg = cfg.Clone()
	return nil
}

func (s *memState) VestingStake(owner [20]byte) (*UserStake, bool, error) {
	stake, ok := s.stakes[owner]
	if !ok {
		return nil, false, nil
	}
	return stake.Clone(), true, nil
}

func (s *memState) PutVestingStake(stake *UserStake) error {
	s.stakes[stake.Owner] = stake.Clone()
	return nil
}

type memLedger struct {
	balances map[string]map[[20]byte]*big.Int
	vaults   map[[20]byte]struct{}
	failNext error
}

func newMemLedger() *memLedger {
	return &memLedger{
		balances: make(map[string]map[[20]byte]*big.Int),
		vaults:   make(map[[20]byte]struct{}),
	}
}

func (l *memLedger) credit(asset string, addr [20]byte, amount int64) {
	if l.balances[asset] == nil {
		l.balances[asset] = make(map[[20]byte]*big.Int)
	}
	if l.balances[asset][addr] == nil {
		l.balances[asset][addr] = big.NewInt(0)
	}
	l.balances[asset][addr].Add(l.balances[asset][addr], big.NewInt(amount))
}

func (l *memLedger) registerVault(vault [20]byte) {
	l.vaults[vault] = struct{}{}
}

func (l *memLedger) Transfer(asset string, from, to [20]byte, amount *big.Int) error {
	if l.failNext != nil {
		err := l.failNext
		l.failNext = nil
		return err
	}
	balance := l.holdings(asset, from)
	if balance.Cmp(amount) < 0 {
		return errors.New("test ledger: insufficient balance")
	}
	balance.Sub(balance, amount)
	if l.balances[asset][to] == nil {
		l.balances[asset][to] = big.NewInt(0)
	}
	l.balances[asset][to].Add(l.balances[asset][to], amount)
	return nil
}

func (l *memLedger) VaultTransfer(asset string, vault, to [20]byte, amount *big.Int) error {
	if _, ok := l.vaults[vault]; !ok {
		return ErrVaultMismatch
	}
	return l.Transfer(asset, vault, to, amount)
}

func (l *memLedger) Balance(asset string, addr [20]byte) (*big.Int, error) {
	return new(big.Int).Set(l.holdings(asset, addr)), nil
}

func (l *memLedger) holdings(asset string, addr [20]byte) *big.Int {
	if l.balances[asset] == nil {
		l.balances[asset] = make(map[[20]byte]*big.Int)
	}
	if l.balances[asset][addr] == nil {
		l.balances[asset][addr] = big.NewInt(0)
	}
	return l.balances[asset][addr]
}

type captureEmitter struct {
	events []events.Event
}

func (c *captureEmitter) Emit(evt events.Event) {
	c.events = append(c.events, evt)
}

func (c *captureEmitter) last() events.Event {
	if len(c.events) == 0 {
		return nil
	}
	return c.events[len(c.events)-1]
}

var (
	admin    = [20]byte{0x01}
	alice    = [20]byte{0x02}
	bob      = [20]byte{0x03}
	tokVault = [20]byte{0xa0}
	rwdVault = [20]byte{0xa1}
	resPool  = [20]byte{0xa2}
)

const testToken = "MCAR"

type fixture struct {
	engine  *Engine
	state   *memState
	ledger  *memLedger
	emitted *captureEmitter
	now     int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		state:   newMemState(),
		ledger:  newMemLedger(),
		emitted: &captureEmitter{},
		now:     1_700_000_000,
	}
	f.engine = NewEngine()
	f.engine.SetState(f.state)
	f.engine.SetLedger(f.ledger)
	f.engine.SetEmitter(f.emitted)
	f.engine.SetNowFunc(func() int64 { return f.now })
	return f
}

func (f *fixture) advance(seconds int64) { f.now += seconds }

func (f *fixture) initialize(t *testing.T) {
	t.Helper()
	vaults := Vaults{TokenVault: tokVault, RewardVault: rwdVault, ReservePool: resPool}
	if err := f.engine.Initialize(admin, testToken, vaults, 1000); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	f.ledger.registerVault(tokVault)
	f.ledger.registerVault(rwdVault)
	f.ledger.registerVault(resPool)
}

func (f *fixture) register(t *testing.T, owner [20]byte) {
	t.Helper()
	if err := f.engine.Register(owner); err != nil {
		t.Fatalf("Register: %v", err)
	}
}

func (f *fixture) stake(t *testing.T, owner [20]byte, amount int64) {
	t.Helper()
	if err := f.engine.Stake(owner, big.NewInt(amount)); err != nil {
		t.Fatalf("Stake: %v", err)
	}
}

func TestInitializeOnce(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)

	cfg, ok, err := f.state.VestingConfig()
	if err != nil || !ok {
		t.Fatalf("config missing after Initialize: ok=%v err=%v", ok, err)
	}
	if cfg.Admin != admin || cfg.Token != testToken || cfg.YieldRateBps != 1000 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.TotalStaked.Sign() != 0 || cfg.ReflectionIndex.Sign() != 0 {
		t.Fatalf("aggregates must start at zero: %+v", cfg)
	}

	err = f.engine.Initialize(admin, testToken, Vaults{}, 1000)
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second Initialize err = %v, want ErrAlreadyInitialized", err)
	}
}

func TestInitializeRejectsBadToken(t *testing.T) {
	f := newFixture(t)
	if err := f.engine.Initialize(admin, "  ", Vaults{}, 0); err == nil {
		t.Fatal("expected error for blank token symbol")
	}
	if err := f.engine.Initialize(admin, "WAYTOOLONG", Vaults{}, 0); err == nil {
		t.Fatal("expected error for oversized token symbol")
	}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	if err := f.engine.Register(alice); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("pre-init Register err = %v, want ErrNotInitialized", err)
	}
	f.initialize(t)
	f.register(t, alice)

	stake, ok, _ := f.state.VestingStake(alice)
	if !ok {
		t.Fatal("stake record missing after Register")
	}
	if stake.StakedAmount.Sign() != 0 || stake.LastYieldClaimTime != f.now {
		t.Fatalf("unexpected fresh record %+v", stake)
	}

	if err := f.engine.Register(alice); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("second Register err = %v, want ErrAlreadyRegistered", err)
	}
}

// Registration snapshots the current index so earlier deposits do not accrue
// to new participants.
func TestRegisterSnapshotsIndex(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.ledger.credit(AssetNative, admin, 1000)
	if err := f.engine.DepositRewardFunds(admin, big.NewInt(1000), big.NewInt(1000)); err != nil {
		t.Fatalf("DepositRewardFunds: %v", err)
	}
	f.register(t, alice)
	stake, _, _ := f.state.VestingStake(alice)
	if stake.LastClaimedIndex.Cmp(f.state.cfg.ReflectionIndex) != 0 {
		t.Fatalf("snapshot %s, want %s", stake.LastClaimedIndex, f.state.cfg.ReflectionIndex)
	}
}

func TestStakeMovesFundsAndRestartsWindow(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.register(t, alice)
	f.ledger.credit(testToken, alice, 500)

	f.stake(t, alice, 200)

	if got := f.ledger.holdings(testToken, alice); got.Int64() != 300 {
		t.Fatalf("alice balance = %d, want 300", got.Int64())
	}
	if got := f.ledger.holdings(testToken, tokVault); got.Int64() != 200 {
		t.Fatalf("vault balance = %d, want 200", got.Int64())
	}
	stake, _, _ := f.state.VestingStake(alice)
	if stake.StakedAmount.Int64() != 200 || stake.StartTimestamp != f.now {
		t.Fatalf("unexpected stake %+v", stake)
	}
	if f.state.cfg.TotalStaked.Int64() != 200 {
		t.Fatalf("TotalStaked = %d, want 200", f.state.cfg.TotalStaked.Int64())
	}

	evt, ok := f.emitted.last().(events.VestingStaked)
	if !ok {
		t.Fatalf("last event %T, want VestingStaked", f.emitted.last())
	}
	if evt.Seeded || evt.Amount.Int64() != 200 {
		t.Fatalf("unexpected event %+v", evt)
	}
}

func TestStakeTopUpResetsAnchorAndFlushesYield(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.register(t, alice)
	f.ledger.credit(testToken, alice, 2_000_000)
	f.stake(t, alice, 1_000_000)

	firstAnchor := f.now
	f.advance(SecondsPerYear / 2)
	f.stake(t, alice, 1_000_000)

	stake, _, _ := f.state.VestingStake(alice)
	if stake.StartTimestamp == firstAnchor {
		t.Fatal("top-up must reset the vesting anchor")
	}
	if stake.StartTimestamp != f.now || stake.LastYieldClaimTime != f.now {
		t.Fatalf("anchors not reset: %+v", stake)
	}
	// Half a year at 10% APR on 1,000,000 flushes 50,000 into the unclaimed
	// balance before the clock resets.
	if stake.UnclaimedYield.Int64() != 50_000 {
		t.Fatalf("UnclaimedYield = %d, want 50000", stake.UnclaimedYield.Int64())
	}
	// Nothing is withdrawable right after the top-up, including the part that
	// was already vested before.
	unlocked := UnlockedAmount(stake.StakedAmount, stake.StartTimestamp, f.now)
	if unlocked.Sign() != 0 {
		t.Fatalf("unlocked right after top-up = %s, want 0", unlocked)
	}
}

func TestStakeRejectsBadAmounts(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.register(t, alice)
	if err := f.engine.Stake(alice, big.NewInt(0)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero amount err = %v, want ErrInvalidAmount", err)
	}
	if err := f.engine.Stake(alice, big.NewInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative amount err = %v, want ErrInvalidAmount", err)
	}
	if err := f.engine.Stake(alice, nil); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("nil amount err = %v, want ErrInvalidAmount", err)
	}
}

func TestStakeUnregistered(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	if err := f.engine.Stake(alice, big.NewInt(1)); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("err = %v, want ErrNotRegistered", err)
	}
}

// A transfer failure aborts the call before any record is written back.
func TestStakeFailedTransferPersistsNothing(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.register(t, alice)
	f.ledger.credit(testToken, alice, 1000)
	f.stake(t, alice, 100)

	before, _, _ := f.state.VestingStake(alice)
	totalBefore := copyBigInt(f.state.cfg.TotalStaked)

	f.ledger.failNext = errors.New("test ledger: transfer rejected")
	if err := f.engine.Stake(alice, big.NewInt(100)); err == nil {
		t.Fatal("expected transfer failure to surface")
	}

	after, _, _ := f.state.VestingStake(alice)
	if after.StakedAmount.Cmp(before.StakedAmount) != 0 || after.StartTimestamp != before.StartTimestamp {
		t.Fatalf("stake record mutated on failed transfer: %+v", after)
	}
	if f.state.cfg.TotalStaked.Cmp(totalBefore) != 0 {
		t.Fatalf("TotalStaked mutated on failed transfer")
	}
}

func TestSeedStake(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.ledger.credit(testToken, admin, 1000)

	if err := f.engine.SeedStake(bob, alice, big.NewInt(100)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-admin err = %v, want ErrUnauthorized", err)
	}

	// Seeding creates the record when the owner never registered.
	if err := f.engine.SeedStake(admin, alice, big.NewInt(100)); err != nil {
		t.Fatalf("SeedStake: %v", err)
	}
	stake, ok, _ := f.state.VestingStake(alice)
	if !ok || stake.StakedAmount.Int64() != 100 {
		t.Fatalf("seeded stake missing or wrong: %+v", stake)
	}
	if got := f.ledger.holdings(testToken, admin); got.Int64() != 900 {
		t.Fatalf("admin balance = %d, want 900", got.Int64())
	}
	if got := f.ledger.holdings(testToken, tokVault); got.Int64() != 100 {
		t.Fatalf("vault balance = %d, want 100", got.Int64())
	}

	evt, ok := f.emitted.last().(events.VestingStaked)
	if !ok || !evt.Seeded {
		t.Fatalf("expected seeded VestingStaked event, got %+v", f.emitted.last())
	}
}

func TestUnstakeSchedule(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.register(t, alice)
	f.ledger.credit(testToken, alice, 100)
	f.stake(t, alice, 100)

	// Nothing vests inside the first day.
	if err := f.engine.Unstake(alice, big.NewInt(1)); !errors.Is(err, ErrAmountExceedsUnlocked) {
		t.Fatalf("day-zero err = %v, want ErrAmountExceedsUnlocked", err)
	}

	f.advance(3 * SecondsPerDay)
	if err := f.engine.Unstake(alice, big.NewInt(31)); !errors.Is(err, ErrAmountExceedsUnlocked) {
		t.Fatalf("over-limit err = %v, want ErrAmountExceedsUnlocked", err)
	}
	if err := f.engine.Unstake(alice, big.NewInt(30)); err != nil {
		t.Fatalf("Unstake at limit: %v", err)
	}
	if got := f.ledger.holdings(testToken, alice); got.Int64() != 30 {
		t.Fatalf("alice balance = %d, want 30", got.Int64())
	}
	stake, _, _ := f.state.VestingStake(alice)
	if stake.StakedAmount.Int64() != 70 {
		t.Fatalf("principal = %d, want 70", stake.StakedAmount.Int64())
	}
	if f.state.cfg.TotalStaked.Int64() != 70 {
		t.Fatalf("TotalStaked = %d, want 70", f.state.cfg.TotalStaked.Int64())
	}
	// Partial withdrawal leaves the anchor in place.
	if stake.StartTimestamp == 0 {
		t.Fatal("partial unstake must not reset the anchor")
	}
}

func TestUnstakeFullResetsAnchor(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.register(t, alice)
	f.ledger.credit(testToken, alice, 100)
	f.stake(t, alice, 100)

	f.advance(7 * SecondsPerDay)
	if err := f.engine.Unstake(alice, big.NewInt(100)); err != nil {
		t.Fatalf("full Unstake: %v", err)
	}
	stake, ok, _ := f.state.VestingStake(alice)
	if !ok {
		t.Fatal("record must survive a full unstake")
	}
	if stake.StakedAmount.Sign() != 0 || stake.StartTimestamp != 0 {
		t.Fatalf("expected zeroed position, got %+v", stake)
	}
}

func TestClaimYield(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.register(t, alice)
	f.ledger.credit(testToken, alice, 1_000_000)
	f.ledger.credit(testToken, rwdVault, 1_000_000)
	f.stake(t, alice, 1_000_000)

	if _, err := f.engine.ClaimYield(alice); !errors.Is(err, ErrNoYieldToClaim) {
		t.Fatalf("immediate claim err = %v, want ErrNoYieldToClaim", err)
	}

	f.advance(SecondsPerYear)
	paid, err := f.engine.ClaimYield(alice)
	if err != nil {
		t.Fatalf("ClaimYield: %v", err)
	}
	// One year at 10% APR.
	if paid.Int64() != 100_000 {
		t.Fatalf("paid = %d, want 100000", paid.Int64())
	}
	if got := f.ledger.holdings(testToken, alice); got.Int64() != 100_000 {
		t.Fatalf("alice balance = %d, want 100000", got.Int64())
	}

	// Claiming is idempotent: the second claim finds nothing.
	if _, err := f.engine.ClaimYield(alice); !errors.Is(err, ErrNoYieldToClaim) {
		t.Fatalf("repeat claim err = %v, want ErrNoYieldToClaim", err)
	}
}

func TestDepositRewardFunds(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.ledger.credit(AssetNative, admin, 10_000)

	if err := f.engine.DepositRewardFunds(alice, big.NewInt(100), big.NewInt(1000)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-admin err = %v, want ErrUnauthorized", err)
	}
	if err := f.engine.DepositRewardFunds(admin, big.NewInt(100), big.NewInt(0)); !errors.Is(err, ErrInvalidTotalSupply) {
		t.Fatalf("zero supply err = %v, want ErrInvalidTotalSupply", err)
	}

	if err := f.engine.DepositRewardFunds(admin, big.NewInt(500), big.NewInt(1000)); err != nil {
		t.Fatalf("DepositRewardFunds: %v", err)
	}
	if got := f.ledger.holdings(AssetNative, resPool); got.Int64() != 500 {
		t.Fatalf("reserve balance = %d, want 500", got.Int64())
	}
	wantIndex := big.NewInt(ReflectionIndexScale / 2)
	if f.state.cfg.ReflectionIndex.Cmp(wantIndex) != 0 {
		t.Fatalf("index = %s, want %s", f.state.cfg.ReflectionIndex, wantIndex)
	}

	// The index only ever grows.
	if err := f.engine.DepositRewardFunds(admin, big.NewInt(500), big.NewInt(1000)); err != nil {
		t.Fatalf("second deposit: %v", err)
	}
	if f.state.cfg.ReflectionIndex.Cmp(big.NewInt(ReflectionIndexScale)) != 0 {
		t.Fatalf("index after second deposit = %s", f.state.cfg.ReflectionIndex)
	}
}

func TestClaimReflections(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.register(t, alice)
	f.ledger.credit(testToken, alice, 200)
	f.ledger.credit(AssetNative, admin, 10_000)
	f.stake(t, alice, 200)

	if _, err := f.engine.ClaimReflections(alice); !errors.Is(err, ErrNoReflectionsAccumulated) {
		t.Fatalf("pre-deposit claim err = %v, want ErrNoReflectionsAccumulated", err)
	}

	if err := f.engine.DepositRewardFunds(admin, big.NewInt(1000), big.NewInt(1000)); err != nil {
		t.Fatalf("DepositRewardFunds: %v", err)
	}

	paid, err := f.engine.ClaimReflections(alice)
	if err != nil {
		t.Fatalf("ClaimReflections: %v", err)
	}
	// One full unit per token on a 200 principal.
	if paid.Int64() != 200 {
		t.Fatalf("paid = %d, want 200", paid.Int64())
	}
	if got := f.ledger.holdings(AssetNative, alice); got.Int64() != 200 {
		t.Fatalf("alice native balance = %d, want 200", got.Int64())
	}

	// The snapshot advanced, so an immediate repeat finds nothing.
	if _, err := f.engine.ClaimReflections(alice); !errors.Is(err, ErrNoReflectionsAccumulated) {
		t.Fatalf("repeat claim err = %v, want ErrNoReflectionsAccumulated", err)
	}
}

func TestClaimReflectionsZeroPrincipal(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.register(t, alice)
	f.ledger.credit(AssetNative, admin, 10_000)
	if err := f.engine.DepositRewardFunds(admin, big.NewInt(1000), big.NewInt(1000)); err != nil {
		t.Fatalf("DepositRewardFunds: %v", err)
	}

	paid, err := f.engine.ClaimReflections(alice)
	if err != nil {
		t.Fatalf("zero-principal claim: %v", err)
	}
	if paid.Sign() != 0 {
		t.Fatalf("paid = %s, want 0", paid)
	}
	// The snapshot still advances so a later stake does not back-accrue.
	stake, _, _ := f.state.VestingStake(alice)
	if stake.LastClaimedIndex.Cmp(f.state.cfg.ReflectionIndex) != 0 {
		t.Fatalf("snapshot %s, want %s", stake.LastClaimedIndex, f.state.cfg.ReflectionIndex)
	}
}

func TestClaimReflectionsInsufficientReserve(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.register(t, alice)
	f.ledger.credit(testToken, alice, 200)
	f.ledger.credit(AssetNative, admin, 10_000)
	f.stake(t, alice, 200)
	if err := f.engine.DepositRewardFunds(admin, big.NewInt(1000), big.NewInt(1000)); err != nil {
		t.Fatalf("DepositRewardFunds: %v", err)
	}
	// Drain the reserve behind the index's back.
	if err := f.engine.WithdrawReserve(admin, big.NewInt(900)); err != nil {
		t.Fatalf("WithdrawReserve: %v", err)
	}

	if _, err := f.engine.ClaimReflections(alice); !errors.Is(err, ErrInsufficientReflectionPool) {
		t.Fatalf("err = %v, want ErrInsufficientReflectionPool", err)
	}
	// The snapshot must survive the failed claim so the entitlement is kept.
	stake, _, _ := f.state.VestingStake(alice)
	if stake.LastClaimedIndex.Sign() != 0 {
		t.Fatalf("snapshot advanced on failed claim: %s", stake.LastClaimedIndex)
	}
}

func TestWithdrawReserve(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.ledger.credit(AssetNative, resPool, 1000)

	if err := f.engine.WithdrawReserve(alice, big.NewInt(100)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("non-admin err = %v, want ErrUnauthorized", err)
	}
	if err := f.engine.WithdrawReserve(admin, big.NewInt(2000)); !errors.Is(err, ErrInsufficientReflectionPool) {
		t.Fatalf("overdraw err = %v, want ErrInsufficientReflectionPool", err)
	}
	if err := f.engine.WithdrawReserve(admin, big.NewInt(400)); err != nil {
		t.Fatalf("WithdrawReserve: %v", err)
	}
	if got := f.ledger.holdings(AssetNative, admin); got.Int64() != 400 {
		t.Fatalf("admin balance = %d, want 400", got.Int64())
	}
}

func TestPositionPreviews(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	f.register(t, alice)
	f.ledger.credit(testToken, alice, 1_000_000)
	f.ledger.credit(AssetNative, admin, 10_000)
	f.stake(t, alice, 1_000_000)
	if err := f.engine.DepositRewardFunds(admin, big.NewInt(1000), big.NewInt(1_000_000)); err != nil {
		t.Fatalf("DepositRewardFunds: %v", err)
	}
	f.advance(3 * SecondsPerDay)

	position, err := f.engine.Position(alice)
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if position.Unlocked.Int64() != 300_000 {
		t.Fatalf("Unlocked = %d, want 300000", position.Unlocked.Int64())
	}
	if position.PendingReflections.Int64() != 1000 {
		t.Fatalf("PendingReflections = %d, want 1000", position.PendingReflections.Int64())
	}
	if position.PendingYield.Sign() <= 0 {
		t.Fatalf("PendingYield = %s, want positive", position.PendingYield)
	}
	if position.ComputedAtUnix != f.now {
		t.Fatalf("ComputedAtUnix = %d, want %d", position.ComputedAtUnix, f.now)
	}
	// Previews must not mutate the persisted record.
	stake, _, _ := f.state.VestingStake(alice)
	if stake.UnclaimedYield.Sign() != 0 {
		t.Fatalf("Position flushed yield into the record: %+v", stake)
	}
}

func TestEngineWithoutBackends(t *testing.T) {
	e := NewEngine()
	if err := e.Stake(alice, big.NewInt(1)); !errors.Is(err, ErrNilState) {
		t.Fatalf("err = %v, want ErrNilState", err)
	}
	e.SetState(newMemState())
	if err := e.Stake(alice, big.NewInt(1)); !errors.Is(err, ErrNilLedger) {
		t.Fatalf("err = %v, want ErrNilLedger", err)
	}
}
