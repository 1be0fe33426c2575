package events

import "math/big"

const (
	// TypeVestingInitialized marks the one-time creation of the global config.
	TypeVestingInitialized = "vesting.initialized"
	// TypeVestingRegistered is emitted when a participant record is created.
	TypeVestingRegistered = "vesting.registered"
	// TypeVestingStaked captures a principal increase and vesting restart.
	TypeVestingStaked = "vesting.staked"
	// TypeVestingUnstaked captures an unlocked withdrawal.
	TypeVestingUnstaked = "vesting.unstaked"
	// TypeVestingYieldClaimed is emitted when accrued yield is paid out.
	TypeVestingYieldClaimed = "vesting.yieldClaimed"
	// TypeVestingReflectionsClaimed is emitted when a reflection payout settles.
	TypeVestingReflectionsClaimed = "vesting.reflectionsClaimed"
	// TypeVestingRewardsDeposited captures a reward pool deposit and index bump.
	TypeVestingRewardsDeposited = "vesting.rewardsDeposited"
	// TypeVestingReserveWithdrawn captures an admin reserve withdrawal.
	TypeVestingReserveWithdrawn = "vesting.reserveWithdrawn"
)

// VestingInitialized records the admin and rate the deployment was created with.
type VestingInitialized struct {
	Admin        [20]byte
	Token        string
	YieldRateBps uint16
}

func (VestingInitialized) EventType() string { return TypeVestingInitialized }

// VestingRegistered records a new participant joining the program.
type VestingRegistered struct {
	Owner          [20]byte
	InitialIndex   *big.Int
	YieldClockUnix int64
}

func (VestingRegistered) EventType() string { return TypeVestingRegistered }

// VestingStaked captures the post-stake position of a participant.
type VestingStaked struct {
	Owner        [20]byte
	Amount       *big.Int
	StakedTotal  *big.Int
	YieldFlushed *big.Int
	Seeded       bool
}

func (VestingStaked) EventType() string { return TypeVestingStaked }

// VestingUnstaked captures the post-withdrawal position of a participant.
type VestingUnstaked struct {
	Owner       [20]byte
	Amount      *big.Int
	StakedTotal *big.Int
}

func (VestingUnstaked) EventType() string { return TypeVestingUnstaked }

// VestingYieldClaimed records a yield payout.
type VestingYieldClaimed struct {
	Owner  [20]byte
	Amount *big.Int
}

func (VestingYieldClaimed) EventType() string { return TypeVestingYieldClaimed }

// VestingReflectionsClaimed records a reflection payout and index advance.
type VestingReflectionsClaimed struct {
	Owner  [20]byte
	Amount *big.Int
	Index  *big.Int
}

func (VestingReflectionsClaimed) EventType() string { return TypeVestingReflectionsClaimed }

// VestingRewardsDeposited records a pool deposit and the resulting index.
type VestingRewardsDeposited struct {
	Amount      *big.Int
	TotalSupply *big.Int
	Index       *big.Int
}

func (VestingRewardsDeposited) EventType() string { return TypeVestingRewardsDeposited }

// VestingReserveWithdrawn records an admin withdrawal from the reward reserve.
type VestingReserveWithdrawn struct {
	Admin  [20]byte
	Amount *big.Int
}

func (VestingReserveWithdrawn) EventType() string { return TypeVestingReserveWithdrawn }
