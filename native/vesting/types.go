package vesting

import (
	"math/big"
	"strings"
)

// GlobalConfig is the single process-wide accounting record. It is created
// once by Initialize and mutated by every orchestrator that touches aggregate
// totals or the reflection index.
type GlobalConfig struct {
	// Admin is the only identity allowed to perform privileged operations.
	// Immutable after initialization.
	Admin [20]byte
	// Token is the normalized symbol of the fungible token being accounted.
	Token string
	// TokenVault holds staked principal under program custody.
	TokenVault [20]byte
	// RewardVault holds the token balance yield claims are paid from.
	RewardVault [20]byte
	// ReservePool holds the native currency reflection payouts are drawn from.
	ReservePool [20]byte
	// TotalStaked is the sum of all participants' principal.
	TotalStaked *big.Int
	// ReflectionIndex is the monotone fixed-point accumulator of cumulative
	// reward per token unit, scaled by ReflectionIndexScale.
	ReflectionIndex *big.Int
	// YieldRateBps is the annual yield rate in basis points.
	YieldRateBps uint16
	// DistributionCursor is reserved for future batched distribution passes.
	DistributionCursor uint64
}

// Clone returns a deep copy so callers can mutate freely before committing.
func (c *GlobalConfig) Clone() *GlobalConfig {
	if c == nil {
		return nil
	}
	clone := *c
	clone.TotalStaked = copyBigInt(c.TotalStaked)
	clone.ReflectionIndex = copyBigInt(c.ReflectionIndex)
	return &clone
}

// Normalize fills nil aggregates and canonicalises the token symbol.
func (c *GlobalConfig) Normalize() *GlobalConfig {
	if c == nil {
		return nil
	}
	c.Token = NormalizeToken(c.Token)
	if c.TotalStaked == nil {
		c.TotalStaked = big.NewInt(0)
	}
	if c.ReflectionIndex == nil {
		c.ReflectionIndex = big.NewInt(0)
	}
	return c
}

// NormalizeToken canonicalises a token symbol for comparison and storage.
func NormalizeToken(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// UserStake is the per-participant accounting record. Records are never
// destroyed; a fully unstaked participant keeps a zero-principal record.
type UserStake struct {
	// Owner is the participant identity. Immutable after creation.
	Owner [20]byte
	// StakedAmount is the current principal in the token's smallest unit.
	StakedAmount *big.Int
	// StartTimestamp anchors the 7-day unlock window. Reset to now on every
	// stake top-up and to zero when the principal reaches zero.
	StartTimestamp int64
	// LastClaimedIndex is the reflection index observed at the last reward
	// computation. Always <= the global index.
	LastClaimedIndex *big.Int
	// UnclaimedYield is yield accrued but not yet transferred.
	UnclaimedYield *big.Int
	// LastYieldClaimTime anchors yield accrual. Updated on every stake and on
	// every yield claim.
	LastYieldClaimTime int64
}

// Clone returns a deep copy so callers can mutate freely before committing.
func (u *UserStake) Clone() *UserStake {
	if u == nil {
		return nil
	}
	clone := *u
	clone.StakedAmount = copyBigInt(u.StakedAmount)
	clone.LastClaimedIndex = copyBigInt(u.LastClaimedIndex)
	clone.UnclaimedYield = copyBigInt(u.UnclaimedYield)
	return &clone
}

// Normalize fills nil balances with zero values.
func (u *UserStake) Normalize() *UserStake {
	if u == nil {
		return nil
	}
	if u.StakedAmount == nil {
		u.StakedAmount = big.NewInt(0)
	}
	if u.LastClaimedIndex == nil {
		u.LastClaimedIndex = big.NewInt(0)
	}
	if u.UnclaimedYield == nil {
		u.UnclaimedYield = big.NewInt(0)
	}
	return u
}
