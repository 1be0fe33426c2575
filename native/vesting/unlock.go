package vesting

import "math/big"

const (
	// SecondsPerDay is the granularity of the linear unlock schedule.
	SecondsPerDay int64 = 86400
	// UnlockPercentPerDay is the share of the principal released per full
	// elapsed day. The whole principal is withdrawable from day seven on.
	UnlockPercentPerDay int64 = 10
	// UnlockWindowDays is the number of days until the stake fully unlocks.
	UnlockWindowDays int64 = 7
)

// UnlockedAmount maps a staked position onto the amount currently
// withdrawable under the linear unlock schedule. Every stake top-up resets the
// anchor, restarting the window for the entire current principal rather than
// just the new increment.
func UnlockedAmount(principal *big.Int, anchor, now int64) *big.Int {
	if principal == nil || principal.Sign() <= 0 || anchor == 0 {
		return big.NewInt(0)
	}
	elapsed := now - anchor
	if elapsed < 0 {
		return big.NewInt(0)
	}
	daysElapsed := elapsed / SecondsPerDay
	pct := daysElapsed * UnlockPercentPerDay
	if daysElapsed >= UnlockWindowDays {
		pct = 100
	}
	unlocked := new(big.Int).Mul(principal, big.NewInt(pct))
	unlocked.Quo(unlocked, big.NewInt(100))
	if unlocked.Cmp(principal) > 0 {
		return copyBigInt(principal)
	}
	return unlocked
}
