package vesting

import "math/big"

const (
	// SecondsPerYear is the accrual denominator for the simple APR schedule.
	SecondsPerYear int64 = 365 * 24 * 60 * 60
	// BpsDenominator converts basis points into a fraction.
	BpsDenominator int64 = 10000
)

var yieldDenominator = new(big.Int).Mul(big.NewInt(BpsDenominator), big.NewInt(SecondsPerYear))

// AccruedYield computes the simple (non-compounding) yield earned on the
// principal between lastTime and now at the configured annual rate. Callers
// flush the result into the unclaimed balance before any mutation that changes
// the principal or resets the accrual clock.
func AccruedYield(principal *big.Int, rateBps uint16, lastTime, now int64) *big.Int {
	if principal == nil || principal.Sign() <= 0 || rateBps == 0 {
		return big.NewInt(0)
	}
	elapsed := now - lastTime
	if elapsed <= 0 {
		return big.NewInt(0)
	}
	accrued := new(big.Int).Mul(principal, new(big.Int).SetUint64(uint64(rateBps)))
	accrued.Mul(accrued, big.NewInt(elapsed))
	return accrued.Quo(accrued, yieldDenominator)
}
