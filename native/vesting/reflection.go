package vesting

import "math/big"

// ReflectionIndexScale is the fixed-point denominator used to represent
// fractional reward-per-unit without floating point.
const ReflectionIndexScale int64 = 1_000_000_000_000

var reflectionScaleBig = big.NewInt(ReflectionIndexScale)

// DepositIncrement converts a reward pool deposit into the global index
// increment: floor(poolAmount * scale / totalSupply).
func DepositIncrement(poolAmount, totalSupply *big.Int) (*big.Int, error) {
	if totalSupply == nil || totalSupply.Sign() <= 0 {
		return nil, ErrInvalidTotalSupply
	}
	if err := checkAmount(poolAmount); err != nil {
		return nil, err
	}
	increment := new(big.Int).Mul(copyBigInt(poolAmount), reflectionScaleBig)
	return increment.Quo(increment, totalSupply), nil
}

// PendingReward converts the index distance a holder has not yet claimed into
// a native-currency amount: floor((globalIndex - lastIndex) * principal / scale).
// A non-positive distance yields zero.
func PendingReward(globalIndex, lastIndex, principal *big.Int) *big.Int {
	if principal == nil || principal.Sign() <= 0 {
		return big.NewInt(0)
	}
	diff := new(big.Int).Sub(copyBigInt(globalIndex), copyBigInt(lastIndex))
	if diff.Sign() <= 0 {
		return big.NewInt(0)
	}
	pending := diff.Mul(diff, principal)
	return pending.Quo(pending, reflectionScaleBig)
}
