package vesting

import (
	"math"
	"math/big"
)

// Persisted amounts are bounded to 64 bits and the reflection index to 128
// bits, matching the fixed record layout. Exceeding either width is a
// calculation overflow, never a silent wrap.
var (
	maxAmount = new(big.Int).SetUint64(math.MaxUint64)
	maxIndex  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

func copyBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

// checkAmount validates that v is a well-formed token or native amount.
func checkAmount(v *big.Int) error {
	if v == nil || v.Sign() < 0 || v.Cmp(maxAmount) > 0 {
		return ErrCalculationOverflow
	}
	return nil
}

// requirePositiveAmount validates an externally supplied amount argument.
func requirePositiveAmount(v *big.Int) error {
	if v == nil || v.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if v.Cmp(maxAmount) > 0 {
		return ErrCalculationOverflow
	}
	return nil
}

// addAmount returns a+b, failing when the sum leaves the 64-bit range.
func addAmount(a, b *big.Int) (*big.Int, error) {
	sum := new(big.Int).Add(copyBigInt(a), copyBigInt(b))
	if err := checkAmount(sum); err != nil {
		return nil, err
	}
	return sum, nil
}

// subAmount returns a-b, failing when the difference goes negative.
func subAmount(a, b *big.Int) (*big.Int, error) {
	diff := new(big.Int).Sub(copyBigInt(a), copyBigInt(b))
	if diff.Sign() < 0 {
		return nil, ErrCalculationOverflow
	}
	return diff, nil
}

// addIndex returns a+b, failing when the sum leaves the 128-bit range.
func addIndex(a, b *big.Int) (*big.Int, error) {
	sum := new(big.Int).Add(copyBigInt(a), copyBigInt(b))
	if sum.Sign() < 0 || sum.Cmp(maxIndex) > 0 {
		return nil, ErrCalculationOverflow
	}
	return sum, nil
}
