package types

import "math/big"

// Account tracks the custody balances held for a single address. The service
// accounts for exactly one fungible token plus the native currency used for
// reflection payouts.
type Account struct {
	Nonce         uint64   `json:"nonce"`
	BalanceToken  *big.Int `json:"balanceToken"`
	BalanceNative *big.Int `json:"balanceNative"`
}

// EnsureBalances replaces nil balance fields with zero values so callers can
// operate on the account without nil checks.
func (a *Account) EnsureBalances() *Account {
	if a == nil {
		return &Account{BalanceToken: big.NewInt(0), BalanceNative: big.NewInt(0)}
	}
	if a.BalanceToken == nil {
		a.BalanceToken = big.NewInt(0)
	}
	if a.BalanceNative == nil {
		a.BalanceNative = big.NewInt(0)
	}
	return a
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return (&Account{}).EnsureBalances()
	}
	clone := &Account{Nonce: a.Nonce}
	if a.BalanceToken != nil {
		clone.BalanceToken = new(big.Int).Set(a.BalanceToken)
	}
	if a.BalanceNative != nil {
		clone.BalanceNative = new(big.Int).Set(a.BalanceNative)
	}
	return clone.EnsureBalances()
}
