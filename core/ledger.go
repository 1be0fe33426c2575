package core

import (
	"errors"
	"fmt"
	"math/big"

	"stakevest/core/state"
	"stakevest/core/types"
	"stakevest/native/vesting"
)

// ErrInsufficientBalance marks transfers exceeding the source account funds.
var ErrInsufficientBalance = errors.New("ledger: insufficient balance")

// assetToken stands in for the deployment token symbol where no config is in
// scope. The ledger custodies exactly one token, so every non-native asset
// resolves to the same balance.
const assetToken = "TOKEN"

// AccountLedger settles token and native-currency transfers against the
// persisted account balances. It implements vesting.Ledger: plain transfers
// are authorized by the funding account, vault transfers only move funds out
// of the program-controlled custody accounts registered at construction.
type AccountLedger struct {
	state  *state.Manager
	vaults map[[20]byte]struct{}
}

// NewAccountLedger builds a ledger over the state manager. The provided
// addresses are the custody vaults the program may debit on its own authority.
func NewAccountLedger(mgr *state.Manager, vaults ...[20]byte) *AccountLedger {
	registered := make(map[[20]byte]struct{}, len(vaults))
	for _, vault := range vaults {
		registered[vault] = struct{}{}
	}
	return &AccountLedger{state: mgr, vaults: registered}
}

// RegisterVault adds a custody account after construction. Used when the
// deployment is initialized at runtime rather than at process start.
func (l *AccountLedger) RegisterVault(vault [20]byte) {
	l.vaults[vault] = struct{}{}
}

// Transfer moves funds between two accounts.
func (l *AccountLedger) Transfer(asset string, from, to [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return vesting.ErrInvalidAmount
	}
	if from == to {
		return fmt.Errorf("ledger: self transfer")
	}
	source, err := l.state.Account(from)
	if err != nil {
		return err
	}
	dest, err := l.state.Account(to)
	if err != nil {
		return err
	}
	srcBalance, dstBalance := balanceOf(source, asset), balanceOf(dest, asset)
	if srcBalance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	srcBalance.Sub(srcBalance, amount)
	dstBalance.Add(dstBalance, amount)
	if err := l.state.PutAccount(from, source); err != nil {
		return err
	}
	return l.state.PutAccount(to, dest)
}

// VaultTransfer moves funds out of a program-controlled vault.
func (l *AccountLedger) VaultTransfer(asset string, vault, to [20]byte, amount *big.Int) error {
	if _, ok := l.vaults[vault]; !ok {
		return vesting.ErrVaultMismatch
	}
	return l.Transfer(asset, vault, to, amount)
}

// Balance reports the funds an account holds in the given asset.
func (l *AccountLedger) Balance(asset string, addr [20]byte) (*big.Int, error) {
	account, err := l.state.Account(addr)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(balanceOf(account, asset)), nil
}

// Credit mints funds into an account. Only the genesis allocation uses it.
func (l *AccountLedger) Credit(asset string, addr [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return vesting.ErrInvalidAmount
	}
	account, err := l.state.Account(addr)
	if err != nil {
		return err
	}
	balance := balanceOf(account, asset)
	balance.Add(balance, amount)
	return l.state.PutAccount(addr, account)
}

func balanceOf(account *types.Account, asset string) *big.Int {
	if asset == vesting.AssetNative {
		return account.BalanceNative
	}
	return account.BalanceToken
}
