package vesting

import "errors"

var (
	// ErrCalculationOverflow marks any checked arithmetic failure. It aborts
	// the whole call and no state mutation is retained.
	ErrCalculationOverflow = errors.New("vesting: calculation overflow")
	// ErrInvalidAmount is returned for zero or negative amount arguments.
	ErrInvalidAmount = errors.New("vesting: amount must be positive")
	// ErrUnauthorized marks callers that do not match the required identity.
	ErrUnauthorized = errors.New("vesting: unauthorized")
	// ErrVaultMismatch marks transfers against a vault the config does not own.
	ErrVaultMismatch = errors.New("vesting: vault mismatch")
	// ErrAmountExceedsUnlocked marks withdrawals beyond the vested amount.
	ErrAmountExceedsUnlocked = errors.New("vesting: amount exceeds unlocked tokens")
	// ErrNoYieldToClaim marks yield claims with nothing accrued.
	ErrNoYieldToClaim = errors.New("vesting: no yield to claim")
	// ErrNoReflectionsAccumulated marks reflection claims where the index has
	// not advanced or the pending reward rounds down to zero.
	ErrNoReflectionsAccumulated = errors.New("vesting: no reflections accumulated")
	// ErrInsufficientReflectionPool marks payouts the reserve cannot cover.
	ErrInsufficientReflectionPool = errors.New("vesting: insufficient reflection pool")
	// ErrInvalidTotalSupply marks reward deposits against a zero total supply.
	ErrInvalidTotalSupply = errors.New("vesting: total supply must be positive")
	// ErrAlreadyInitialized marks repeated initialization attempts.
	ErrAlreadyInitialized = errors.New("vesting: already initialized")
	// ErrNotInitialized marks operations before the config exists.
	ErrNotInitialized = errors.New("vesting: not initialized")
	// ErrNotRegistered marks operations against a missing participant record.
	ErrNotRegistered = errors.New("vesting: user not registered")
	// ErrAlreadyRegistered marks duplicate registration attempts.
	ErrAlreadyRegistered = errors.New("vesting: user already registered")
	// ErrNilState marks an engine used before its state backend is configured.
	ErrNilState = errors.New("vesting: state not configured")
	// ErrNilLedger marks an engine used before its ledger gateway is configured.
	ErrNilLedger = errors.New("vesting: ledger not configured")
)
