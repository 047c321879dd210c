package domain

import "errors"

var (
	// Ledger errors
	ErrInvalidAmount                 = errors.New("amount must be positive")
	ErrInsufficientFunds             = errors.New("insufficient funds")
	ErrPerWithdrawalLimitExceeded    = errors.New("amount exceeds the per-withdrawal limit")
	ErrDailyWithdrawalLimitExceeded  = errors.New("daily withdrawal limit reached")
	ErrDailyTransactionLimitExceeded = errors.New("daily transaction limit reached")

	// Identity errors
	ErrInvalidIdentifier = errors.New("identification number must have exactly 11 digits")
	ErrInvalidName       = errors.New("invalid full name")
	ErrUnknownIdentity   = errors.New("identity not registered")
	ErrAlreadyRegistered = errors.New("identity already registered")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrNoAccounts      = errors.New("identity has no accounts")

	// Session errors
	ErrNotAuthenticated  = errors.New("no authenticated client")
	ErrResetNotConfirmed = errors.New("reset requires explicit confirmation")

	// ErrPersistence wraps failures of the persistence adapter.
	ErrPersistence = errors.New("failed to persist state")
)
