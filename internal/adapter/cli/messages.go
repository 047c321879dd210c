package cli

import (
	"errors"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// Message maps an error to the text shown to the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrPersistence):
		return "Warning: the change was applied but could not be saved."
	case errors.Is(err, ErrUnparsableAmount):
		return "Invalid value. Please type a number with at most two decimals, such as 150.00, 150,00 or 1.500,00."
	case errors.Is(err, domain.ErrInvalidAmount):
		return "Operation failed: the amount must be greater than zero."
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "Operation failed: insufficient balance."
	case errors.Is(err, domain.ErrPerWithdrawalLimitExceeded):
		return "Operation failed: the amount exceeds the per-withdrawal limit."
	case errors.Is(err, domain.ErrDailyWithdrawalLimitExceeded):
		return "Operation failed: daily number of withdrawals reached."
	case errors.Is(err, domain.ErrDailyTransactionLimitExceeded):
		return "Operation failed: daily number of transactions reached."
	case errors.Is(err, domain.ErrInvalidIdentifier):
		return "Invalid identification number: it must have exactly 11 digits."
	case errors.Is(err, domain.ErrInvalidName):
		return "Invalid name: it cannot be empty."
	case errors.Is(err, domain.ErrUnknownIdentity):
		return "No client is registered with this identification number."
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return "A client with this identification number already exists."
	case errors.Is(err, domain.ErrAccountNotFound):
		return "Account not found."
	case errors.Is(err, domain.ErrNoAccounts):
		return "This client has no accounts yet."
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "Please log in first."
	case errors.Is(err, domain.ErrResetNotConfirmed):
		return "Reset cancelled."
	case errors.Is(err, usecase.ErrInconsistentLedger):
		return "Ledger check FAILED: " + err.Error()
	default:
		return "Unexpected error: " + err.Error()
	}
}
