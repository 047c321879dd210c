package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind is the type of ledger operation recorded by an entry.
type EntryKind string

const (
	EntryKindDeposit    EntryKind = "deposit"
	EntryKindWithdrawal EntryKind = "withdrawal"
)

// IsValid reports whether k is a known entry kind.
func (k EntryKind) IsValid() bool {
	return k == EntryKindDeposit || k == EntryKindWithdrawal
}

// Label returns the human-readable name of the kind.
func (k EntryKind) Label() string {
	switch k {
	case EntryKindDeposit:
		return "Deposit"
	case EntryKindWithdrawal:
		return "Withdrawal"
	default:
		return string(k)
	}
}

// Signed returns amount with the sign it has on the account balance.
func (k EntryKind) Signed(amount decimal.Decimal) decimal.Decimal {
	if k == EntryKindWithdrawal {
		return amount.Neg()
	}
	return amount
}

// Entry represents a single immutable ledger log entry.
type Entry struct {
	CreatedAt       time.Time
	ID              string
	Kind            EntryKind
	OwnerID         string
	AccountNumber   string
	Amount          decimal.Decimal
	PreviousBalance decimal.Decimal
	CurrentBalance  decimal.Decimal
}
