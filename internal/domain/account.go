package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultAgency is the branch code every account is opened under.
	DefaultAgency = "0001"

	// MaxDailyTransactions caps deposits and withdrawals combined per account per day.
	MaxDailyTransactions = 10

	// DefaultDailyWithdrawals is the default number of withdrawals allowed per day.
	DefaultDailyWithdrawals = 3
)

// DefaultWithdrawalLimit is the default ceiling for a single withdrawal.
var DefaultWithdrawalLimit = decimal.RequireFromString("500.00")

// Policy holds the per-account withdrawal limits.
type Policy struct {
	WithdrawalLimit  decimal.Decimal
	DailyWithdrawals int
}

// DefaultPolicy returns the policy applied to newly opened accounts.
func DefaultPolicy() Policy {
	return Policy{
		WithdrawalLimit:  DefaultWithdrawalLimit,
		DailyWithdrawals: DefaultDailyWithdrawals,
	}
}

// DailyCounter counts operations per calendar day, keyed by DayKey.
type DailyCounter map[string]int

// On returns the count recorded for day.
func (c DailyCounter) On(day string) int {
	return c[day]
}

// Account represents a numbered, balance-holding account owned by one identity.
type Account struct {
	Number       string
	Agency       string
	OwnerID      string
	Balance      decimal.Decimal
	Policy       Policy
	Withdrawals  DailyCounter
	Transactions DailyCounter
	CreatedAt    time.Time
}

// NewAccount creates an empty account for owner.
func NewAccount(number, ownerID string, policy Policy, now time.Time) *Account {
	return &Account{
		Number:       number,
		Agency:       DefaultAgency,
		OwnerID:      ownerID,
		Balance:      decimal.Zero,
		Policy:       policy,
		Withdrawals:  DailyCounter{},
		Transactions: DailyCounter{},
		CreatedAt:    now,
	}
}

// ValidateDeposit checks if amount can be deposited on day.
func (a *Account) ValidateDeposit(amount decimal.Decimal, day string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return a.validateTransactionCap(day)
}

// ValidateWithdrawal checks if amount can be withdrawn on day.
// The checks run in a fixed order and the first failure wins.
func (a *Account) ValidateWithdrawal(amount decimal.Decimal, day string) error {
	switch {
	case amount.GreaterThan(a.Balance):
		return ErrInsufficientFunds
	case amount.GreaterThan(a.Policy.WithdrawalLimit):
		return ErrPerWithdrawalLimitExceeded
	case a.Withdrawals.On(day) >= a.Policy.DailyWithdrawals:
		return ErrDailyWithdrawalLimitExceeded
	case amount.LessThanOrEqual(decimal.Zero):
		return ErrInvalidAmount
	}
	return a.validateTransactionCap(day)
}

func (a *Account) validateTransactionCap(day string) error {
	if a.Transactions.On(day) >= MaxDailyTransactions {
		return ErrDailyTransactionLimitExceeded
	}
	return nil
}

// ApplyDeposit credits amount and counts the operation on day.
// Callers must validate first.
func (a *Account) ApplyDeposit(amount decimal.Decimal, day string) decimal.Decimal {
	a.ensureCounters()
	a.Balance = a.Balance.Add(amount)
	a.Transactions[day]++
	return a.Balance
}

// ApplyWithdrawal debits amount and counts the operation on day.
// Callers must validate first.
func (a *Account) ApplyWithdrawal(amount decimal.Decimal, day string) decimal.Decimal {
	a.ensureCounters()
	a.Balance = a.Balance.Sub(amount)
	a.Withdrawals[day]++
	a.Transactions[day]++
	return a.Balance
}

func (a *Account) ensureCounters() {
	if a.Withdrawals == nil {
		a.Withdrawals = DailyCounter{}
	}
	if a.Transactions == nil {
		a.Transactions = DailyCounter{}
	}
}
