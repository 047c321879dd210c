package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

const today = "2026-10-19"

func newTestAccount(balance int64) *Account {
	acc := NewAccount("0001", "12345678901", DefaultPolicy(), fixedNow)
	acc.Balance = decimal.NewFromInt(balance)
	return acc
}

func TestAccount_ValidateDeposit(t *testing.T) {
	tests := []struct {
		name         string
		amount       decimal.Decimal
		transactions int
		expectError  error
	}{
		{
			name:        "positive amount",
			amount:      decimal.NewFromInt(100),
			expectError: nil,
		},
		{
			name:        "zero amount",
			amount:      decimal.Zero,
			expectError: ErrInvalidAmount,
		},
		{
			name:        "negative amount",
			amount:      decimal.NewFromInt(-10),
			expectError: ErrInvalidAmount,
		},
		{
			name:         "ninth transaction still allowed",
			amount:       decimal.NewFromInt(1),
			transactions: MaxDailyTransactions - 1,
			expectError:  nil,
		},
		{
			name:         "transaction cap reached",
			amount:       decimal.NewFromInt(1),
			transactions: MaxDailyTransactions,
			expectError:  ErrDailyTransactionLimitExceeded,
		},
		{
			name:         "invalid amount wins over transaction cap",
			amount:       decimal.Zero,
			transactions: MaxDailyTransactions,
			expectError:  ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := newTestAccount(0)
			acc.Transactions[today] = tt.transactions

			err := acc.ValidateDeposit(tt.amount, today)

			if !errors.Is(err, tt.expectError) {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestAccount_ValidateWithdrawal(t *testing.T) {
	tests := []struct {
		name         string
		balance      int64
		amount       decimal.Decimal
		withdrawals  int
		transactions int
		expectError  error
	}{
		{
			name:    "within every limit",
			balance: 1000,
			amount:  decimal.NewFromInt(500),
		},
		{
			name:        "insufficient funds wins over every other check",
			balance:     100,
			amount:      decimal.NewFromInt(600),
			withdrawals: 3,
			expectError: ErrInsufficientFunds,
		},
		{
			name:        "above per-withdrawal limit",
			balance:     1000,
			amount:      decimal.RequireFromString("500.01"),
			expectError: ErrPerWithdrawalLimitExceeded,
		},
		{
			name:        "per-withdrawal limit before daily count",
			balance:     1000,
			amount:      decimal.NewFromInt(501),
			withdrawals: 3,
			expectError: ErrPerWithdrawalLimitExceeded,
		},
		{
			name:        "fourth withdrawal of the day",
			balance:     1000,
			amount:      decimal.NewFromInt(10),
			withdrawals: 3,
			expectError: ErrDailyWithdrawalLimitExceeded,
		},
		{
			name:        "zero amount",
			balance:     1000,
			amount:      decimal.Zero,
			expectError: ErrInvalidAmount,
		},
		{
			name:        "negative amount",
			balance:     0,
			amount:      decimal.NewFromInt(-5),
			expectError: ErrInvalidAmount,
		},
		{
			name:        "daily count checked before amount sign",
			balance:     1000,
			amount:      decimal.NewFromInt(-5),
			withdrawals: 3,
			expectError: ErrDailyWithdrawalLimitExceeded,
		},
		{
			name:         "transaction cap is the last gate",
			balance:      1000,
			amount:       decimal.NewFromInt(10),
			transactions: MaxDailyTransactions,
			expectError:  ErrDailyTransactionLimitExceeded,
		},
		{
			name:        "exact balance can be withdrawn",
			balance:     50,
			amount:      decimal.NewFromInt(50),
			expectError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := newTestAccount(tt.balance)
			acc.Withdrawals[today] = tt.withdrawals
			acc.Transactions[today] = tt.transactions

			err := acc.ValidateWithdrawal(tt.amount, today)

			if !errors.Is(err, tt.expectError) {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestAccount_ValidateWithdrawal_CustomPolicy(t *testing.T) {
	acc := newTestAccount(5000)
	acc.Policy = Policy{WithdrawalLimit: decimal.NewFromInt(2000), DailyWithdrawals: 1}

	if err := acc.ValidateWithdrawal(decimal.NewFromInt(1500), today); err != nil {
		t.Fatalf("expected raised limit to allow 1500, got %v", err)
	}

	acc.Withdrawals[today] = 1
	if err := acc.ValidateWithdrawal(decimal.NewFromInt(10), today); !errors.Is(err, ErrDailyWithdrawalLimitExceeded) {
		t.Fatalf("expected ErrDailyWithdrawalLimitExceeded, got %v", err)
	}
}

func TestAccount_CountersResetOnNewDay(t *testing.T) {
	acc := newTestAccount(1000)
	acc.Withdrawals[today] = 3
	acc.Transactions[today] = MaxDailyTransactions

	if err := acc.ValidateWithdrawal(decimal.NewFromInt(10), "2026-10-20"); err != nil {
		t.Fatalf("expected a new day to start with empty counters, got %v", err)
	}
}

func TestAccount_ApplyDeposit(t *testing.T) {
	acc := newTestAccount(100)
	newBalance := acc.ApplyDeposit(decimal.NewFromInt(30), today)

	expected := decimal.NewFromInt(130)
	if !newBalance.Equal(expected) {
		t.Errorf("expected balance %s, got %s", expected, newBalance)
	}
	if acc.Transactions.On(today) != 1 {
		t.Errorf("expected 1 transaction, got %d", acc.Transactions.On(today))
	}
	if acc.Withdrawals.On(today) != 0 {
		t.Errorf("expected deposits not to count as withdrawals, got %d", acc.Withdrawals.On(today))
	}
}

func TestAccount_ApplyWithdrawal(t *testing.T) {
	acc := &Account{Balance: decimal.NewFromInt(100)}
	newBalance := acc.ApplyWithdrawal(decimal.NewFromInt(30), today)

	expected := decimal.NewFromInt(70)
	if !newBalance.Equal(expected) {
		t.Errorf("expected balance %s, got %s", expected, newBalance)
	}
	if acc.Withdrawals.On(today) != 1 || acc.Transactions.On(today) != 1 {
		t.Errorf("expected both counters at 1, got withdrawals=%d transactions=%d",
			acc.Withdrawals.On(today), acc.Transactions.On(today))
	}
}
