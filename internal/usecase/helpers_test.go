package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
	"github.com/iho/gobank/internal/usecase/mocks"
)

var testNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

const testIDNumber = "12345678901"

type testBank struct {
	state      *usecase.State
	flusher    *mocks.MockFlusher
	clock      *mocks.MockClock
	identities *usecase.IdentityUseCase
	accounts   *usecase.AccountUseCase
	ledger     *usecase.LedgerUseCase
	session    *usecase.SessionUseCase
}

func newTestBank(t *testing.T) *testBank {
	t.Helper()
	return newTestBankWithRecorder(t, nil)
}

func newTestBankWithRecorder(t *testing.T, recorder usecase.Recorder) *testBank {
	t.Helper()

	state := usecase.NewState()
	flusher := mocks.NewMockFlusher()
	clock := mocks.NewMockClock(testNow)
	logger := zerolog.Nop()

	identities := usecase.NewIdentityUseCase(state, flusher, clock, recorder, logger)
	accounts := usecase.NewAccountUseCase(state, flusher, clock, recorder, domain.DefaultPolicy(), logger)
	ledger := usecase.NewLedgerUseCase(state, flusher, clock, mocks.NewMockIDGenerator(), recorder, logger)
	session := usecase.NewSessionUseCase(state, accounts, ledger, flusher, logger)

	return &testBank{
		state:      state,
		flusher:    flusher,
		clock:      clock,
		identities: identities,
		accounts:   accounts,
		ledger:     ledger,
		session:    session,
	}
}

// openFunded registers testIDNumber, opens an account and deposits balance into it.
func (b *testBank) openFunded(t *testing.T, balance string) *domain.Account {
	t.Helper()
	ctx := context.Background()

	_, err := b.identities.Register(ctx, usecase.RegisterIdentityInput{
		IDNumber: testIDNumber,
		FullName: "Maria Silva",
	})
	if err != nil {
		require.ErrorIs(t, err, domain.ErrAlreadyRegistered)
	}

	account, err := b.accounts.OpenAccount(ctx, testIDNumber)
	require.NoError(t, err)

	if amount := dec(balance); amount.IsPositive() {
		_, err = b.ledger.Deposit(ctx, account.Number, amount)
		require.NoError(t, err)
	}
	return account
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

