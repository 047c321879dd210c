package usecase_test

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

func TestSessionUseCase_Authenticate(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, b *testBank)
		expectError error
	}{
		{
			name:        "unknown identity",
			setup:       func(t *testing.T, b *testBank) {},
			expectError: domain.ErrUnknownIdentity,
		},
		{
			name: "identity without accounts",
			setup: func(t *testing.T, b *testBank) {
				_, err := b.identities.Register(context.Background(), usecase.RegisterIdentityInput{IDNumber: testIDNumber, FullName: "Maria Silva"})
				require.NoError(t, err)
			},
			expectError: domain.ErrNoAccounts,
		},
		{
			name: "identity with an account",
			setup: func(t *testing.T, b *testBank) {
				b.openFunded(t, "0")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBank(t)
			tt.setup(t, b)

			err := b.session.Authenticate(context.Background(), testIDNumber)
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.False(t, b.session.Authenticated())
				_, err = b.session.ActiveAccount()
				assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
				return
			}

			require.NoError(t, err)
			assert.True(t, b.session.Authenticated())
			account, err := b.session.ActiveAccount()
			require.NoError(t, err)
			assert.Equal(t, "0001", account.Number)
		})
	}
}

func TestSessionUseCase_FailedLoginLogsOut(t *testing.T) {
	ctx := context.Background()
	b := newTestBank(t)
	b.openFunded(t, "0")

	require.NoError(t, b.session.Authenticate(ctx, testIDNumber))
	require.ErrorIs(t, b.session.Authenticate(ctx, "00000000000"), domain.ErrUnknownIdentity)
	assert.False(t, b.session.Authenticated())
}

func TestSessionUseCase_OperationsRequireAuthentication(t *testing.T) {
	ctx := context.Background()
	b := newTestBank(t)

	_, err := b.session.Deposit(ctx, dec("10"))
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	_, err = b.session.Withdraw(ctx, dec("10"))
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	_, err = b.session.Balance(ctx)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	_, err = b.session.Statement(ctx)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	_, err = b.session.OpenAccount(ctx)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	_, err = b.session.Accounts(ctx)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	_, err = b.session.Identity()
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.ErrorIs(t, b.session.SelectAccount(ctx, "0001"), domain.ErrNotAuthenticated)
}

func TestSessionUseCase_ActiveAccountOperations(t *testing.T) {
	ctx := context.Background()
	b := newTestBank(t)
	first := b.openFunded(t, "100.00")
	second := b.openFunded(t, "0")

	require.NoError(t, b.session.Authenticate(ctx, testIDNumber))

	balance, err := b.session.Withdraw(ctx, dec("30.00"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("70.00")))

	require.NoError(t, b.session.SelectAccount(ctx, second.Number))
	balance, err = b.session.Deposit(ctx, dec("5.00"))
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("5.00")))

	balance, err = b.session.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("5.00")))

	statement, err := b.session.Statement(ctx)
	require.NoError(t, err)
	entries := slices.Collect(statement)
	require.Len(t, entries, 1)
	assert.Equal(t, second.Number, entries[0].AccountNumber)

	assert.True(t, first.Balance.Equal(dec("70.00")))
}

func TestSessionUseCase_SelectAccount(t *testing.T) {
	ctx := context.Background()
	b := newTestBank(t)
	b.openFunded(t, "0")

	_, err := b.identities.Register(ctx, usecase.RegisterIdentityInput{IDNumber: "98765432100", FullName: "João Souza"})
	require.NoError(t, err)
	foreign, err := b.accounts.OpenAccount(ctx, "98765432100")
	require.NoError(t, err)

	require.NoError(t, b.session.Authenticate(ctx, testIDNumber))

	assert.ErrorIs(t, b.session.SelectAccount(ctx, foreign.Number), domain.ErrAccountNotFound)
	assert.ErrorIs(t, b.session.SelectAccount(ctx, "9999"), domain.ErrAccountNotFound)

	active, err := b.session.ActiveAccount()
	require.NoError(t, err)
	assert.Equal(t, "0001", active.Number)
}

func TestSessionUseCase_OpenAccountBecomesActive(t *testing.T) {
	ctx := context.Background()
	b := newTestBank(t)
	b.openFunded(t, "0")
	require.NoError(t, b.session.Authenticate(ctx, testIDNumber))

	account, err := b.session.OpenAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0002", account.Number)

	active, err := b.session.ActiveAccount()
	require.NoError(t, err)
	assert.Equal(t, account.Number, active.Number)

	accounts, err := b.session.Accounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestSessionUseCase_SwitchUser(t *testing.T) {
	ctx := context.Background()
	b := newTestBank(t)
	b.openFunded(t, "0")
	require.NoError(t, b.session.Authenticate(ctx, testIDNumber))

	b.session.SwitchUser()
	assert.False(t, b.session.Authenticated())

	// Switching while logged out is a no-op.
	b.session.SwitchUser()
	assert.False(t, b.session.Authenticated())
}

func TestSessionUseCase_ResetAll(t *testing.T) {
	ctx := context.Background()
	b := newTestBank(t)
	b.openFunded(t, "100.00")
	require.NoError(t, b.session.Authenticate(ctx, testIDNumber))
	flushes := b.flusher.Calls()

	err := b.session.ResetAll(ctx, false)
	assert.ErrorIs(t, err, domain.ErrResetNotConfirmed)
	assert.True(t, b.session.Authenticated())
	assert.Equal(t, 1, b.state.AccountCount())
	assert.Equal(t, flushes, b.flusher.Calls())

	require.NoError(t, b.session.ResetAll(ctx, true))
	assert.False(t, b.session.Authenticated())
	assert.Empty(t, b.state.Identities())
	assert.Zero(t, b.state.AccountCount())
	assert.Zero(t, b.state.EntryCount())
	assert.Equal(t, flushes+1, b.flusher.Calls())

	// Numbering restarts after a reset.
	account := b.openFunded(t, "0")
	assert.Equal(t, "0001", account.Number)
}
