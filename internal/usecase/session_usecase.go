package usecase

import (
	"context"
	"iter"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// SessionUseCase tracks the authenticated identity and its active account.
// Ledger operations issued through the session act on the active account.
type SessionUseCase struct {
	state    *State
	accounts *AccountUseCase
	ledger   *LedgerUseCase
	flusher  Flusher
	logger   zerolog.Logger

	idNumber      string
	accountNumber string
}

// NewSessionUseCase creates an unauthenticated session.
func NewSessionUseCase(
	state *State,
	accounts *AccountUseCase,
	ledger *LedgerUseCase,
	flusher Flusher,
	logger zerolog.Logger,
) *SessionUseCase {
	return &SessionUseCase{
		state:    state,
		accounts: accounts,
		ledger:   ledger,
		flusher:  flusher,
		logger:   logger,
	}
}

// Authenticate logs idNumber in. It fails with domain.ErrUnknownIdentity when
// the identity is not registered and with domain.ErrNoAccounts when it owns no
// account; the session stays unauthenticated in both cases. On success the
// identity's first account becomes active.
func (uc *SessionUseCase) Authenticate(ctx context.Context, idNumber string) error {
	uc.SwitchUser()

	identity, ok := uc.state.Identity(idNumber)
	if !ok {
		return domain.ErrUnknownIdentity
	}

	accounts := uc.accounts.FindByOwner(ctx, identity.IDNumber)
	if len(accounts) == 0 {
		return domain.ErrNoAccounts
	}

	uc.idNumber = identity.IDNumber
	uc.accountNumber = accounts[0].Number

	uc.logger.Info().
		Str("id_number", uc.idNumber).
		Str("account", uc.accountNumber).
		Msg("session authenticated")

	return nil
}

// Authenticated reports whether a client is logged in.
func (uc *SessionUseCase) Authenticated() bool {
	return uc.idNumber != ""
}

// Identity returns the authenticated identity.
func (uc *SessionUseCase) Identity() (*domain.Identity, error) {
	if !uc.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	identity, ok := uc.state.Identity(uc.idNumber)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	return identity, nil
}

// ActiveAccount returns the account ledger operations act on.
func (uc *SessionUseCase) ActiveAccount() (*domain.Account, error) {
	if !uc.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	account, ok := uc.state.Account(uc.accountNumber)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

// Accounts returns the authenticated identity's accounts.
func (uc *SessionUseCase) Accounts(ctx context.Context) ([]*domain.Account, error) {
	if !uc.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	return uc.accounts.FindByOwner(ctx, uc.idNumber), nil
}

// SelectAccount makes number the active account. Only the authenticated
// identity's own accounts can be selected.
func (uc *SessionUseCase) SelectAccount(ctx context.Context, number string) error {
	identity, err := uc.Identity()
	if err != nil {
		return err
	}
	if !identity.Owns(number) {
		return domain.ErrAccountNotFound
	}
	uc.accountNumber = number
	return nil
}

// OpenAccount opens a new account for the authenticated identity and makes it active.
func (uc *SessionUseCase) OpenAccount(ctx context.Context) (*domain.Account, error) {
	if !uc.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	account, err := uc.accounts.OpenAccount(ctx, uc.idNumber)
	if account != nil {
		uc.accountNumber = account.Number
	}
	return account, err
}

// SwitchUser logs the current client out.
func (uc *SessionUseCase) SwitchUser() {
	uc.idNumber = ""
	uc.accountNumber = ""
}

// ResetAll wipes every identity, account and log entry and logs out.
// It refuses to run unless confirmed.
func (uc *SessionUseCase) ResetAll(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return domain.ErrResetNotConfirmed
	}

	uc.SwitchUser()
	uc.state.Reset()
	uc.logger.Warn().Msg("all banking data wiped")

	return uc.flusher.Flush(ctx)
}

// Deposit deposits amount into the active account.
func (uc *SessionUseCase) Deposit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	account, err := uc.ActiveAccount()
	if err != nil {
		return decimal.Zero, err
	}
	return uc.ledger.Deposit(ctx, account.Number, amount)
}

// Withdraw withdraws amount from the active account.
func (uc *SessionUseCase) Withdraw(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	account, err := uc.ActiveAccount()
	if err != nil {
		return decimal.Zero, err
	}
	return uc.ledger.Withdraw(ctx, account.Number, amount)
}

// Balance returns the active account's balance.
func (uc *SessionUseCase) Balance(ctx context.Context) (decimal.Decimal, error) {
	account, err := uc.ActiveAccount()
	if err != nil {
		return decimal.Zero, err
	}
	return uc.ledger.Balance(ctx, account.Number)
}

// Statement returns the active account's log entries.
func (uc *SessionUseCase) Statement(ctx context.Context) (iter.Seq[*domain.Entry], error) {
	account, err := uc.ActiveAccount()
	if err != nil {
		return nil, err
	}
	return uc.ledger.History(HistoryFilter{
		OwnerID:       account.OwnerID,
		AccountNumber: account.Number,
	}), nil
}
