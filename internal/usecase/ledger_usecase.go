package usecase

import (
	"context"
	"errors"
	"iter"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// LedgerUseCase handles deposits, withdrawals and history queries.
type LedgerUseCase struct {
	state    *State
	flusher  Flusher
	clock    Clock
	idGen    IDGenerator
	recorder Recorder
	logger   zerolog.Logger
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	state *State,
	flusher Flusher,
	clock Clock,
	idGen IDGenerator,
	recorder Recorder,
	logger zerolog.Logger,
) *LedgerUseCase {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &LedgerUseCase{
		state:    state,
		flusher:  flusher,
		clock:    clock,
		idGen:    idGen,
		recorder: recorder,
		logger:   logger,
	}
}

// Deposit credits amount to the account and returns the new balance.
//
// A rejected deposit leaves the account untouched. When the ledger accepts the
// deposit but the state cannot be persisted, the new balance is returned
// together with an error wrapping domain.ErrPersistence.
func (uc *LedgerUseCase) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (decimal.Decimal, error) {
	return uc.apply(ctx, accountNumber, domain.EntryKindDeposit, amount)
}

// Withdraw debits amount from the account and returns the new balance.
// Failure semantics match Deposit.
func (uc *LedgerUseCase) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) (decimal.Decimal, error) {
	return uc.apply(ctx, accountNumber, domain.EntryKindWithdrawal, amount)
}

func (uc *LedgerUseCase) apply(ctx context.Context, accountNumber string, kind domain.EntryKind, amount decimal.Decimal) (decimal.Decimal, error) {
	account, ok := uc.state.Account(accountNumber)
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}

	now := uc.clock.Now()
	day := domain.DayKey(now)

	var err error
	if kind == domain.EntryKindWithdrawal {
		err = account.ValidateWithdrawal(amount, day)
	} else {
		err = account.ValidateDeposit(amount, day)
	}
	if err != nil {
		uc.recorder.OperationRejected(kind, RejectionReason(err))
		uc.logger.Debug().
			Err(err).
			Str("account", accountNumber).
			Str("kind", string(kind)).
			Str("amount", amount.String()).
			Msg("operation rejected")
		return account.Balance, err
	}

	previous := account.Balance
	var balance decimal.Decimal
	if kind == domain.EntryKindWithdrawal {
		balance = account.ApplyWithdrawal(amount, day)
	} else {
		balance = account.ApplyDeposit(amount, day)
	}

	uc.state.appendEntry(&domain.Entry{
		ID:              uc.idGen.Generate(),
		Kind:            kind,
		OwnerID:         account.OwnerID,
		AccountNumber:   account.Number,
		Amount:          amount,
		PreviousBalance: previous,
		CurrentBalance:  balance,
		CreatedAt:       now,
	})

	uc.recorder.OperationAccepted(kind, amount)
	uc.logger.Info().
		Str("account", accountNumber).
		Str("kind", string(kind)).
		Str("amount", amount.String()).
		Str("balance", balance.String()).
		Msg("operation accepted")

	return balance, uc.flusher.Flush(ctx)
}

// Balance returns the stored balance of an account.
func (uc *LedgerUseCase) Balance(ctx context.Context, accountNumber string) (decimal.Decimal, error) {
	account, ok := uc.state.Account(accountNumber)
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	return account.Balance, nil
}

// HistoryFilter narrows History. Empty fields do not filter.
type HistoryFilter struct {
	OwnerID       string
	AccountNumber string
}

func (f HistoryFilter) matches(e *domain.Entry) bool {
	if f.OwnerID != "" && e.OwnerID != f.OwnerID {
		return false
	}
	if f.AccountNumber != "" && e.AccountNumber != f.AccountNumber {
		return false
	}
	return true
}

// History returns the log entries matching filter in insertion order.
// The sequence is lazy and can be ranged over any number of times.
func (uc *LedgerUseCase) History(filter HistoryFilter) iter.Seq[*domain.Entry] {
	return func(yield func(*domain.Entry) bool) {
		for e := range uc.state.Entries() {
			if !filter.matches(e) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// RejectionReason maps a ledger error to a stable label.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrPerWithdrawalLimitExceeded):
		return "per_withdrawal_limit"
	case errors.Is(err, domain.ErrDailyWithdrawalLimitExceeded):
		return "daily_withdrawal_limit"
	case errors.Is(err, domain.ErrDailyTransactionLimitExceeded):
		return "daily_transaction_limit"
	default:
		return "other"
	}
}

// NopRecorder discards every metric.
type NopRecorder struct{}

func (NopRecorder) OperationAccepted(domain.EntryKind, decimal.Decimal) {}
func (NopRecorder) OperationRejected(domain.EntryKind, string)          {}
func (NopRecorder) AccountOpened()                                      {}
func (NopRecorder) IdentityRegistered()                                 {}
