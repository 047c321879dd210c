package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/domain"
)

// AccountUseCase handles the account registry.
type AccountUseCase struct {
	state         *State
	flusher       Flusher
	clock         Clock
	recorder      Recorder
	defaultPolicy domain.Policy
	logger        zerolog.Logger
}

// NewAccountUseCase creates a new AccountUseCase. Every account it opens
// starts with defaultPolicy.
func NewAccountUseCase(
	state *State,
	flusher Flusher,
	clock Clock,
	recorder Recorder,
	defaultPolicy domain.Policy,
	logger zerolog.Logger,
) *AccountUseCase {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &AccountUseCase{
		state:         state,
		flusher:       flusher,
		clock:         clock,
		recorder:      recorder,
		defaultPolicy: defaultPolicy,
		logger:        logger,
	}
}

// OpenAccount opens a new account for ownerID under the next sequential number.
func (uc *AccountUseCase) OpenAccount(ctx context.Context, ownerID string) (*domain.Account, error) {
	owner, ok := uc.state.Identity(ownerID)
	if !ok {
		return nil, domain.ErrUnknownIdentity
	}

	account := domain.NewAccount(uc.nextNumber(), owner.IDNumber, uc.defaultPolicy, uc.clock.Now())
	uc.state.addAccount(account)
	owner.AccountNumbers = append(owner.AccountNumbers, account.Number)

	uc.recorder.AccountOpened()
	uc.logger.Info().
		Str("account", account.Number).
		Str("owner", owner.IDNumber).
		Msg("account opened")

	return account, uc.flusher.Flush(ctx)
}

// nextNumber derives the number from the registry size. Numbers are never
// reused since accounts are only removed by a full reset.
func (uc *AccountUseCase) nextNumber() string {
	seq := uc.state.AccountCount() + 1
	for {
		number := fmt.Sprintf(AccountNumberFormat, seq)
		if _, taken := uc.state.Account(number); !taken {
			return number
		}
		seq++
	}
}

// FindByNumber retrieves an account by number.
func (uc *AccountUseCase) FindByNumber(ctx context.Context, number string) (*domain.Account, error) {
	account, ok := uc.state.Account(number)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

// FindByOwner returns the accounts of ownerID in opening order.
func (uc *AccountUseCase) FindByOwner(ctx context.Context, ownerID string) []*domain.Account {
	owner, ok := uc.state.Identity(ownerID)
	if !ok {
		return nil
	}

	accounts := make([]*domain.Account, 0, len(owner.AccountNumbers))
	for _, n := range owner.AccountNumbers {
		if account, ok := uc.state.Account(n); ok {
			accounts = append(accounts, account)
		}
	}
	return accounts
}

// ListAccounts returns every account in opening order.
func (uc *AccountUseCase) ListAccounts(ctx context.Context) []*domain.Account {
	return uc.state.Accounts()
}
