package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/domain"
)

// IdentityUseCase handles the identity directory.
type IdentityUseCase struct {
	state    *State
	flusher  Flusher
	clock    Clock
	recorder Recorder
	logger   zerolog.Logger
}

// NewIdentityUseCase creates a new IdentityUseCase.
func NewIdentityUseCase(state *State, flusher Flusher, clock Clock, recorder Recorder, logger zerolog.Logger) *IdentityUseCase {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &IdentityUseCase{
		state:    state,
		flusher:  flusher,
		clock:    clock,
		recorder: recorder,
		logger:   logger,
	}
}

// RegisterIdentityInput represents input for registering an identity.
type RegisterIdentityInput struct {
	IDNumber  string
	FullName  string
	BirthDate string
	Address   string
}

// Register adds a new identity to the directory.
//
// Registering an id that is already present is not an error in the usual
// sense: the existing identity is returned together with
// domain.ErrAlreadyRegistered and nothing is duplicated.
func (uc *IdentityUseCase) Register(ctx context.Context, input RegisterIdentityInput) (*domain.Identity, error) {
	if err := domain.ValidateIDNumber(input.IDNumber); err != nil {
		return nil, err
	}

	if existing, ok := uc.state.Identity(input.IDNumber); ok {
		return existing, domain.ErrAlreadyRegistered
	}

	if err := domain.ValidateFullName(input.FullName); err != nil {
		return nil, err
	}

	identity := &domain.Identity{
		IDNumber:  input.IDNumber,
		FullName:  strings.TrimSpace(input.FullName),
		BirthDate: strings.TrimSpace(input.BirthDate),
		Address:   strings.TrimSpace(input.Address),
		CreatedAt: uc.clock.Now(),
	}
	uc.state.addIdentity(identity)

	uc.recorder.IdentityRegistered()
	uc.logger.Info().Str("id_number", identity.IDNumber).Msg("identity registered")

	return identity, uc.flusher.Flush(ctx)
}

// Lookup returns the identity registered under idNumber.
func (uc *IdentityUseCase) Lookup(ctx context.Context, idNumber string) (*domain.Identity, error) {
	identity, ok := uc.state.Identity(idNumber)
	if !ok {
		return nil, domain.ErrUnknownIdentity
	}
	return identity, nil
}

// ListIdentities returns every identity in registration order.
func (uc *IdentityUseCase) ListIdentities(ctx context.Context) []*domain.Identity {
	return uc.state.Identities()
}
