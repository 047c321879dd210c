package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/domain"
)

// StateFlusher implements Flusher by saving a snapshot of State to a Store.
type StateFlusher struct {
	state  *State
	store  Store
	logger zerolog.Logger
}

// NewStateFlusher creates a new StateFlusher.
func NewStateFlusher(state *State, store Store, logger zerolog.Logger) *StateFlusher {
	return &StateFlusher{
		state:  state,
		store:  store,
		logger: logger,
	}
}

// Flush rewrites the full state. Failures are logged and wrapped with
// domain.ErrPersistence; the in-memory state is left untouched.
func (f *StateFlusher) Flush(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultFlushTimeout)
	defer cancel()

	if err := f.store.Save(ctx, f.state.Snapshot()); err != nil {
		f.logger.Error().Err(err).Msg("failed to persist state")
		return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}

	f.logger.Debug().
		Int("identities", len(f.state.identityOrder)).
		Int("accounts", f.state.AccountCount()).
		Int("entries", f.state.EntryCount()).
		Msg("state persisted")

	return nil
}

// LoadState builds a State from store. A store error degrades to an empty
// state so a broken data directory never prevents startup.
func LoadState(ctx context.Context, store Store, logger zerolog.Logger) *State {
	state := NewState()

	snapshot, err := store.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load state, starting empty")
		return state
	}

	report := state.Restore(snapshot)
	if report != (RestoreReport{}) {
		logger.Warn().
			Int("dropped_identities", report.DroppedIdentities).
			Int("dropped_accounts", report.DroppedAccounts).
			Int("dropped_entries", report.DroppedEntries).
			Msg("inconsistent records dropped while loading state")
	}

	logger.Debug().
		Int("identities", len(state.identityOrder)).
		Int("accounts", state.AccountCount()).
		Int("entries", state.EntryCount()).
		Msg("state loaded")

	return state
}
