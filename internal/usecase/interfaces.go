package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// Snapshot is the full persisted banking state.
type Snapshot struct {
	Identities []*domain.Identity
	Accounts   []*domain.Account
	Entries    []*domain.Entry
}

// Store defines the persistence adapter for the banking state.
type Store interface {
	// Load returns the persisted state. Missing or unreadable documents yield empty collections.
	Load(ctx context.Context) (*Snapshot, error)
	// Save overwrites every persisted document with snapshot.
	Save(ctx context.Context, snapshot *Snapshot) error
}

// Flusher writes the current in-memory state through to the store.
type Flusher interface {
	Flush(ctx context.Context) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock provides the current local time.
type Clock interface {
	Now() time.Time
}

// Recorder receives ledger events for metrics.
type Recorder interface {
	OperationAccepted(kind domain.EntryKind, amount decimal.Decimal)
	OperationRejected(kind domain.EntryKind, reason string)
	AccountOpened()
	IdentityRegistered()
}
