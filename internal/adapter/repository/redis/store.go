package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/adapter/repository/document"
	"github.com/iho/gobank/internal/usecase"
)

// DefaultKeyPrefix namespaces the document keys.
const DefaultKeyPrefix = "bank:"

// Store implements usecase.Store using Redis. Each document is one string key.
type Store struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

// NewStore creates a new Store.
func NewStore(client *redis.Client, prefix string, logger zerolog.Logger) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

// Key returns the Redis key of document name.
func (s *Store) Key(name string) string {
	return s.prefix + name
}

// Load fetches all documents in one round trip. Missing keys are empty and
// corrupt values are logged and replaced by empty defaults.
func (s *Store) Load(ctx context.Context) (*usecase.Snapshot, error) {
	keys := make([]string, len(document.Names))
	for i, name := range document.Names {
		keys[i] = s.Key(name)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	docs := make(map[string][]byte, len(document.Names))
	for i, v := range values {
		if str, ok := v.(string); ok {
			docs[document.Names[i]] = []byte(str)
		}
	}

	snapshot, err := document.Decode(docs)
	if err != nil {
		s.logger.Warn().Err(err).Str("prefix", s.prefix).Msg("corrupt documents replaced with empty defaults")
	}
	return snapshot, nil
}

// Save overwrites all documents inside a MULTI/EXEC block.
func (s *Store) Save(ctx context.Context, snapshot *usecase.Snapshot) error {
	docs, err := document.Encode(snapshot)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, name := range document.Names {
			pipe.Set(ctx, s.Key(name), docs[name], 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save documents: %w", err)
	}
	return nil
}
