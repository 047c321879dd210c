package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/adapter/repository/jsonfile"
	redisRepo "github.com/iho/gobank/internal/adapter/repository/redis"
	"github.com/iho/gobank/internal/infrastructure/clock"
	"github.com/iho/gobank/internal/infrastructure/config"
	"github.com/iho/gobank/internal/infrastructure/idgen"
	applog "github.com/iho/gobank/internal/infrastructure/logger"
	"github.com/iho/gobank/internal/infrastructure/metrics"
	"github.com/iho/gobank/internal/infrastructure/redis"
	"github.com/iho/gobank/internal/usecase"
)

// app is the wired application shared by every command.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	state   *usecase.State
	metrics *metrics.Metrics
	clock   *clock.System

	identities     *usecase.IdentityUseCase
	accounts       *usecase.AccountUseCase
	ledger         *usecase.LedgerUseCase
	session        *usecase.SessionUseCase
	reconciliation *usecase.ReconciliationUseCase

	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*app, error) {
	logger := applog.New(applog.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Out:    logOut,
	})

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.New(),
		clock:   clock.New(nil),
	}

	store, err := a.newStore(ctx)
	if err != nil {
		return nil, err
	}

	a.state = usecase.LoadState(ctx, store, logger)
	flusher := usecase.NewStateFlusher(a.state, store, logger)

	a.identities = usecase.NewIdentityUseCase(a.state, flusher, a.clock, a.metrics, logger)
	a.accounts = usecase.NewAccountUseCase(a.state, flusher, a.clock, a.metrics, cfg.Policy(), logger)
	a.ledger = usecase.NewLedgerUseCase(a.state, flusher, a.clock, idgen.NewULIDGenerator(), a.metrics, logger)
	a.session = usecase.NewSessionUseCase(a.state, a.accounts, a.ledger, flusher, logger)
	a.reconciliation = usecase.NewReconciliationUseCase(a.state, a.ledger, a.clock)

	return a, nil
}

func (a *app) newStore(ctx context.Context) (usecase.Store, error) {
	switch a.cfg.StorageBackend {
	case config.BackendRedis:
		client, err := redis.NewClient(ctx, redis.Config{
			URL:        a.cfg.RedisURL,
			MaxRetries: a.cfg.PersistMaxRetries,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		a.logger.Debug().Str("url", a.cfg.RedisURL).Msg("using redis state store")
		return redisRepo.NewStore(client, a.cfg.RedisKeyPrefix, a.logger), nil

	default:
		a.logger.Debug().Str("dir", a.cfg.DataDir).Msg("using json file state store")
		retrier := jsonfile.NewRetrier(a.cfg.PersistMaxRetries, a.logger)
		return jsonfile.NewStore(a.cfg.DataDir, retrier, a.logger), nil
	}
}

// Close dumps the metrics textfile when configured and releases connections.
func (a *app) Close() error {
	var firstErr error

	if a.cfg.MetricsTextfile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
			a.logger.Error().Err(err).Str("path", a.cfg.MetricsTextfile).Msg("failed to write metrics")
			firstErr = fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// login authenticates idNumber and, when account is set, selects it.
func (a *app) login(ctx context.Context, idNumber, account string) error {
	if err := a.session.Authenticate(ctx, idNumber); err != nil {
		return err
	}
	if account != "" {
		return a.session.SelectAccount(ctx, account)
	}
	return nil
}
