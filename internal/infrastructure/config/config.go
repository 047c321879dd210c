package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
)

// Storage backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config holds all application configuration.
type Config struct {
	// Storage
	DataDir           string `env:"DATA_DIR"            envDefault:"data"`
	StorageBackend    string `env:"STORAGE_BACKEND"     envDefault:"file"`
	PersistMaxRetries int    `env:"PERSIST_MAX_RETRIES" envDefault:"3"`

	// Redis
	RedisURL       string `env:"REDIS_URL"        envDefault:"redis://localhost:6379"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"bank:"`

	// Statements
	StatementDir string `env:"STATEMENT_DIR" envDefault:"."`

	// Account policy
	WithdrawalLimit  decimal.Decimal `env:"WITHDRAWAL_LIMIT"  envDefault:"500.00"`
	DailyWithdrawals int             `env:"DAILY_WITHDRAWALS" envDefault:"3"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"warn"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// Metrics (empty disables the textfile dump)
	MetricsTextfile string `env:"METRICS_TEXTFILE" envDefault:""`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendFile, BackendRedis:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (want %q or %q)", c.StorageBackend, BackendFile, BackendRedis)
	}

	if !c.WithdrawalLimit.IsPositive() {
		return fmt.Errorf("WITHDRAWAL_LIMIT must be positive, got %s", c.WithdrawalLimit)
	}
	if c.DailyWithdrawals <= 0 {
		return fmt.Errorf("DAILY_WITHDRAWALS must be positive, got %d", c.DailyWithdrawals)
	}
	if c.PersistMaxRetries < 0 {
		return fmt.Errorf("PERSIST_MAX_RETRIES cannot be negative, got %d", c.PersistMaxRetries)
	}

	return nil
}

// Policy returns the policy new accounts are opened with.
func (c *Config) Policy() domain.Policy {
	return domain.Policy{
		WithdrawalLimit:  c.WithdrawalLimit,
		DailyWithdrawals: c.DailyWithdrawals,
	}
}
