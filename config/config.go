// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the broker service's environment-driven configuration.
type Config struct {
	// StorePath is the SQLite database path. ":memory:" or empty keeps
	// everything in process memory.
	StorePath string `env:"SAM_STORE_PATH"`

	// CacheTTL bounds how long derived lookups (hostname resolution)
	// are cached.
	CacheTTL time.Duration `env:"SAM_CACHE_TTL" envDefault:"5m"`

	// TaskTimeout bounds each background deploy/undeploy task.
	TaskTimeout time.Duration `env:"SAM_TASK_TIMEOUT" envDefault:"2m"`

	// AuditCapacity bounds the in-memory audit log.
	AuditCapacity int `env:"SAM_AUDIT_CAPACITY" envDefault:"4096"`

	// LogLevel is the minimum slog level ("debug", "info", "warn",
	// "error").
	LogLevel string `env:"SAM_LOG_LEVEL" envDefault:"info"`
}

// FromEnv loads configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
