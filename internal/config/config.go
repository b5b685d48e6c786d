// Package config loads service configuration from environment variables.
package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the configuration of the bookkeeper binaries.
type Config struct {
	// MongoDB
	MongoURL      string        `env:"MONGODB_URL"      envDefault:"mongodb://localhost:27017"`
	MongoDatabase string        `env:"MONGODB_DATABASE" envDefault:"bookkeeper"`
	MongoTimeout  time.Duration `env:"MONGODB_TIMEOUT"  envDefault:"30s"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Book tuning
	Precision               int           `env:"BOOK_PRECISION"            envDefault:"8"`
	MaxAccountPath          int           `env:"BOOK_MAX_ACCOUNT_PATH"     envDefault:"3"`
	BalanceSnapshotInterval time.Duration `env:"BALANCE_SNAPSHOT_INTERVAL" envDefault:"24h"`
	// Zero means twice the snapshot interval.
	BalanceSnapshotExpiry time.Duration `env:"BALANCE_SNAPSHOT_EXPIRY" envDefault:"0s"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
