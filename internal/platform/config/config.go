package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported preference backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Server   Server
	Log      Log
	Store    Store
	Redis    Redis
	Postgres Postgres
	SQLite   SQLite
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"PERSONALINFO_ADDR"             envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"PERSONALINFO_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"PERSONALINFO_REQUEST_TIMEOUT"  envDefault:"30s"`
}

// Log controls the slog handler.
type Log struct {
	Level  string `env:"PERSONALINFO_LOG_LEVEL"  envDefault:"info"`
	Format string `env:"PERSONALINFO_LOG_FORMAT" envDefault:"json"`
}

// Store selects the preference backend.
type Store struct {
	Backend   string `env:"PERSONALINFO_STORE_BACKEND"   envDefault:"sqlite"`
	Namespace string `env:"PERSONALINFO_STORE_NAMESPACE" envDefault:"personal_info"`
}

// Redis configures the Redis backend.
type Redis struct {
	URL          string        `env:"PERSONALINFO_REDIS_URL"`
	PoolSize     int           `env:"PERSONALINFO_REDIS_POOL_SIZE"     envDefault:"10"`
	DialTimeout  time.Duration `env:"PERSONALINFO_REDIS_DIAL_TIMEOUT"  envDefault:"5s"`
	ReadTimeout  time.Duration `env:"PERSONALINFO_REDIS_READ_TIMEOUT"  envDefault:"3s"`
	WriteTimeout time.Duration `env:"PERSONALINFO_REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// Postgres configures the PostgreSQL backend.
type Postgres struct {
	DSN          string `env:"PERSONALINFO_POSTGRES_DSN"`
	MaxOpenConns int    `env:"PERSONALINFO_POSTGRES_MAX_OPEN_CONNS" envDefault:"5"`
}

// SQLite configures the SQLite backend.
type SQLite struct {
	Path string `env:"PERSONALINFO_SQLITE_PATH" envDefault:"personalinfo.db"`
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("PERSONALINFO_REDIS_URL is required for the %s backend", BackendRedis)
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("PERSONALINFO_POSTGRES_DSN is required for the %s backend", BackendPostgres)
		}
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("PERSONALINFO_SQLITE_PATH is required for the %s backend", BackendSQLite)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}
