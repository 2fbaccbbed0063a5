package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"personalinfo/internal/platform/config"
	platformredis "personalinfo/internal/platform/redis"
	"personalinfo/internal/prefs"
	"personalinfo/internal/prefs/memory"
	"personalinfo/internal/prefs/postgres"
	prefsredis "personalinfo/internal/prefs/redis"
	"personalinfo/internal/prefs/sqlite"
)

// backend is a prefs.Backend the process owns and must close.
type backend interface {
	prefs.Backend
	prefs.Pinger
}

// openBackend builds the configured backend and returns a closer for everything it
// opened.
func openBackend(ctx context.Context, cfg config.Config) (backend, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Backend {
	case config.BackendMemory:
		return memory.New(), noop, nil

	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLite.Path, sqlite.WithNamespace(cfg.Store.Namespace))
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case config.BackendRedis:
		client, err := platformredis.Open(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		store := prefsredis.New(client, prefsredis.WithNamespace(cfg.Store.Namespace))
		return store, client.Close, nil

	case config.BackendPostgres:
		db, err := sql.Open("pgx", cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		store := postgres.New(db, postgres.WithNamespace(cfg.Store.Namespace))
		if err := store.Ping(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
