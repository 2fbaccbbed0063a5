// Package sqlite provides a file-backed prefs.Backend on SQLite, the closest analogue to
// an on-device preferences file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"personalinfo/internal/prefs"
	"personalinfo/pkg/platform/sentinel"
)

const schema = `
	CREATE TABLE IF NOT EXISTS preferences (
		namespace TEXT NOT NULL,
		key       TEXT NOT NULL,
		value     TEXT NOT NULL,
		PRIMARY KEY (namespace, key)
	)
`

// Store persists preferences in a SQLite file.
type Store struct {
	sqlDB     *sql.DB
	namespace string
}

// Option configures a Store.
type Option func(*Store)

// WithNamespace overrides prefs.DefaultNamespace.
func WithNamespace(namespace string) Option {
	return func(s *Store) {
		if namespace != "" {
			s.namespace = namespace
		}
	}
}

// Open opens (creating if needed) the SQLite file at path and ensures the schema.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(FULL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure preferences schema: %w", err)
	}

	s := &Store{sqlDB: sqlDB, namespace: prefs.DefaultNamespace}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Commit writes the batch in one transaction; any failing row rolls back all of it.
func (s *Store) Commit(ctx context.Context, batch *prefs.Batch) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("commit: %w", sentinel.ErrInvalidState)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := s.commit(ctx, batch); err != nil {
		return fmt.Errorf("commit %d keys: %w: %w", batch.Len(), sentinel.ErrCommitFailed, err)
	}
	return nil
}

func (s *Store) commit(ctx context.Context, batch *prefs.Batch) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO preferences (namespace, key, value) VALUES (?, ?, ?)
		ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range batch.Entries() {
		if _, err := stmt.ExecContext(ctx, s.namespace, e.Key, e.Value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) Read(ctx context.Context, keys []string) (map[string]string, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("read: %w", sentinel.ErrInvalidState)
	}
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	args := make([]any, 0, len(keys)+1)
	args = append(args, s.namespace)
	for _, k := range keys {
		args = append(args, k)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	query := `SELECT key, value FROM preferences WHERE namespace = ? AND key IN (` + placeholders + `)`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preferences: %w", err)
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return sentinel.ErrInvalidState
	}
	return s.sqlDB.PingContext(ctx)
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
