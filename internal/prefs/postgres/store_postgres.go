package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"personalinfo/internal/prefs"
	"personalinfo/pkg/platform/sentinel"
	txcontext "personalinfo/pkg/platform/tx"
)

const schema = `
	CREATE TABLE IF NOT EXISTS preferences (
		namespace  TEXT        NOT NULL,
		key        TEXT        NOT NULL,
		value      TEXT        NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (namespace, key)
	)
`

// Store persists preferences in PostgreSQL, one row per (namespace, key).
type Store struct {
	db        *sql.DB
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

// New constructs a PostgreSQL-backed preference store on an open handle.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:        db,
		namespace: prefs.DefaultNamespace,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// EnsureSchema creates the preferences table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure preferences schema: %w", err)
	}
	return nil
}

// Commit upserts the whole batch in one statement inside a transaction.
// Uses unnest so a batch costs one round trip regardless of size.
func (s *Store) Commit(ctx context.Context, batch *prefs.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	keys := make([]string, 0, batch.Len())
	values := make([]string, 0, batch.Len())
	for _, e := range batch.Entries() {
		keys = append(keys, e.Key)
		values = append(values, e.Value)
	}

	query := `
		INSERT INTO preferences (namespace, key, value, updated_at)
		SELECT $1, k, v, now()
		FROM unnest($2::text[], $3::text[]) AS t(k, v)
		ON CONFLICT (namespace, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`
	err := txcontext.Run(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, s.namespace, pq.Array(keys), pq.Array(values))
		return err
	})
	if err != nil {
		return fmt.Errorf("commit %d keys: %w: %w", len(keys), sentinel.ErrCommitFailed, err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM preferences WHERE namespace = $1 AND key = ANY($2::text[])`,
		s.namespace, pq.Array(keys))
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
	if err := s.db.PingContext(ctx); err != nil {
		if errors.Is(err, sql.ErrConnDone) {
			return fmt.Errorf("%w: %w", sentinel.ErrInvalidState, err)
		}
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// Close closes the underlying handle.
func (s *Store) Close() error {
	return s.db.Close()
}
