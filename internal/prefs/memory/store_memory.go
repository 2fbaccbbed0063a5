package memory

import (
	"context"
	"fmt"
	"sync"

	"personalinfo/internal/prefs"
	"personalinfo/pkg/platform/sentinel"
)

// Store is an in-process prefs.Backend. Commits apply under a single lock, so readers
// never observe half of a batch.
type Store struct {
	mu        sync.RWMutex
	values    map[string]string
	commitErr error
	commits   int
}

// Option configures a Store.
type Option func(*Store)

// WithCommitError makes every commit fail with err and leave stored values unchanged.
func WithCommitError(err error) Option {
	return func(s *Store) {
		s.commitErr = err
	}
}

// WithValues seeds the store, as if a previous commit had written them.
func WithValues(values map[string]string) Option {
	return func(s *Store) {
		for k, v := range values {
			s.values[k] = v
		}
	}
}

// New returns an empty in-memory backend.
func New(opts ...Option) *Store {
	s := &Store{values: make(map[string]string)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// NewBroken returns a backend whose commits always fail.
func NewBroken() *Store {
	return New(WithCommitError(sentinel.ErrCommitFailed))
}

func (s *Store) Commit(ctx context.Context, batch *prefs.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.commitErr != nil {
		return fmt.Errorf("commit %d keys: %w", batch.Len(), s.commitErr)
	}
	for _, e := range batch.Entries() {
		s.values[e.Key] = e.Value
	}
	s.commits++
	return nil
}

func (s *Store) Read(ctx context.Context, keys []string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := s.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Commits reports how many commits have been applied.
func (s *Store) Commits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits
}

// Clear drops all stored values.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
}
