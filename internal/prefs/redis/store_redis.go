package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"personalinfo/internal/prefs"
	"personalinfo/pkg/platform/sentinel"
)

// Redis key prefix for preference hashes.
const keyPrefix = "prefs:"

// Store is a Redis-backed prefs.Backend. Each namespace is one hash; a batch is written
// with a single HSET inside MULTI/EXEC, so it lands entirely or not at all.
type Store struct {
	client    redis.UniversalClient
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

// New constructs a Redis-backed preference store. The client lifecycle is managed by
// the caller.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client:    client,
		namespace: prefs.DefaultNamespace,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) hashKey() string {
	return keyPrefix + s.namespace
}

func (s *Store) Commit(ctx context.Context, batch *prefs.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	fields := make([]any, 0, batch.Len()*2)
	for _, e := range batch.Entries() {
		fields = append(fields, e.Key, e.Value)
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.hashKey(), fields...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("commit %d keys: %w: %w", batch.Len(), sentinel.ErrCommitFailed, err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := s.client.HMGet(ctx, s.hashKey(), keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	for i, v := range vals {
		// HMGET yields nil for absent fields
		if str, ok := v.(string); ok {
			out[keys[i]] = str
		}
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// Close is a no-op; the client lifecycle is managed externally.
func (s *Store) Close() error {
	return nil
}
