//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"personalinfo/internal/platform/config"
	platformredis "personalinfo/internal/platform/redis"
)

// RedisContainer is a running Redis with a client opened the way the server opens it.
type RedisContainer struct {
	Container testcontainers.Container
	Config    config.Redis
	Client    *redis.Client
}

// NewRedisContainer starts Redis and connects through platformredis.Open.
func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("redis connection string: %v", err)
	}

	cfg := config.Redis{URL: url, PoolSize: 4}
	client, err := platformredis.Open(ctx, cfg)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("open redis: %v", err)
	}

	// Shared through Manager; Ryuk reaps the container.
	return &RedisContainer{Container: container, Config: cfg, Client: client}
}

// FlushAll empties the database between tests.
func (r *RedisContainer) FlushAll(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}
