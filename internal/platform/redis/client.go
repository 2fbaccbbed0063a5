package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"personalinfo/internal/platform/config"
	"personalinfo/pkg/platform/sentinel"
)

// ErrNoURL is returned when the Redis backend is selected without a URL.
var ErrNoURL = errors.New("redis URL not configured")

// Options turns the Redis configuration into go-redis options. Zero-valued tuning
// fields keep the go-redis defaults.
func Options(cfg config.Redis) (*redis.Options, error) {
	if cfg.URL == "" {
		return nil, ErrNoURL
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

// Open connects to Redis and verifies the connection with a PING. The caller owns
// the returned client.
func Open(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w: %w", sentinel.ErrUnavailable, err)
	}
	return client, nil
}
