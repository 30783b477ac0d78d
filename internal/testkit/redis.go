package testkit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisModule is the Redis instance shared by the store, cache and asynq tests.
type RedisModule struct {
	container testcontainers.Container
	addr      string
}

// Addr returns host:port, the form both go-redis and asynq take.
func (r *RedisModule) Addr() string { return r.addr }

// Terminate stops the container, if one was started.
func (r *RedisModule) Terminate(ctx context.Context) error {
	if r.container == nil {
		return nil
	}
	return r.container.Terminate(ctx)
}

// StartRedis starts a Redis container unless cfg.RedisAddr points at one already running.
func StartRedis(ctx context.Context, cfg *Config) (*RedisModule, error) {
	if cfg.RedisAddr != "" {
		return &RedisModule{addr: cfg.RedisAddr}, nil
	}

	ctr, err := tcredis.Run(ctx, cfg.RedisImage)
	if err != nil {
		return nil, fmt.Errorf("start redis container: %w", err)
	}

	// empty proto yields host:port rather than a redis:// URL
	addr, err := ctr.Endpoint(ctx, "")
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("get redis endpoint: %w", err)
	}

	return &RedisModule{container: ctr, addr: addr}, nil
}

// NewClient connects to addr and flushes the selected database.
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	if err := rdb.FlushDB(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("flush redis %s: %w", addr, err)
	}
	return rdb, nil
}
