package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisCache connects and verifies the connection up front; callers that
// cannot reach redis should fall back to the Noop cache.
func NewRedisCache(addr, password string, logger *slog.Logger) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: rdb, logger: logger}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", "key", key, "error", err)
		}
		return "", false
	}
	return value, true
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// DeletePrefix drops every key under prefix. SCAN returns keys in batches
// without blocking the server, so invalidation stays safe on large keyspaces.
func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) {
	pattern := prefix + "*"
	var cursor uint64

	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.logger.Warn("cache scan failed", "pattern", pattern, "error", err)
			return
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.logger.Warn("cache delete failed", "pattern", pattern, "error", err)
				return
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
