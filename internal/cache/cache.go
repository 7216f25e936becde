package cache

import (
	"context"
	"time"
)

// Cache is a best-effort read accelerator. Implementations log their own
// failures; a broken cache degrades to a miss, never to a request failure.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	DeletePrefix(ctx context.Context, prefix string)
}

// Noop satisfies Cache when no redis is configured (tests, dev without redis).
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) (string, bool)            { return "", false }
func (Noop) Set(ctx context.Context, key, value string, ttl time.Duration) {}
func (Noop) DeletePrefix(ctx context.Context, prefix string)               {}
