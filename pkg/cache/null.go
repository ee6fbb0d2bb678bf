package cache

import (
	"context"
	"time"
)

// NullCache backs the "none" backend and --no-cache: every lookup misses and
// writes are dropped. It still honors context cancellation like the real
// backends, so a canceled request fails the same way with or without a
// cache.
type NullCache struct{}

// NewNullCache returns the disabled cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Disabled reports whether c never stores anything. Callers use it to skip
// hashing the input when no result could be served or kept.
func Disabled(c Cache) bool {
	if c == nil {
		return true
	}
	_, ok := c.(*NullCache)
	return ok
}

func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, ctx.Err()
}

func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return ctx.Err()
}

func (c *NullCache) Delete(ctx context.Context, key string) error {
	return ctx.Err()
}

func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
