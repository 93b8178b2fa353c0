package cache

import (
	"context"
	"time"
)

// NullCache stores nothing, so every distance is recomputed. Reason records
// why caching is off, e.g. "--no-cache" or "redis unavailable".
type NullCache struct {
	Reason string
}

// NewNullCache returns a disabled cache with the given reason.
func NewNullCache(reason string) Cache {
	return &NullCache{Reason: reason}
}

// DisabledReason reports whether c is a [NullCache] and why.
func DisabledReason(c Cache) (string, bool) {
	if nc, ok := c.(*NullCache); ok {
		return nc.Reason, true
	}
	return "", false
}

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (c *NullCache) Delete(context.Context, string) error { return nil }

func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
