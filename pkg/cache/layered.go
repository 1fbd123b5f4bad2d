package cache

import (
	"context"
	"time"
)

// LayeredCache is a two-level cache: an in-process L1 in front of a shared L2.
type LayeredCache struct {
	l1    *MemoryCache
	l2    Service
	l1TTL time.Duration
}

// LayeredOption configures Layered cache.
type LayeredOption func(*LayeredCache)

// WithL1TTL bounds how long L1 keeps a value fetched from L2.
func WithL1TTL(ttl time.Duration) LayeredOption {
	return func(c *LayeredCache) {
		c.l1TTL = ttl
	}
}

// NewLayeredCache wraps l2 with an in-memory L1.
func NewLayeredCache(l2 Service, l1 *MemoryCache, opts ...LayeredOption) *LayeredCache {
	if l1 == nil {
		l1 = NewMemoryCache()
	}
	lc := &LayeredCache{l1: l1, l2: l2, l1TTL: 5 * time.Minute}
	for _, opt := range opts {
		opt(lc)
	}
	return lc
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	// Write-through: L2 first so L1 never holds a value L2 rejected.
	if err := lc.l2.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	_ = lc.l1.Set(ctx, key, value, lc.ttlFor(expiration))
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, err := lc.l1.Get(ctx, key); err == nil {
		return v, nil
	}
	v, err := lc.l2.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	_ = lc.l1.Set(ctx, key, v, lc.l1TTL)
	return v, nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.l1.Delete(ctx, keys...)
	return lc.l2.Delete(ctx, keys...)
}

// Locks always go to L2 so they are visible to every process.
func (lc *LayeredCache) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return lc.l2.TryLock(ctx, key, ttl)
}

func (lc *LayeredCache) Unlock(ctx context.Context, key string) error {
	return lc.l2.Unlock(ctx, key)
}

// Close closes both cache layers.
func (lc *LayeredCache) Close() error {
	_ = lc.l1.Close()
	return lc.l2.Close()
}

func (lc *LayeredCache) ttlFor(expiration time.Duration) time.Duration {
	if expiration > 0 && expiration < lc.l1TTL {
		return expiration
	}
	return lc.l1TTL
}

var _ Service = (*LayeredCache)(nil)
