package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value    []byte
	expireAt time.Time
	access   time.Time
}

func (m *memoryItem) expired(now time.Time) bool {
	return now.After(m.expireAt)
}

// MemoryCache implements Service in process with LRU eviction. Expired
// items are dropped lazily.
type MemoryCache struct {
	mu         sync.Mutex
	data       map[string]*memoryItem
	maxSize    int
	defaultTTL time.Duration
	now        func() time.Time
}

// MemoryOption configures MemoryCache.
type MemoryOption func(*MemoryCache)

// WithMaxSize bounds the number of entries before LRU eviction kicks in.
func WithMaxSize(n int) MemoryOption {
	return func(mc *MemoryCache) {
		if n > 0 {
			mc.maxSize = n
		}
	}
}

// WithDefaultTTL sets the expiration used when Set gets <= 0.
func WithDefaultTTL(ttl time.Duration) MemoryOption {
	return func(mc *MemoryCache) {
		if ttl > 0 {
			mc.defaultTTL = ttl
		}
	}
}

// NewMemoryCache creates an in-memory cache of 1000 entries kept for a day
// unless configured otherwise.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	mc := &MemoryCache{
		data:       make(map[string]*memoryItem),
		maxSize:    1000,
		defaultTTL: 24 * time.Hour,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(mc)
	}
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value []byte, expiration time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := mc.now()
	if _, exists := mc.data[key]; !exists && len(mc.data) >= mc.maxSize {
		mc.evictLRU(now)
	}
	if expiration <= 0 {
		expiration = mc.defaultTTL
	}

	mc.data[key] = &memoryItem{
		value:    append([]byte(nil), value...),
		expireAt: now.Add(expiration),
		access:   now,
	}
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := mc.now()
	item, ok := mc.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if item.expired(now) {
		delete(mc.data, key)
		return nil, ErrCacheMiss
	}
	item.access = now
	return append([]byte(nil), item.value...), nil
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	for _, key := range keys {
		delete(mc.data, key)
	}
	return nil
}

func (mc *MemoryCache) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := mc.now()
	if item, ok := mc.data[key]; ok && !item.expired(now) {
		return false, nil
	}
	mc.data[key] = &memoryItem{value: []byte("locked"), expireAt: now.Add(ttl), access: now}
	return true, nil
}

func (mc *MemoryCache) Unlock(ctx context.Context, key string) error {
	return mc.Delete(ctx, key)
}

// Len returns the number of stored items, expired ones included.
func (mc *MemoryCache) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.data)
}

func (mc *MemoryCache) Close() error { return nil }

// evictLRU drops every expired item, or the least recently used one when
// nothing has expired.
func (mc *MemoryCache) evictLRU(now time.Time) {
	removed := false
	for key, item := range mc.data {
		if item.expired(now) {
			delete(mc.data, key)
			removed = true
		}
	}
	if removed {
		return
	}

	var oldestKey string
	var oldest time.Time
	for key, item := range mc.data {
		if oldestKey == "" || item.access.Before(oldest) {
			oldestKey, oldest = key, item.access
		}
	}
	if oldestKey != "" {
		delete(mc.data, oldestKey)
	}
}

var _ Service = (*MemoryCache)(nil)
