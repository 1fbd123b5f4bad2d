package repository

import (
	"context"
	"time"

	"SignalSweep/internal/domain/models"
	drepo "SignalSweep/internal/domain/repository"
	"SignalSweep/pkg/cache"
)

// SweepCache stores sweep winners as JSON in any cache.Service.
type SweepCache struct {
	svc     cache.Service
	ttl     time.Duration
	lockTTL time.Duration
}

func NewSweepCache(svc cache.Service, ttl time.Duration) *SweepCache {
	return &SweepCache{svc: svc, ttl: ttl, lockTTL: time.Hour}
}

// Get returns cache.ErrCacheMiss when key is absent.
func (c *SweepCache) Get(ctx context.Context, key string) (*models.SweepResult, error) {
	return cache.GetJSON[models.SweepResult](ctx, c.svc, key)
}

func (c *SweepCache) Set(ctx context.Context, key string, res *models.SweepResult) error {
	return cache.SetJSON(ctx, c.svc, key, res, c.ttl)
}

func (c *SweepCache) TryLock(ctx context.Context, key string) (bool, error) {
	return c.svc.TryLock(ctx, "lock:"+key, c.lockTTL)
}

func (c *SweepCache) Unlock(ctx context.Context, key string) error {
	return c.svc.Unlock(ctx, "lock:"+key)
}

var _ drepo.SweepCache = (*SweepCache)(nil)
