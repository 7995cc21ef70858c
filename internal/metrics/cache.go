package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/go-authgate/authchain/internal/cache"
	"github.com/go-authgate/authchain/internal/core"
)

// CacheWrapper provides a read-through cache for gauge counts.
// In multi-instance deployments with a shared cache, only one instance per
// TTL window reaches the database.
type CacheWrapper struct {
	store core.UserCounter
	cache core.Cache[int64]
}

// NewCacheWrapper creates a new cache wrapper for metrics.
func NewCacheWrapper(store core.UserCounter, cache core.Cache[int64]) *CacheWrapper {
	return &CacheWrapper{
		store: store,
		cache: cache,
	}
}

// GetUsersCount returns the number of accounts.
func (m *CacheWrapper) GetUsersCount(ctx context.Context, ttl time.Duration) (int64, error) {
	return m.getCountWithCache(ctx, "users:total", ttl, m.store.CountUsers)
}

// GetLockedUsersCount returns the number of locked accounts.
func (m *CacheWrapper) GetLockedUsersCount(ctx context.Context, ttl time.Duration) (int64, error) {
	return m.getCountWithCache(ctx, "users:locked", ttl, m.store.CountLockedUsers)
}

func (m *CacheWrapper) getCountWithCache(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func(context.Context) (int64, error),
) (int64, error) {
	count, err := m.cache.Get(ctx, key)
	if err == nil {
		return count, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// Cache trouble falls back to the database.
		return fetchFunc(ctx)
	}

	count, err = fetchFunc(ctx)
	if err != nil {
		return 0, err
	}
	_ = m.cache.Set(ctx, key, count, ttl)
	return count, nil
}
