package cache

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/go-authgate/authchain/internal/core"
)

// shardCount spreads keys over independent locks so concurrent
// authentications for different users do not contend.
const shardCount = 32

type cacheItem[T any] struct {
	value     T
	expiresAt time.Time
}

type shard[T any] struct {
	mu    sync.RWMutex
	items map[string]cacheItem[T]
}

// Compile-time interface check.
var _ core.Cache[struct{}] = (*MemoryCache[struct{}])(nil)

// MemoryCache implements core.Cache with sharded in-memory storage.
// Expired entries are dropped lazily on Get.
// Suitable for single-instance deployments.
type MemoryCache[T any] struct {
	shards [shardCount]*shard[T]
}

// NewMemoryCache creates a new memory cache instance.
func NewMemoryCache[T any]() *MemoryCache[T] {
	m := &MemoryCache[T]{}
	for i := range m.shards {
		m.shards[i] = &shard[T]{items: make(map[string]cacheItem[T])}
	}
	return m
}

func (m *MemoryCache[T]) shardFor(key string) *shard[T] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return m.shards[h.Sum32()%shardCount]
}

// Get retrieves a value from cache.
func (m *MemoryCache[T]) Get(ctx context.Context, key string) (T, error) {
	s := m.shardFor(key)

	s.mu.RLock()
	item, exists := s.items[key]
	s.mu.RUnlock()

	var zero T
	if !exists {
		return zero, ErrCacheMiss
	}

	if time.Now().After(item.expiresAt) {
		s.mu.Lock()
		// Re-check: a concurrent Set may have refreshed the entry.
		if cur, ok := s.items[key]; ok && time.Now().After(cur.expiresAt) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return zero, ErrCacheMiss
	}

	return item.value, nil
}

// Set stores a value in cache with TTL.
func (m *MemoryCache[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	s := m.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = cacheItem[T]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a key from cache.
func (m *MemoryCache[T]) Delete(ctx context.Context, key string) error {
	s := m.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *MemoryCache[T]) Len() int {
	n := 0
	for _, s := range m.shards {
		s.mu.RLock()
		n += len(s.items)
		s.mu.RUnlock()
	}
	return n
}

// Close drops all entries.
func (m *MemoryCache[T]) Close() error {
	for _, s := range m.shards {
		s.mu.Lock()
		s.items = make(map[string]cacheItem[T])
		s.mu.Unlock()
	}
	return nil
}

// Health always succeeds for the memory cache.
func (m *MemoryCache[T]) Health(ctx context.Context) error {
	return nil
}
