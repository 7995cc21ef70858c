package core

import (
	"context"
	"time"
)

// Cache[T] is the storage primitive behind CredentialCache implementations.
// T is the cached value type (an Identity for the user cache).
type Cache[T any] interface {
	// Get returns ErrCacheMiss (from the cache package) when the key is absent or expired.
	Get(ctx context.Context, key string) (T, error)

	// Set stores a value with TTL. Last write wins.
	Set(ctx context.Context, key string, value T, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	// Close releases connections held by the cache
	Close() error

	// Health checks if the cache is reachable
	Health(ctx context.Context) error
}
