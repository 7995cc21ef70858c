// Package usercache adapts a generic key-value cache into the username-keyed
// credential cache consulted by the authentication provider.
package usercache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-authgate/authchain/internal/cache"
	"github.com/go-authgate/authchain/internal/core"
)

var _ core.CredentialCache = (*Cache)(nil)

// Cache stores verified identities keyed by username.
type Cache struct {
	store core.Cache[core.Identity]
	ttl   time.Duration
}

// New wraps store; ttl applies to every PutUser.
func New(store core.Cache[core.Identity], ttl time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl}
}

// GetUser returns a copy of the cached identity.
func (c *Cache) GetUser(ctx context.Context, username string) (*core.Identity, bool, error) {
	identity, err := c.store.Get(ctx, username)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get cached user %q: %w", username, err)
	}
	return identity.Clone(), true, nil
}

// PutUser stores a snapshot of identity under its username.
func (c *Cache) PutUser(ctx context.Context, identity *core.Identity) error {
	if identity == nil || identity.Username == "" {
		return errors.New("usercache: identity without username")
	}
	if err := c.store.Set(ctx, identity.Username, *identity.Clone(), c.ttl); err != nil {
		return fmt.Errorf("cache user %q: %w", identity.Username, err)
	}
	return nil
}

// RemoveUser evicts username.
func (c *Cache) RemoveUser(ctx context.Context, username string) error {
	if err := c.store.Delete(ctx, username); err != nil {
		return fmt.Errorf("evict user %q: %w", username, err)
	}
	return nil
}

// Health reports the health of the underlying store.
func (c *Cache) Health(ctx context.Context) error {
	return c.store.Health(ctx)
}

// Close closes the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}
