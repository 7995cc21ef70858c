package usercache

import (
	"context"

	"github.com/go-authgate/authchain/internal/core"
)

var _ core.CredentialCache = NullCache{}

// NullCache never stores anything, so every authentication reaches the backend.
type NullCache struct{}

// Null returns the no-op credential cache.
func Null() NullCache { return NullCache{} }

func (NullCache) GetUser(context.Context, string) (*core.Identity, bool, error) {
	return nil, false, nil
}

func (NullCache) PutUser(context.Context, *core.Identity) error { return nil }

func (NullCache) RemoveUser(context.Context, string) error { return nil }

func (NullCache) Health(context.Context) error { return nil }

func (NullCache) Close() error { return nil }
