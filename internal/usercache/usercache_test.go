package usercache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-authgate/authchain/internal/cache"
	"github.com/go-authgate/authchain/internal/core"
	"github.com/go-authgate/authchain/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func marissa() *core.Identity {
	return &core.Identity{
		Username:              "marissa",
		Credential:            "koala",
		Authorities:           []string{"ROLE_ONE", "ROLE_TWO"},
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
	}
}

func TestCache_PutGetRemove(t *testing.T) {
	c := New(cache.NewMemoryCache[core.Identity](), time.Minute)
	ctx := context.Background()

	_, ok, err := c.GetUser(ctx, "marissa")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.PutUser(ctx, marissa()))

	got, ok, err := c.GetUser(ctx, "marissa")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, marissa(), got)

	require.NoError(t, c.RemoveUser(ctx, "marissa"))
	_, ok, err = c.GetUser(ctx, "marissa")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_ReturnsCopies(t *testing.T) {
	c := New(cache.NewMemoryCache[core.Identity](), time.Minute)
	ctx := context.Background()

	original := marissa()
	require.NoError(t, c.PutUser(ctx, original))
	original.Authorities[0] = "ROLE_TAMPERED"

	got, ok, err := c.GetUser(ctx, "marissa")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ROLE_ONE", got.Authorities[0])

	got.Authorities[1] = "ROLE_TAMPERED"
	again, _, _ := c.GetUser(ctx, "marissa")
	assert.Equal(t, "ROLE_TWO", again.Authorities[1])
}

func TestCache_PutUserRequiresUsername(t *testing.T) {
	c := New(cache.NewMemoryCache[core.Identity](), time.Minute)

	assert.Error(t, c.PutUser(context.Background(), nil))
	assert.Error(t, c.PutUser(context.Background(), &core.Identity{}))
}

func TestCache_PropagatesStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockCache[core.Identity](ctrl)
	c := New(store, time.Minute)
	ctx := context.Background()

	store.EXPECT().Get(gomock.Any(), "marissa").
		Return(core.Identity{}, cache.ErrCacheUnavailable)
	_, ok, err := c.GetUser(ctx, "marissa")
	assert.False(t, ok)
	assert.ErrorIs(t, err, cache.ErrCacheUnavailable)

	store.EXPECT().Set(gomock.Any(), "marissa", gomock.Any(), time.Minute).
		Return(errors.New("boom"))
	assert.Error(t, c.PutUser(ctx, marissa()))

	store.EXPECT().Delete(gomock.Any(), "marissa").Return(cache.ErrCacheUnavailable)
	assert.ErrorIs(t, c.RemoveUser(ctx, "marissa"), cache.ErrCacheUnavailable)
}

func TestNullCache(t *testing.T) {
	c := Null()
	ctx := context.Background()

	require.NoError(t, c.PutUser(ctx, marissa()))
	_, ok, err := c.GetUser(ctx, "marissa")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.RemoveUser(ctx, "marissa"))
}
