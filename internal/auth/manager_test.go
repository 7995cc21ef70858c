package auth

import (
	"context"
	"testing"

	"github.com/go-authgate/authchain/internal/usercache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RequiresProvider(t *testing.T) {
	_, err := NewManager()
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestManager_Authenticate(t *testing.T) {
	ctx := context.Background()

	first, err := NewProvider(newMarissaBackend(t), usercache.Null())
	require.NoError(t, err)

	koalas, err := NewStaticBackend(StaticUser{
		Username:    "koala",
		Password:    NoopPasswordPrefix + "eucalyptus",
		Authorities: []string{"ROLE_TREE"},
	})
	require.NoError(t, err)
	second, err := NewProvider(koalas, usercache.Null())
	require.NoError(t, err)

	m, err := NewManager(first, second)
	require.NoError(t, err)

	t.Run("first provider", func(t *testing.T) {
		result, err := m.Authenticate(ctx, NewRequest("marissa", "koala", nil))
		require.NoError(t, err)
		assert.Equal(t, "marissa", result.Principal.Username())
	})

	t.Run("falls through on bad credentials", func(t *testing.T) {
		result, err := m.Authenticate(ctx, NewRequest("koala", "eucalyptus", nil))
		require.NoError(t, err)
		assert.True(t, result.HasAuthority("ROLE_TREE"))
	})

	t.Run("value request", func(t *testing.T) {
		_, err := m.Authenticate(ctx, *NewRequest("marissa", "koala", nil))
		require.NoError(t, err)
	})

	t.Run("nobody accepts", func(t *testing.T) {
		_, err := m.Authenticate(ctx, NewRequest("ghost", "x", nil))
		assert.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("unsupported token", func(t *testing.T) {
		_, err := m.Authenticate(ctx, "marissa:koala")
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})
}

func TestManager_StopsOnAccountStateError(t *testing.T) {
	locked, err := NewStaticBackend(StaticUser{
		Username: "marissa",
		Password: NoopPasswordPrefix + "koala",
		Locked:   true,
	})
	require.NoError(t, err)
	first, err := NewProvider(locked, usercache.Null())
	require.NoError(t, err)
	second, err := NewProvider(newMarissaBackend(t), usercache.Null())
	require.NoError(t, err)

	m, err := NewManager(first, second)
	require.NoError(t, err)

	_, err = m.Authenticate(context.Background(), NewRequest("marissa", "koala", nil))
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestPrincipal(t *testing.T) {
	p := StringPrincipal("marissa")
	assert.Equal(t, "marissa", p.Username())
	assert.Equal(t, "marissa", p.String())
	assert.False(t, p.IsIdentity())

	identity := marissa()
	ip := IdentityPrincipal(identity)
	identity.Authorities[0] = "ROLE_MUTATED"

	got, ok := ip.Identity()
	require.True(t, ok)
	assert.Equal(t, "ROLE_ONE", got.Authorities[0])
	assert.Equal(t, "marissa", ip.Username())

	assert.Equal(t, "", IdentityPrincipal(nil).Username())
}
