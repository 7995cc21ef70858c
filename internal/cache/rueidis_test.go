package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-authgate/authchain/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startRedis starts a disposable Redis container, skipping the test when Docker is unavailable.
func startRedis(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping Redis integration test in short mode")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Skipf("Skipping Redis test: Docker not available (panic: %v)", r)
		}
	}()

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("Skipping Redis test: Docker not available (%v)", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return endpoint
}

func exerciseIdentityCache(t *testing.T, c core.Cache[core.Identity]) {
	t.Helper()
	ctx := context.Background()

	_, err := c.Get(ctx, "marissa")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "marissa", testIdentity("marissa"), time.Minute))

	got, err := c.Get(ctx, "marissa")
	require.NoError(t, err)
	assert.Equal(t, testIdentity("marissa"), got)

	require.NoError(t, c.Delete(ctx, "marissa"))
	_, err = c.Get(ctx, "marissa")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, c.Health(ctx))
}

func TestRueidisCache(t *testing.T) {
	addr := startRedis(t)

	c, err := NewRueidisCache[core.Identity](context.Background(), addr, "", 0, "test:users:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	exerciseIdentityCache(t, c)
}

func TestRueidisAsideCache(t *testing.T) {
	addr := startRedis(t)

	c, err := NewRueidisAsideCache[core.Identity](
		context.Background(), addr, "", 0, "test:aside:", time.Second, 1,
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	exerciseIdentityCache(t, c)
}

func TestRueidisAsideCache_EvictionVisibleAcrossClients(t *testing.T) {
	addr := startRedis(t)
	ctx := context.Background()

	a, err := NewRueidisAsideCache[core.Identity](ctx, addr, "", 0, "test:shared:", time.Minute, 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	b, err := NewRueidisAsideCache[core.Identity](ctx, addr, "", 0, "test:shared:", time.Minute, 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	require.NoError(t, a.Set(ctx, "marissa", testIdentity("marissa"), time.Minute))

	// Prime b's local copy, then evict through a.
	_, err = b.Get(ctx, "marissa")
	require.NoError(t, err)
	require.NoError(t, a.Delete(ctx, "marissa"))

	assert.Eventually(t, func() bool {
		_, err := b.Get(ctx, "marissa")
		return err != nil
	}, 5*time.Second, 50*time.Millisecond)
}

func TestNewRueidisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRueidisCache[core.Identity](ctx, "127.0.0.1:1", "", 0, "x:")
	assert.Error(t, err)
}
