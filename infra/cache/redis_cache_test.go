//go:build integration

package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// setupRedisCache starts a Redis container and returns a cache bound to it.
func setupRedisCache(tb testing.TB) *RedisCache {
	tb.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7.0.5")
	testcontainers.CleanupContainer(tb, container)
	require.NoError(tb, err)

	url, err := container.ConnectionString(ctx)
	require.NoError(tb, err)

	c, err := NewRedisCache(url, "geo:", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = c.Close() })
	require.NoError(tb, c.Ping(ctx))
	return c
}

func TestRedisCache_GetSetDelete(t *testing.T) {
	c := setupRedisCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "8.8.8.8")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "8.8.8.8", "US", time.Hour))
	country, ok, err := c.Get(ctx, "8.8.8.8")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "US", country)

	require.NoError(t, c.Delete(ctx, "8.8.8.8"))
	_, ok, err = c.Get(ctx, "8.8.8.8")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_TTL(t *testing.T) {
	c := setupRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "1.1.1.1", "AU", time.Second))
	assert.Eventually(t, func() bool {
		_, ok, err := c.Get(ctx, "1.1.1.1")
		return err == nil && !ok
	}, 5*time.Second, 100*time.Millisecond)
}
