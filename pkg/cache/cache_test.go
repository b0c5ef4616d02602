package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodhub/pkg/cache"
)

type stats struct {
	Orders int `json:"orders"`
}

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.Use(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.Close() })
	return mr
}

func TestRememberCachesLoaderResult(t *testing.T) {
	mr := useMiniredis(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (stats, error) {
		calls++
		return stats{Orders: 7}, nil
	}

	first, err := cache.Remember(ctx, "dash", time.Minute, load)
	require.NoError(t, err)
	second, err := cache.Remember(ctx, "dash", time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, 7, first.Orders)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists("dash"))

	mr.FastForward(2 * time.Minute)
	_, err = cache.Remember(ctx, "dash", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "expired entry should be reloaded")
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	mr := useMiniredis(t)

	_, err := cache.Remember(context.Background(), "dash", time.Minute, func(context.Context) (stats, error) {
		return stats{}, errors.New("db down")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists("dash"))
}

func TestHelpersAreNoopsWithoutRedis(t *testing.T) {
	cache.Use(nil)
	ctx := context.Background()

	assert.NoError(t, cache.Set(ctx, "k", 1, time.Minute))
	var v int
	assert.False(t, cache.Get(ctx, "k", &v))
	assert.NoError(t, cache.Forget(ctx, "k"))

	got, err := cache.Remember(ctx, "k", time.Minute, func(context.Context) (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}
