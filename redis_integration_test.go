//go:build integration

package ssocache_test

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/ssocache"
	"github.com/dmitrymomot/ssocache/pkg/redis"
)

func redisStore(t *testing.T, opts ...ssocache.Option) *ssocache.Redis[string] {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	cfg := redis.DefaultConfig()
	cfg.URL = url
	cfg.RetryAttempts = 1

	client, err := redis.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	opts = append([]ssocache.Option{ssocache.WithKeyPrefix("test:" + uuid.NewString()[:8])}, opts...)
	store, err := ssocache.NewRedis[string](client, nil, opts...)
	require.NoError(t, err)
	return store
}

func TestRedis_Contract(t *testing.T) {
	store := redisStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	item, err := store.Save(ctx, "k1", "v1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), item.CreatedAt, 5*time.Second)

	_, err = store.Save(ctx, "k1", "v2")
	assert.ErrorIs(t, err, ssocache.ErrDuplicateKey)

	v, ok, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", v)

	key, ok, err := store.Remove(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "k1", key)

	_, ok, err = store.Remove(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_ConcurrentSave(t *testing.T) {
	store := redisStore(t)

	var won atomic.Int32
	g, ctx := errgroup.WithContext(context.Background())
	for range 10 {
		g.Go(func() error {
			_, err := store.Save(ctx, "race", "v")
			if err == nil {
				won.Add(1)
				return nil
			}
			if errors.Is(err, ssocache.ErrDuplicateKey) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), won.Load())
}

func TestRedis_Expiration(t *testing.T) {
	store := redisStore(t, ssocache.WithTTL(200*time.Millisecond))
	ctx := context.Background()

	_, err := store.Save(ctx, "k", "v")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok, err := store.Get(ctx, "k")
		return err == nil && !ok
	}, 2*time.Second, 20*time.Millisecond)

	n, err := store.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
