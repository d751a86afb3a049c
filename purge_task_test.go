package ssocache_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ssocache"
)

func TestPurgeTask(t *testing.T) {
	t.Parallel()

	gw := newMemGateway()
	store := newStore[string](t, gw, ssocache.WithTTL(90*time.Second), ssocache.WithoutReaper())

	gw.put("old", `"v"`, time.Now().Add(-2*time.Minute))
	gw.put("fresh", `"v"`, time.Now())

	var logs syncBuffer
	task := ssocache.NewPurgeTask(store, slog.New(slog.NewTextHandler(&logs, nil)))

	assert.Equal(t, "ssocache_purge", task.Name())
	assert.Equal(t, "@every 1m30s", task.Schedule())

	require.NoError(t, task.Handle(context.Background()))
	assert.Contains(t, logs.String(), "deleted=1")

	_, ok, err := store.Get(context.Background(), "old")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Get(context.Background(), "fresh")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPurgeTask_Error(t *testing.T) {
	t.Parallel()

	store := newStore[string](t, failingGateway(errBoom), ssocache.WithoutReaper())
	task := ssocache.NewPurgeTask(store, nil)

	err := task.Handle(context.Background())
	assert.ErrorIs(t, err, ssocache.ErrStorage)
	assert.ErrorIs(t, err, errBoom)
	assert.True(t, strings.HasPrefix(task.Schedule(), "@every "))
}

func TestPurgeTask_DefaultLogger(t *testing.T) {
	buf := &syncBuffer{}
	useDefaultLogger(t, buf)

	store := newStore[string](t, failingGateway(errBoom), ssocache.WithoutReaper())
	task := ssocache.NewPurgeTask(store, nil)

	require.ErrorIs(t, task.Handle(context.Background()), errBoom)
	assert.Contains(t, buf.String(), "failed to delete stale cache entries")
	assert.Contains(t, buf.String(), "Boom!")
}
