package adapter_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ssocache"
	"github.com/dmitrymomot/ssocache/pkg/adapter"
)

func TestNewCallback_NilCache(t *testing.T) {
	t.Parallel()

	_, err := adapter.NewCallback[string](nil)
	assert.ErrorIs(t, err, adapter.ErrCacheRequired)

	var store *ssocache.Memory[string]
	_, err = adapter.NewCallback[string](store)
	assert.ErrorIs(t, err, adapter.ErrCacheRequired)
}

func TestCallback(t *testing.T) {
	t.Parallel()

	cb, err := adapter.NewCallback[string](newMemCache())
	require.NoError(t, err)

	saved := make(chan error, 1)
	cb.Save("id-1", "relay", func(item *ssocache.Item[string], err error) {
		if err == nil && item.Value != "relay" {
			err = errors.New("unexpected value " + item.Value)
		}
		saved <- err
	})
	require.NoError(t, <-saved)

	t.Run("duplicate", func(t *testing.T) {
		done := make(chan error, 1)
		cb.Save("id-1", "other", func(_ *ssocache.Item[string], err error) { done <- err })
		assert.ErrorIs(t, <-done, ssocache.ErrDuplicateKey)
	})

	t.Run("get present", func(t *testing.T) {
		type result struct {
			err   error
			value string
			found bool
		}
		done := make(chan result, 1)
		cb.Get("id-1", func(v string, found bool, err error) { done <- result{err, v, found} })
		r := <-done
		require.NoError(t, r.err)
		assert.True(t, r.found)
		assert.Equal(t, "relay", r.value)
	})

	t.Run("get absent is not an error", func(t *testing.T) {
		done := make(chan bool, 1)
		cb.Get("missing", func(_ string, found bool, err error) {
			assert.NoError(t, err)
			done <- found
		})
		assert.False(t, <-done)
	})

	t.Run("remove absent", func(t *testing.T) {
		done := make(chan bool, 1)
		cb.Remove("missing", func(key string, found bool, err error) {
			assert.NoError(t, err)
			assert.Empty(t, key)
			done <- found
		})
		assert.False(t, <-done)
	})
}

func TestCallback_Remove(t *testing.T) {
	t.Parallel()

	cache := newMemCache()
	cache.items["id-1"] = "relay"
	cb, err := adapter.NewCallback[string](cache)
	require.NoError(t, err)

	done := make(chan string, 1)
	cb.Remove("id-1", func(key string, found bool, err error) {
		assert.NoError(t, err)
		assert.True(t, found)
		done <- key
	})
	assert.Equal(t, "id-1", <-done)
}

func TestCallback_InvokedOnce(t *testing.T) {
	t.Parallel()

	cb, err := adapter.NewCallback[string](newMemCache())
	require.NoError(t, err)

	var calls atomic.Int32
	for range 50 {
		cb.Get("k", func(string, bool, error) { calls.Add(1) })
	}
	cb.Wait()

	assert.Equal(t, int32(50), calls.Load())
}

func TestCallback_Timeout(t *testing.T) {
	t.Parallel()

	cache := newMemCache()
	cache.delay = time.Second
	cb, err := adapter.NewCallback[string](cache, adapter.WithTimeout(10*time.Millisecond))
	require.NoError(t, err)

	done := make(chan error, 1)
	cb.Get("k", func(_ string, _ bool, err error) { done <- err })

	err = <-done
	assert.ErrorIs(t, err, ssocache.ErrStorage)
}

func TestCallback_StorageError(t *testing.T) {
	t.Parallel()

	cache := newMemCache()
	cache.err = errors.Join(ssocache.ErrStorage, errors.New("Boom!"))
	cb, err := adapter.NewCallback[string](cache)
	require.NoError(t, err)

	done := make(chan error, 1)
	cb.Remove("k", func(_ string, _ bool, err error) { done <- err })
	assert.ErrorIs(t, <-done, ssocache.ErrStorage)
}
