package adapter

import (
	"context"

	"github.com/dmitrymomot/ssocache"
)

// Lookup is the result of GetAsync. Found is false when the key was absent.
type Lookup[V any] struct {
	Value V
	Found bool
}

// Removal is the result of RemoveAsync. Found is false when the key was absent.
type Removal struct {
	Key   string
	Found bool
}

// Async exposes a cache through futures.
type Async[V any] struct {
	cache ssocache.Cache[V]
	opts  options
}

// NewAsync wraps cache.
func NewAsync[V any](cache ssocache.Cache[V], opts ...Option) (*Async[V], error) {
	if nilCache(cache) {
		return nil, ErrCacheRequired
	}
	return &Async[V]{cache: cache, opts: buildOptions(opts)}, nil
}

// GetAsync starts a lookup of key.
func (a *Async[V]) GetAsync(key string) *Future[Lookup[V]] {
	return goFuture(a.opts, func(ctx context.Context) (Lookup[V], error) {
		v, ok, err := a.cache.Get(ctx, key)
		if err != nil {
			return Lookup[V]{}, err
		}
		return Lookup[V]{Value: v, Found: ok}, nil
	})
}

// SaveAsync starts an insert of value under key.
func (a *Async[V]) SaveAsync(key string, value V) *Future[*ssocache.Item[V]] {
	return goFuture(a.opts, func(ctx context.Context) (*ssocache.Item[V], error) {
		return a.cache.Save(ctx, key, value)
	})
}

// RemoveAsync starts a delete of key.
func (a *Async[V]) RemoveAsync(key string) *Future[Removal] {
	return goFuture(a.opts, func(ctx context.Context) (Removal, error) {
		k, ok, err := a.cache.Remove(ctx, key)
		if err != nil {
			return Removal{}, err
		}
		return Removal{Key: k, Found: ok}, nil
	})
}
