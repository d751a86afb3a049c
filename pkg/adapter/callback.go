package adapter

import (
	"sync"

	"github.com/dmitrymomot/ssocache"
)

// Callback exposes a cache through completion callbacks. Every method returns
// immediately; the callback runs once on the call's own goroutine.
type Callback[V any] struct {
	cache ssocache.Cache[V]
	opts  options
	wg    sync.WaitGroup
}

// NewCallback wraps cache.
func NewCallback[V any](cache ssocache.Cache[V], opts ...Option) (*Callback[V], error) {
	if nilCache(cache) {
		return nil, ErrCacheRequired
	}
	return &Callback[V]{cache: cache, opts: buildOptions(opts)}, nil
}

// Get looks key up and calls done with the value, or found == false when absent.
func (c *Callback[V]) Get(key string, done func(value V, found bool, err error)) {
	c.run(func() {
		ctx, cancel := c.opts.callContext()
		defer cancel()
		done(c.cache.Get(ctx, key))
	})
}

// Save inserts value under key and calls done with the stored item.
// A key that already exists yields ssocache.ErrDuplicateKey.
func (c *Callback[V]) Save(key string, value V, done func(item *ssocache.Item[V], err error)) {
	c.run(func() {
		ctx, cancel := c.opts.callContext()
		defer cancel()
		done(c.cache.Save(ctx, key, value))
	})
}

// Remove deletes key and calls done with it, or found == false when absent.
func (c *Callback[V]) Remove(key string, done func(removed string, found bool, err error)) {
	c.run(func() {
		ctx, cancel := c.opts.callContext()
		defer cancel()
		done(c.cache.Remove(ctx, key))
	})
}

// Wait blocks until every callback issued so far has returned.
func (c *Callback[V]) Wait() {
	c.wg.Wait()
}

func (c *Callback[V]) run(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}
