package adapter_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrymomot/ssocache"
)

// memCache is an in-process ssocache.Cache with insert-once semantics.
type memCache struct {
	err   error
	delay time.Duration
	items map[string]string
	mu    sync.Mutex
}

func newMemCache() *memCache {
	return &memCache{items: make(map[string]string)}
}

func (c *memCache) wait(ctx context.Context) error {
	if c.delay == 0 {
		return c.err
	}
	select {
	case <-time.After(c.delay):
		return c.err
	case <-ctx.Done():
		return errors.Join(ssocache.ErrStorage, ctx.Err())
	}
}

func (c *memCache) Get(ctx context.Context, key string) (string, bool, error) {
	if err := c.wait(ctx); err != nil {
		return "", false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok, nil
}

func (c *memCache) Save(ctx context.Context, key, value string) (*ssocache.Item[string], error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; ok {
		return nil, ssocache.ErrDuplicateKey
	}
	c.items[key] = value
	return &ssocache.Item[string]{Value: value, CreatedAt: time.Now()}, nil
}

func (c *memCache) Remove(ctx context.Context, key string) (string, bool, error) {
	if err := c.wait(ctx); err != nil {
		return "", false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; !ok {
		return "", false, nil
	}
	delete(c.items, key)
	return key, true, nil
}

func (c *memCache) Close() error { return nil }
