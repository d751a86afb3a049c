package ssocache

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type memoryEntry[V any] struct {
	createdAt time.Time
	value     V
	key       string
}

// Memory is a process-local cache with the same contract as Store. It suits
// tests and single-instance development; state is lost on restart and not
// shared between processes.
//
// Entries are kept in insertion order, so a purge walks only the stale ones.
type Memory[V any] struct {
	items  map[string]*list.Element
	order  *list.List // oldest at front
	reaper *Reaper
	now    func() time.Time
	ttl    time.Duration
	mu     sync.Mutex
}

// NewMemory creates an in-memory cache. It accepts the same options as New;
// table and key prefix settings are ignored.
func NewMemory[V any](opts ...Option) (*Memory[V], error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	m := &Memory[V]{
		items: make(map[string]*list.Element),
		order: list.New(),
		now:   time.Now,
		ttl:   o.ttl,
	}

	if !o.noReaper {
		m.reaper = newReaper(m.Purge, o.ttl, o.logger)
		m.reaper.Start()
	}

	return m, nil
}

// Get returns the value stored under key, or false if there is none.
func (m *Memory[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	if err := ctx.Err(); err != nil {
		return zero, false, errors.Join(ErrStorage, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return zero, false, nil
	}
	return elem.Value.(*memoryEntry[V]).value, true, nil
}

// Save stores value under a new key. It returns ErrDuplicateKey if the key
// is already present.
func (m *Memory[V]) Save(ctx context.Context, key string, value V) (*Item[V], error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrStorage, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[key]; ok {
		return nil, errors.Join(ErrDuplicateKey, fmt.Errorf("key %q already exists", key))
	}

	e := &memoryEntry[V]{key: key, value: value, createdAt: m.now()}
	m.items[key] = m.order.PushBack(e)

	return &Item[V]{Value: value, CreatedAt: e.createdAt}, nil
}

// Remove deletes key and returns it, or false if it was not present.
func (m *Memory[V]) Remove(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, errors.Join(ErrStorage, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return "", false, nil
	}
	m.order.Remove(elem)
	delete(m.items, key)
	return key, true, nil
}

// Purge deletes entries older than the TTL and returns how many it removed.
func (m *Memory[V]) Purge(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.Join(ErrStorage, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.ttl)
	var n int64
	for elem := m.order.Front(); elem != nil; elem = m.order.Front() {
		e := elem.Value.(*memoryEntry[V])
		if !e.createdAt.Before(cutoff) {
			break
		}
		m.order.Remove(elem)
		delete(m.items, e.key)
		n++
	}
	return n, nil
}

// Len returns the number of stored entries, stale or not.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// TTL returns the configured maximum entry age.
func (m *Memory[V]) TTL() time.Duration {
	return m.ttl
}

// Close stops the reaper. Entries stay readable.
func (m *Memory[V]) Close() error {
	if m.reaper != nil {
		m.reaper.Stop()
	}
	return nil
}

var _ Cache[any] = (*Memory[any])(nil)
