package adapter

import (
	"errors"

	"github.com/dmitrymomot/ssocache"
)

// ErrCacheRequired is returned when an adapter is built without a cache.
var ErrCacheRequired = errors.New("adapter: cache is required")

// nilCache reports a missing cache, including typed nil stores.
func nilCache[V any](c ssocache.Cache[V]) bool {
	switch c := c.(type) {
	case nil:
		return true
	case *ssocache.Store[V]:
		return c == nil
	case *ssocache.Redis[V]:
		return c == nil
	case *ssocache.Memory[V]:
		return c == nil
	}
	return false
}
