package ssocache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Cache is the capability an SSO protocol library needs to keep pending
// request state: insert once, fetch, remove.
//
// Absence is reported through the boolean result, never through an error.
type Cache[V any] interface {
	// Get retrieves a value by key.
	Get(ctx context.Context, key string) (V, bool, error)

	// Save stores a value under a key that must not exist yet.
	// Returns ErrDuplicateKey if the key is already present.
	Save(ctx context.Context, key string, value V) (*Item[V], error)

	// Remove deletes a key and returns it, or reports false if it was absent.
	Remove(ctx context.Context, key string) (string, bool, error)

	// Close releases background resources. Close is idempotent.
	Close() error
}

// Item is the result of a successful Save.
type Item[V any] struct {
	CreatedAt time.Time // assigned by the storage layer
	Value     V
}

// Marshaler serializes and deserializes cache values.
// Output of Marshal is persisted as text, so it must be valid UTF-8.
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

type jsonMarshaler[V any] struct{}

func (jsonMarshaler[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (jsonMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

// JSONMarshaler returns the default marshaler used when nil is passed to New or NewRedis.
func JSONMarshaler[V any]() Marshaler[V] {
	return jsonMarshaler[V]{}
}
