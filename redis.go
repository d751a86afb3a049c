package ssocache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// saveScript stores a value only if the key is absent and returns the server
// clock as the creation time. A nil reply means the key already existed.
var saveScript = redis.NewScript(`
if not redis.call('SET', KEYS[1], ARGV[1], 'NX', 'PX', ARGV[2]) then
	return false
end
return redis.call('TIME')
`)

// Redis is a cache backed by Redis.
// Entries expire natively through PX, so no reaper runs.
type Redis[V any] struct {
	client    redis.UniversalClient
	marshaler Marshaler[V]
	prefix    string
	ttl       time.Duration
}

// NewRedis creates a Redis-backed cache store.
// The client should be obtained from pkg/redis.Open.
//
// An optional Marshaler can be provided to customize serialization.
// If nil, JSON serialization is used.
func NewRedis[V any](client redis.UniversalClient, m Marshaler[V], opts ...Option) (*Redis[V], error) {
	if nilClient(client) {
		return nil, ErrGatewayRequired
	}

	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	if m == nil {
		m = jsonMarshaler[V]{}
	}

	return &Redis[V]{
		client:    client,
		marshaler: m,
		prefix:    o.keyPrefix,
		ttl:       o.ttl,
	}, nil
}

// Get retrieves a value by key.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V

	data, err := r.client.Get(ctx, r.prefixedKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, false, nil
		}
		return zero, false, errors.Join(ErrStorage, err)
	}

	v, err := r.marshaler.Unmarshal(data)
	if err != nil {
		return zero, false, wrap(ErrUnmarshal, err)
	}

	return v, true, nil
}

// Save stores a value under a new key with the configured TTL.
// Returns ErrDuplicateKey if the key already exists.
func (r *Redis[V]) Save(ctx context.Context, key string, value V) (*Item[V], error) {
	data, err := r.marshaler.Marshal(value)
	if err != nil {
		return nil, wrap(ErrMarshal, err)
	}

	res, err := saveScript.Run(ctx, r.client, []string{r.prefixedKey(key)}, data, r.ttl.Milliseconds()).StringSlice()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.Join(ErrDuplicateKey, fmt.Errorf("key %q already exists", key))
		}
		return nil, errors.Join(ErrStorage, err)
	}

	createdAt, err := parseRedisTime(res)
	if err != nil {
		return nil, errors.Join(ErrStorage, err)
	}

	return &Item[V]{Value: value, CreatedAt: createdAt}, nil
}

// Remove deletes a key and returns it, or false if it did not exist.
func (r *Redis[V]) Remove(ctx context.Context, key string) (string, bool, error) {
	n, err := r.client.Del(ctx, r.prefixedKey(key)).Result()
	if err != nil {
		return "", false, errors.Join(ErrStorage, err)
	}
	if n == 0 {
		return "", false, nil
	}
	return key, true, nil
}

// Purge is a no-op: Redis expires entries on its own.
func (r *Redis[V]) Purge(context.Context) (int64, error) {
	return 0, nil
}

// TTL returns the configured maximum entry age.
func (r *Redis[V]) TTL() time.Duration {
	return r.ttl
}

// Close is a no-op. The client lifecycle is managed by the caller
// (via pkg/redis.Shutdown).
func (r *Redis[V]) Close() error {
	return nil
}

func nilClient(c redis.UniversalClient) bool {
	switch c := c.(type) {
	case nil:
		return true
	case *redis.Client:
		return c == nil
	case *redis.ClusterClient:
		return c == nil
	}
	return false
}

func (r *Redis[V]) prefixedKey(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

// parseRedisTime converts a TIME reply (seconds, microseconds) to time.Time.
func parseRedisTime(reply []string) (time.Time, error) {
	if len(reply) != 2 {
		return time.Time{}, fmt.Errorf("unexpected TIME reply %q", reply)
	}
	sec, err := strconv.ParseInt(reply[0], 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	usec, err := strconv.ParseInt(reply[1], 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, usec*int64(time.Microsecond)), nil
}

var _ Cache[any] = (*Redis[any])(nil)
