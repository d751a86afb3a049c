// Package redis opens the Redis client behind the Redis-backed cache store.
//
// It wraps [github.com/redis/go-redis/v9] with startup retries, a readiness
// check and a shutdown hook.
//
//	client, err := redis.Open(ctx, redis.Config{URL: "redis://localhost:6379/0"})
//	if err != nil {
//		return err
//	}
//	store, err := ssocache.NewRedis[string](client, nil, ssocache.WithTTL(time.Hour))
//
// Zero-valued [Config] fields fall back to [DefaultConfig].
//
// # Error Handling
//
//   - [ErrEmptyConnectionURL] - URL not set
//   - [ErrFailedToParseURL] - URL scheme or format invalid
//   - [ErrConnectionFailed] - PING failed after all retries
//   - [ErrHealthcheckFailed] - PING failed in a readiness check
package redis
