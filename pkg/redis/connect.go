package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection settings for the Redis-backed cache store.
// Zero-valued fields fall back to DefaultConfig.
type Config struct {
	URL           string        `mapstructure:"url"` // redis:// or rediss://
	PoolSize      int           `mapstructure:"pool_size"`
	MinIdleConns  int           `mapstructure:"min_idle_conns"`
	MaxIdleTime   time.Duration `mapstructure:"max_idle_time"`
	MaxActiveTime time.Duration `mapstructure:"max_active_time"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	DialTimeout   time.Duration `mapstructure:"dial_timeout"`
}

// DefaultConfig returns the settings used for any field left unset.
func DefaultConfig() Config {
	return Config{
		PoolSize:      10,
		MinIdleConns:  2,
		MaxIdleTime:   10 * time.Minute,
		MaxActiveTime: 30 * time.Minute,
		RetryAttempts: 3,
		RetryInterval: 5 * time.Second,
		ReadTimeout:   3 * time.Second,
		WriteTimeout:  3 * time.Second,
		DialTimeout:   5 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.PoolSize <= 0 {
		c.PoolSize = def.PoolSize
	}
	if c.MinIdleConns <= 0 {
		c.MinIdleConns = min(def.MinIdleConns, c.PoolSize)
	}
	if c.MaxIdleTime <= 0 {
		c.MaxIdleTime = def.MaxIdleTime
	}
	if c.MaxActiveTime <= 0 {
		c.MaxActiveTime = def.MaxActiveTime
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = def.RetryAttempts
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = def.RetryInterval
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = def.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = def.DialTimeout
	}
	return c
}

// Open creates a Redis client and verifies it with PING, retrying with
// linear backoff. Supports redis:// and rediss:// (TLS) URLs.
func Open(ctx context.Context, cfg Config) (redis.UniversalClient, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(cfg.URL, "redis://") && !strings.HasPrefix(cfg.URL, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	cfg = cfg.withDefaults()

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.ConnMaxIdleTime = cfg.MaxIdleTime
	opts.ConnMaxLifetime = cfg.MaxActiveTime
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout
	opts.DialTimeout = cfg.DialTimeout

	return connect(ctx, opts, cfg.RetryAttempts, cfg.RetryInterval)
}

func connect(ctx context.Context, opts *redis.Options, attempts int, interval time.Duration) (redis.UniversalClient, error) {
	attempts = max(attempts, 1)

	var lastErr error
	for i := range attempts {
		client := redis.NewClient(opts)

		lastErr = client.Ping(ctx).Err()
		if lastErr == nil {
			return client, nil
		}

		_ = client.Close()

		if i == attempts-1 {
			break
		}
		if waitErr := wait(ctx, time.Duration(i+1)*interval); waitErr != nil {
			return nil, errors.Join(ErrConnectionFailed, waitErr)
		}
	}

	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

func wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
