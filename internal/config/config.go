package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dmitrymomot/ssocache"
	"github.com/dmitrymomot/ssocache/pkg/db"
	"github.com/dmitrymomot/ssocache/pkg/logger"
	"github.com/dmitrymomot/ssocache/pkg/redis"
)

// EnvPrefix prefixes every environment override, e.g. SSOCACHE_CACHE_TTL_MILLIS.
const EnvPrefix = "SSOCACHE"

// Storage backends.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory" // single process, lost on restart
)

// Expiration strategies for the Postgres backend.
const (
	ReaperLocal = "local" // in-process reaper per instance
	ReaperRiver = "river" // one periodic River job per cluster
	ReaperNone  = "none"  // purge externally, e.g. `ssocache purge` from cron
)

// ErrInvalidConfig is returned by Load and Validate for unusable settings.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the ssocache binary configuration.
type Config struct {
	Log      logger.Config `mapstructure:"log"`
	Cache    CacheConfig   `mapstructure:"cache"`
	HTTP     HTTPConfig    `mapstructure:"http"`
	Redis    redis.Config  `mapstructure:"redis"`
	Database db.Config     `mapstructure:"database"`
}

// CacheConfig selects and tunes the cache store.
type CacheConfig struct {
	Backend   string  `mapstructure:"backend"`
	Table     string  `mapstructure:"table"`
	KeyPrefix string  `mapstructure:"key_prefix"`
	Reaper    string  `mapstructure:"reaper"`
	TTLMillis float64 `mapstructure:"ttl_millis"`
}

// HTTPConfig configures the health endpoint server.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func setDefaults(v *viper.Viper) {
	dbDef := db.DefaultConfig()
	v.SetDefault("database.url", "")
	v.SetDefault("database.migrations_table", dbDef.MigrationsTable)
	v.SetDefault("database.healthcheck_period", dbDef.HealthCheckPeriod)
	v.SetDefault("database.max_conn_idle_time", dbDef.MaxConnIdleTime)
	v.SetDefault("database.max_conn_lifetime", dbDef.MaxConnLifetime)
	v.SetDefault("database.retry_attempts", dbDef.RetryAttempts)
	v.SetDefault("database.retry_interval", dbDef.RetryInterval)
	v.SetDefault("database.max_open_conns", dbDef.MaxOpenConns)
	v.SetDefault("database.min_conns", dbDef.MinConns)

	rDef := redis.DefaultConfig()
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", rDef.PoolSize)
	v.SetDefault("redis.min_idle_conns", rDef.MinIdleConns)
	v.SetDefault("redis.max_idle_time", rDef.MaxIdleTime)
	v.SetDefault("redis.max_active_time", rDef.MaxActiveTime)
	v.SetDefault("redis.retry_attempts", rDef.RetryAttempts)
	v.SetDefault("redis.retry_interval", rDef.RetryInterval)
	v.SetDefault("redis.read_timeout", rDef.ReadTimeout)
	v.SetDefault("redis.write_timeout", rDef.WriteTimeout)
	v.SetDefault("redis.dial_timeout", rDef.DialTimeout)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.sentry.dsn", "")
	v.SetDefault("log.sentry.environment", "")
	v.SetDefault("log.sentry.min_level", "error")

	v.SetDefault("cache.backend", BackendPostgres)
	v.SetDefault("cache.table", ssocache.DefaultTable)
	v.SetDefault("cache.key_prefix", "ssocache")
	v.SetDefault("cache.reaper", ReaperLocal)
	v.SetDefault("cache.ttl_millis", ssocache.DefaultTTL.Milliseconds())

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", 30*time.Second)
}

// Load reads the YAML file at path, if any, then applies SSOCACHE_*
// environment overrides. An empty path looks for ssocache.yaml in ./configs
// and the working directory; a missing file is not an error.
func Load(path string) (Config, error) {
	v, err := newViper(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Settings returns the effective settings as nested maps, keyed like the
// YAML file, with credentials masked. It does not validate.
func Settings(path string) (map[string]any, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	for _, key := range secretKeys {
		if raw := v.GetString(key); raw != "" {
			v.Set(key, redact(raw))
		}
	}
	return v.AllSettings(), nil
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ssocache")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

// Validate reports the first setting the binary cannot run with.
func (c Config) Validate() error {
	if _, err := c.Cache.TTL(); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	switch c.Cache.Reaper {
	case ReaperLocal, ReaperRiver, ReaperNone:
	default:
		return errors.Join(ErrInvalidConfig, fmt.Errorf("unknown cache.reaper %q", c.Cache.Reaper))
	}

	switch c.Cache.Backend {
	case BackendPostgres:
		if c.Database.ConnectionString == "" {
			return errors.Join(ErrInvalidConfig, errors.New("database.url is required for the postgres backend"))
		}
	case BackendRedis:
		if c.Redis.URL == "" {
			return errors.Join(ErrInvalidConfig, errors.New("redis.url is required for the redis backend"))
		}
	case BackendMemory:
		// Nothing outside the process can reach the entries.
		if c.Cache.Reaper != ReaperLocal {
			return errors.Join(ErrInvalidConfig, fmt.Errorf("cache.reaper %q needs the postgres backend; memory only supports %q", c.Cache.Reaper, ReaperLocal))
		}
	default:
		return errors.Join(ErrInvalidConfig, fmt.Errorf("unknown cache.backend %q", c.Cache.Backend))
	}

	return nil
}

// TTL converts ttl_millis, rejecting fractional and non-positive values.
func (c CacheConfig) TTL() (time.Duration, error) {
	return ssocache.TTLFromMillis(c.TTLMillis)
}

// StoreOptions maps the cache section to store options.
// The River and external strategies disable the in-process reaper of the
// postgres backend; other backends keep their own expiry.
func (c CacheConfig) StoreOptions() ([]ssocache.Option, error) {
	ttl, err := c.TTL()
	if err != nil {
		return nil, err
	}

	opts := []ssocache.Option{
		ssocache.WithTTL(ttl),
		ssocache.WithTable(c.Table),
		ssocache.WithKeyPrefix(c.KeyPrefix),
	}
	if c.Backend == BackendPostgres && c.Reaper != ReaperLocal {
		opts = append(opts, ssocache.WithoutReaper())
	}
	return opts, nil
}
