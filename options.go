package ssocache

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"time"
)

const (
	// DefaultTTL is the maximum entry age used when WithTTL is not given.
	DefaultTTL = time.Hour

	// DefaultTable is the table created by the bundled migrations.
	DefaultTable = "sso_cache"

	defaultKeyPrefix = "ssocache"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Option configures a cache store.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	table     string
	keyPrefix string
	ttl       time.Duration
	noReaper  bool
}

func defaultOptions() *options {
	return &options{
		ttl:       DefaultTTL,
		table:     DefaultTable,
		keyPrefix: defaultKeyPrefix,
		logger:    slog.Default(),
	}
}

// WithTTL sets the maximum age of a cache entry. Entries older than this are
// deleted by the reaper, which also runs once per TTL.
// The duration must be a positive whole number of milliseconds.
// Default: 1 hour.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		o.ttl = d
	}
}

// WithTable sets the table used by the PostgreSQL store.
// The name may be schema-qualified ("auth.sso_cache").
// Default: "sso_cache".
func WithTable(name string) Option {
	return func(o *options) {
		o.table = name
	}
}

// WithLogger sets the logger used to report reaper activity.
// If not set, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithoutReaper disables the in-process reaper. Use it when purging is
// scheduled elsewhere, e.g. with PurgeTask on a River job manager.
func WithoutReaper() Option {
	return func(o *options) {
		o.noReaper = true
	}
}

// WithKeyPrefix namespaces keys of the Redis store as "{prefix}:{key}".
// An empty prefix stores keys as is.
// Default: "ssocache".
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		o.keyPrefix = prefix
	}
}

func buildOptions(opts []Option) (*options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if err := validateTTL(o.ttl); err != nil {
		return nil, err
	}
	if !tableNamePattern.MatchString(o.table) {
		return nil, errors.Join(ErrInvalidTable, fmt.Errorf("%q", o.table))
	}

	return o, nil
}

func validateTTL(d time.Duration) error {
	if d <= 0 {
		return errors.Join(ErrInvalidTTL, fmt.Errorf("got %s", d))
	}
	if d%time.Millisecond != 0 {
		return errors.Join(ErrInvalidTTL, fmt.Errorf("got %s, not a whole number of milliseconds", d))
	}
	return nil
}

// TTLFromMillis converts a millisecond count read from configuration into a TTL.
// Non-positive, non-integer and non-finite values are rejected with ErrInvalidTTL.
func TTLFromMillis(ms float64) (time.Duration, error) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms != math.Trunc(ms) || ms <= 0 {
		return 0, errors.Join(ErrInvalidTTL, fmt.Errorf("got %v", ms))
	}
	if ms > float64(math.MaxInt64/int64(time.Millisecond)) {
		return 0, errors.Join(ErrInvalidTTL, fmt.Errorf("got %v, out of range", ms))
	}
	return time.Duration(int64(ms)) * time.Millisecond, nil
}
