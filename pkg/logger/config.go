package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// Config selects log level, output format and optional Sentry reporting.
type Config struct {
	Level  string       `mapstructure:"level"`  // debug, info, warn, error
	Format string       `mapstructure:"format"` // json or text
	Sentry SentryConfig `mapstructure:"sentry"`
}

// SentryConfig holds Sentry integration configuration.
// An empty DSN disables Sentry.
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
	// MinLevel is "warn" to also keep warnings as Sentry logs, "error" otherwise.
	MinLevel string `mapstructure:"min_level"`
}

// ParseLevel converts a level name to slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}
