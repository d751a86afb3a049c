package logger

import (
	"context"
	"log/slog"
	"strings"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// newSentryHandler initializes the Sentry SDK and returns a handler that
// turns errors into Sentry issues and keeps warnings as searchable logs.
func newSentryHandler(cfg SentryConfig) (slog.Handler, error) {
	env := cfg.Environment
	if env == "" {
		env = "production"
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: env,
		EnableLogs:  true,
	}); err != nil {
		return nil, err
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if strings.EqualFold(cfg.MinLevel, "error") {
		logLevel = []slog.Level{slog.LevelError}
	}

	return sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background()), nil
}
