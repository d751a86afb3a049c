package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a logger writing to stdout as configured, decorated with the
// given context extractors. When cfg.Sentry.DSN is set, records are also sent
// to Sentry; if Sentry cannot be initialized, stdout logging continues alone.
func New(cfg Config, extractors ...ContextExtractor) (*slog.Logger, error) {
	return newLogger(os.Stdout, cfg, extractors...)
}

func newLogger(w io.Writer, cfg Config, extractors ...ContextExtractor) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var out slog.Handler
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		out = slog.NewJSONHandler(w, opts)
	case "text":
		out = slog.NewTextHandler(w, opts)
	default:
		return nil, errors.Join(ErrUnknownFormat, errors.New(cfg.Format))
	}

	if cfg.Sentry.DSN == "" {
		return slog.New(NewLogHandlerDecorator(out, extractors...)), nil
	}

	sentryHandler, err := newSentryHandler(cfg.Sentry)
	if err != nil {
		slog.New(out).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return slog.New(NewLogHandlerDecorator(out, extractors...)), nil
	}

	// Extractors run once, before the record fans out to both destinations.
	return slog.New(NewLogHandlerDecorator(newMultiHandler(out, sentryHandler), extractors...)), nil
}
