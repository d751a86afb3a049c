// Package logger builds the structured logger used by the ssocache binary.
//
// It extends log/slog with context extractors and optional Sentry reporting.
//
// # Basic Usage
//
//	log, err := logger.New(logger.Config{Level: "info", Format: "json"},
//		ssocache.TickIDFromContext,
//	)
//
// Every record logged with a context carrying a reaper tick id gets a
// "tick_id" attribute, so all lines of one purge run can be correlated.
//
// # Sentry Integration
//
// Set Config.Sentry.DSN to also ship records to Sentry. Errors become issues,
// warnings are kept as logs unless MinLevel is "error". Without a DSN, or if
// the SDK fails to initialize, logging continues to stdout only.
//
// # Handler Decoration
//
// [NewLogHandlerDecorator] wraps any slog.Handler with extractors:
//
//	h := slog.NewJSONHandler(os.Stdout, nil)
//	log := slog.New(logger.NewLogHandlerDecorator(h, extractors...))
//
// Library packages default to [NewNope].
package logger
