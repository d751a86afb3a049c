package logger

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
)

const defaultFlushTimeout = 2 * time.Second

// Flush waits for buffered Sentry events to be delivered, bounded by the
// context deadline or two seconds. It does nothing when Sentry is disabled.
// The signature matches server shutdown hooks.
func Flush(ctx context.Context) error {
	timeout := defaultFlushTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	if timeout > 0 {
		sentry.Flush(timeout)
	}
	return nil
}
