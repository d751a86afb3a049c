package adapter

import (
	"context"
	"time"
)

type options struct {
	base    context.Context
	timeout time.Duration
}

// Option configures an adapter.
type Option func(*options)

// WithContext sets the parent context of every call. Cancelling it aborts
// pending calls. Defaults to context.Background().
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.base = ctx
		}
	}
}

// WithTimeout bounds each call. Zero means no per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{base: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// callContext derives the context for a single call.
func (o options) callContext() (context.Context, context.CancelFunc) {
	if o.timeout > 0 {
		return context.WithTimeout(o.base, o.timeout)
	}
	return context.WithCancel(o.base)
}
