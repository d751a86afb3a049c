package adapter

import "context"

// Future is the eventual result of an asynchronous cache call.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func goFuture[T any](o options, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		ctx, cancel := o.callContext()
		defer cancel()
		f.value, f.err = fn(ctx)
	}()
	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is available or ctx ends. Giving up on a
// future does not cancel the call behind it.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
