package ssocache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type tickIDKey struct{}

// TickIDFromContext returns the reaper tick id stored in ctx as a log attribute.
// Its signature matches logger.ContextExtractor.
func TickIDFromContext(ctx context.Context) (slog.Attr, bool) {
	id, ok := ctx.Value(tickIDKey{}).(string)
	if !ok || id == "" {
		return slog.Attr{}, false
	}
	return slog.String("tick_id", id), true
}

// Reaper periodically deletes entries older than the TTL.
//
// The first tick fires one interval after Start. A failed tick is logged and
// the next one runs on schedule. The reaper never coordinates with foreground
// operations; the storage engine's transaction model is the only arbiter.
type Reaper struct {
	purge    func(ctx context.Context) (int64, error)
	logger   *slog.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	interval time.Duration
	mu       sync.Mutex
	running  bool
}

func newReaper(purge func(ctx context.Context) (int64, error), interval time.Duration, logger *slog.Logger) *Reaper {
	return &Reaper{
		purge:    purge,
		interval: interval,
		logger:   logger.With(slog.String("component", "ssocache.reaper")),
	}
}

// Start schedules the reaper. Calling Start on a running reaper does nothing.
func (r *Reaper) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.running = true

	r.wg.Add(1)
	go r.loop(ctx)
}

// Stop cancels the schedule and any tick in flight, then waits for the
// background goroutine to exit. No tick runs after Stop returns.
// Stop is idempotent.
func (r *Reaper) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	r.running = false
	r.cancel()
	r.wg.Wait()
}

// Running reports whether the reaper is scheduled.
func (r *Reaper) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Reaper) loop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Reaper) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	ctx = context.WithValue(ctx, tickIDKey{}, uuid.NewString())

	n, err := r.purge(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			r.logger.DebugContext(ctx, "reaper tick cancelled by stop")
			return
		}
		r.logger.ErrorContext(ctx, "failed to delete stale cache entries", slog.Any("error", err))
		return
	}

	r.logger.InfoContext(ctx, "deleted stale cache entries", slog.Int64("deleted", n))
}
