package ssocache

import (
	"context"
	"log/slog"
	"time"
)

// Purger deletes expired entries on demand.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
	TTL() time.Duration
}

// PurgeTask runs Purge as a periodic job. Register it with
// job.WithScheduledTask and build the store WithoutReaper, so that a single
// leader purges for the whole cluster instead of every instance doing it.
//
// Example:
//
//	store, _ := ssocache.New[string](pool, nil, ssocache.WithoutReaper())
//	manager, _ := job.NewManager(pool,
//	    job.WithScheduledTask(ssocache.NewPurgeTask(store, log)),
//	)
type PurgeTask struct {
	purger Purger
	logger *slog.Logger
}

// NewPurgeTask creates a periodic purge task for the given store.
// A nil logger falls back to slog.Default().
func NewPurgeTask(p Purger, logger *slog.Logger) *PurgeTask {
	if logger == nil {
		logger = slog.Default()
	}
	return &PurgeTask{purger: p, logger: logger}
}

// Name identifies the task in the job registry.
func (t *PurgeTask) Name() string { return "ssocache_purge" }

// Schedule fires once per TTL.
func (t *PurgeTask) Schedule() string { return "@every " + t.purger.TTL().String() }

// Handle deletes stale entries. Errors are returned so the job runner records them.
func (t *PurgeTask) Handle(ctx context.Context) error {
	n, err := t.purger.Purge(ctx)
	if err != nil {
		t.logger.ErrorContext(ctx, "failed to delete stale cache entries", slog.Any("error", err))
		return err
	}
	t.logger.InfoContext(ctx, "deleted stale cache entries", slog.Int64("deleted", n))
	return nil
}
