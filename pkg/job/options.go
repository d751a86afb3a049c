package job

import (
	"context"
	"log/slog"
)

type config struct {
	logger     *slog.Logger
	tasks      []scheduledTask
	maxWorkers int
}

// Option configures the job manager.
type Option func(*config)

// WithScheduledTask adds a periodic task. Any value with Name, Schedule and
// Handle methods qualifies; ssocache.PurgeTask is one:
//
//	job.WithScheduledTask(ssocache.NewPurgeTask(store, log))
//
// Schedule is read once, when the manager is built.
func WithScheduledTask[T interface {
	Name() string
	Schedule() string
	Handle(context.Context) error
}](task T) Option {
	return func(c *config) {
		c.tasks = append(c.tasks, scheduledTask{
			name:     task.Name(),
			schedule: task.Schedule(),
			handler:  task.Handle,
		})
	}
}

// WithLogger sets the logger passed to River and used for task outcomes.
// Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxWorkers sets how many tasks may run at once. Defaults to 10;
// non-positive values are ignored.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}
