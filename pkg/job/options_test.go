package job

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTask implements the scheduled task interface.
type fakeTask struct {
	err      error
	name     string
	schedule string
	calls    int
}

func (t *fakeTask) Name() string     { return t.name }
func (t *fakeTask) Schedule() string { return t.schedule }

func (t *fakeTask) Handle(context.Context) error {
	t.calls++
	return t.err
}

func TestWithScheduledTask(t *testing.T) {
	t.Parallel()

	task := &fakeTask{name: "purge", schedule: "@every 1h"}
	cfg := &config{}
	WithScheduledTask(task)(cfg)

	require.Len(t, cfg.tasks, 1)
	assert.Equal(t, "purge", cfg.tasks[0].name)
	assert.Equal(t, "@every 1h", cfg.tasks[0].schedule)

	require.NoError(t, cfg.tasks[0].handler(context.Background()))
	assert.Equal(t, 1, task.calls)
}

func TestWithLogger(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := &config{}
	WithLogger(logger)(cfg)
	assert.Same(t, logger, cfg.logger)

	WithLogger(nil)(cfg)
	assert.Same(t, logger, cfg.logger, "nil logger is ignored")
}

func TestWithMaxWorkers(t *testing.T) {
	t.Parallel()

	cfg := &config{maxWorkers: defaultMaxWorkers}
	WithMaxWorkers(0)(cfg)
	assert.Equal(t, defaultMaxWorkers, cfg.maxWorkers)

	WithMaxWorkers(-1)(cfg)
	assert.Equal(t, defaultMaxWorkers, cfg.maxWorkers)

	WithMaxWorkers(3)(cfg)
	assert.Equal(t, 3, cfg.maxWorkers)
}
