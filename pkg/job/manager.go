package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

const defaultMaxWorkers = 10

// Manager runs scheduled tasks on River.
// River elects one leader among all processes sharing the database, and only
// the leader inserts periodic jobs, so each occurrence runs once per cluster.
type Manager struct {
	client   *river.Client[pgx.Tx]
	pool     *pgxpool.Pool
	registry *taskRegistry
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewManager creates a job manager. River's tables must already exist;
// see db.MigrateRiver.
func NewManager(pool *pgxpool.Pool, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}

	cfg := &config{
		maxWorkers: defaultMaxWorkers,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	registry, periodic, err := schedule(cfg.tasks)
	if err != nil {
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &taskWorker{registry: registry, logger: cfg.logger})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: cfg.maxWorkers},
		},
		Workers:      workers,
		PeriodicJobs: periodic,
		Logger:       cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}

	return &Manager{
		client:   client,
		pool:     pool,
		registry: registry,
		logger:   cfg.logger,
	}, nil
}

// schedule registers every task and builds its River periodic job.
// Periodic jobs never fire on start; the first run is one interval away.
func schedule(tasks []scheduledTask) (*taskRegistry, []*river.PeriodicJob, error) {
	registry := newTaskRegistry()
	periodic := make([]*river.PeriodicJob, 0, len(tasks))

	for _, task := range tasks {
		sched, err := parseSchedule(task.schedule)
		if err != nil {
			return nil, nil, fmt.Errorf("task %q: %w", task.name, err)
		}
		if !registry.register(task.name, task.handler) {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateTask, task.name)
		}

		args := taskArgs{TaskName: task.name}
		periodic = append(periodic, river.NewPeriodicJob(
			sched,
			func() (river.JobArgs, *river.InsertOpts) { return args, nil },
			&river.PeriodicJobOpts{RunOnStart: false},
		))
	}

	return registry, periodic, nil
}

// Start begins running scheduled tasks.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return ErrAlreadyStarted
	}
	if err := m.client.Start(ctx); err != nil {
		return fmt.Errorf("job: start client: %w", err)
	}

	m.running = true
	m.logger.InfoContext(ctx, "job manager started", slog.Any("tasks", m.registry.names()))
	return nil
}

// Stop waits for running tasks to finish and shuts the client down.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return ErrNotStarted
	}
	if err := m.client.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop client: %w", err)
	}

	m.running = false
	m.logger.InfoContext(ctx, "job manager stopped")
	return nil
}

// Running reports whether Start succeeded and Stop has not been called since.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// StartFunc returns Start as a startup hook.
func (m *Manager) StartFunc() func(context.Context) error {
	return m.Start
}

// Shutdown returns a shutdown hook. Stopping a manager that never started
// is not an error here.
func (m *Manager) Shutdown() func(context.Context) error {
	return func(ctx context.Context) error {
		if err := m.Stop(ctx); err != nil && !errors.Is(err, ErrNotStarted) {
			return err
		}
		return nil
	}
}

// taskArgs is the River job arguments type for every scheduled task.
type taskArgs struct {
	TaskName string `json:"task_name"`
}

func (taskArgs) Kind() string {
	return "ssocache:scheduled_task"
}

// taskWorker dispatches jobs to registered handlers.
type taskWorker struct {
	river.WorkerDefaults[taskArgs]
	registry *taskRegistry
	logger   *slog.Logger
}

func (w *taskWorker) Work(ctx context.Context, job *river.Job[taskArgs]) error {
	handler, ok := w.registry.get(job.Args.TaskName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, job.Args.TaskName)
	}

	log := w.logger.With(
		slog.String("task", job.Args.TaskName),
		slog.Int64("job_id", job.ID),
		slog.Int("attempt", job.Attempt),
	)

	start := time.Now()
	if err := handler(ctx); err != nil {
		log.ErrorContext(ctx, "scheduled task failed", slog.Any("error", err))
		return err
	}

	log.DebugContext(ctx, "scheduled task done", slog.Duration("took", time.Since(start)))
	return nil
}
