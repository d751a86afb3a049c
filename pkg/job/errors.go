package job

import "errors"

// Job errors.
var (
	// ErrUnknownTask is returned when River hands the worker a job whose
	// task name was never registered.
	ErrUnknownTask = errors.New("job: unknown task")

	// ErrDuplicateTask is returned when two scheduled tasks share a name.
	ErrDuplicateTask = errors.New("job: duplicate task name")

	// ErrInvalidSchedule is returned when a task schedule cannot be parsed.
	ErrInvalidSchedule = errors.New("job: invalid schedule")

	// ErrAlreadyStarted is returned when attempting to start a manager
	// that is already running.
	ErrAlreadyStarted = errors.New("job: already started")

	// ErrNotStarted is returned when attempting to stop a manager
	// that is not running.
	ErrNotStarted = errors.New("job: not started")

	// ErrPoolRequired is returned when attempting to create a manager
	// without providing a database pool.
	ErrPoolRequired = errors.New("job: pool is required")
)
