package health

import "errors"

var (
	// ErrCheckFailed is returned by Run when at least one check fails.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout is joined to a check error when the run deadline expired.
	ErrCheckTimeout = errors.New("health: check timeout")
)
