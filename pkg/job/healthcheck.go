package job

import (
	"context"
	"errors"
)

// ErrHealthcheckFailed is returned when the job manager health check fails.
var ErrHealthcheckFailed = errors.New("job: healthcheck failed")

var (
	errManagerNil        = errors.New("manager is nil")
	errManagerNotStarted = errors.New("manager not started")
)

// Healthcheck returns a readiness check for the job manager: it must be
// running and its database must answer a ping. Compatible with
// health.CheckFunc.
func Healthcheck(m *Manager) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		switch {
		case m == nil:
			return errors.Join(ErrHealthcheckFailed, errManagerNil)
		case !m.Running():
			return errors.Join(ErrHealthcheckFailed, errManagerNotStarted)
		}
		if err := m.pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
