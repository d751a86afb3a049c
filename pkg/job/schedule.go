package job

import (
	"errors"
	"time"

	"github.com/riverqueue/river"
	"github.com/robfig/cron/v3"
)

var scheduleParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type cronScheduleAdapter struct {
	schedule cron.Schedule
}

func (a *cronScheduleAdapter) Next(current time.Time) time.Time {
	return a.schedule.Next(current)
}

// parseSchedule accepts five-field cron expressions and descriptors
// ("@daily", "@every 90s").
func parseSchedule(expr string) (river.PeriodicSchedule, error) {
	schedule, err := scheduleParser.Parse(expr)
	if err != nil {
		return nil, errors.Join(ErrInvalidSchedule, err)
	}
	return &cronScheduleAdapter{schedule: schedule}, nil
}
