package scheduler

import "errors"

var (
	// ErrInvalidJob is returned for a job without a name or run function
	ErrInvalidJob = errors.New("invalid scheduled job")

	// ErrInvalidSchedule is returned when a cron expression does not parse
	ErrInvalidSchedule = errors.New("invalid cron schedule")

	// ErrDuplicateJob is returned when a job name is registered twice
	ErrDuplicateJob = errors.New("scheduled job already registered")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")
)
