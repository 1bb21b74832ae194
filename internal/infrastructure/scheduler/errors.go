package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when triggering a run on a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrRunInProgress is returned when a manual run is requested while one is active
	ErrRunInProgress = errors.New("a sync run is already in progress")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
