package event

import "errors"

// Sentinel errors for the event package.
var (
	// ErrInvalidThreadCount is returned when a worker pool is built with fewer than one worker.
	ErrInvalidThreadCount = errors.New("invalid thread count")

	// ErrInvalidStatusCron is returned by Init when the status cron expression does not parse.
	ErrInvalidStatusCron = errors.New("invalid status cron expression")

	// ErrNotInitialized is returned by notify calls made before an executor is present.
	ErrNotInitialized = errors.New("dispatcher is not initialized")

	// ErrObserverExit is the fault value recorded when an observer calls runtime.Goexit.
	ErrObserverExit = errors.New("observer exited its goroutine")
)
