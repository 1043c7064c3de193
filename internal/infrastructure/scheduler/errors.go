package scheduler

import "errors"

var (
	// ErrQueueNotRunning is returned when pushing to a stopped delay queue
	ErrQueueNotRunning = errors.New("delay queue is not running")

	// ErrQueueFull is returned when the in-process job buffer is full
	ErrQueueFull = errors.New("delay queue is full")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrUnknownKind is returned for jobs or registrations naming an unregistered campaign kind
	ErrUnknownKind = errors.New("unknown campaign kind")

	// ErrInvalidJob is returned when an activation job is missing its kind or entity id
	ErrInvalidJob = errors.New("invalid activation job")
)
