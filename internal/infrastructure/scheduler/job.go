package scheduler

import (
	"context"
	"fmt"
	"time"
)

// ActivationJob is a one-shot request to start a campaign record once its start time arrives.
// It carries only identity; the record is re-read when the job fires.
type ActivationJob struct {
	Kind      string    `json:"kind"`
	EntityID  int64     `json:"entity_id"`
	StartTime time.Time `json:"start_time"`
}

// NewActivationJob creates a job for the record's current start time
func NewActivationJob(kind string, entityID int64, startTime time.Time) *ActivationJob {
	return &ActivationJob{
		Kind:      kind,
		EntityID:  entityID,
		StartTime: startTime.UTC(),
	}
}

// Key identifies the job. Repeated sweeps produce the same key for an unchanged record,
// so backends use it to collapse duplicates.
func (j *ActivationJob) Key() string {
	return fmt.Sprintf("%s:%d:%d", j.Kind, j.EntityID, j.StartTime.UnixMilli())
}

// Validate checks the job carries a kind and an entity id
func (j *ActivationJob) Validate() error {
	if j == nil || j.Kind == "" || j.EntityID <= 0 {
		return ErrInvalidJob
	}
	return nil
}

// DelayedTaskBackend runs an activation job no earlier than delaySeconds from now
type DelayedTaskBackend interface {
	Push(ctx context.Context, job *ActivationJob, delaySeconds int64) error
}

// JobHandler executes a fired activation job
type JobHandler interface {
	Handle(ctx context.Context, job *ActivationJob) error
}

// JobHandlerFunc adapts a function to JobHandler
type JobHandlerFunc func(ctx context.Context, job *ActivationJob) error

// Handle calls f(ctx, job)
func (f JobHandlerFunc) Handle(ctx context.Context, job *ActivationJob) error {
	return f(ctx, job)
}
