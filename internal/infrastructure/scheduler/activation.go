package scheduler

import (
	"context"
	"fmt"

	"github.com/mall/backend/internal/domain/marketing"
	"github.com/mall/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ActivationOutcome is the result of one fired activation job
type ActivationOutcome string

const (
	ActivationStarted  ActivationOutcome = "started"
	ActivationSkipped  ActivationOutcome = "skipped"
	ActivationStale    ActivationOutcome = "stale"
	ActivationNotFound ActivationOutcome = "not_found"
	ActivationFailed   ActivationOutcome = "failed"
)

// ActivationExecutor runs fired activation jobs. The record is re-read and
// re-checked at fire time; anything no longer eligible is a silent no-op.
type ActivationExecutor struct {
	registry *KindRegistry
	logger   *zap.Logger
	recorder Recorder
}

// NewActivationExecutor creates a new activation executor
func NewActivationExecutor(registry *KindRegistry, logger *zap.Logger) *ActivationExecutor {
	return &ActivationExecutor{
		registry: registry,
		logger:   logger.Named("activation"),
		recorder: noopRecorder{},
	}
}

// SetRecorder sets the outcome recorder
func (e *ActivationExecutor) SetRecorder(recorder Recorder) {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	e.recorder = recorder
}

// Handle implements JobHandler
func (e *ActivationExecutor) Handle(ctx context.Context, job *ActivationJob) error {
	kind := ""
	var entityID int64
	if job != nil {
		kind = job.Kind
		entityID = job.EntityID
	}
	ctx, span := tracer().Start(ctx, "marketing.activation", trace.WithAttributes(
		attribute.String("campaign.kind", kind),
		attribute.Int64("campaign.id", entityID),
	))
	defer span.End()

	outcome, err := e.execute(ctx, job)
	span.SetAttributes(attribute.String("activation.outcome", string(outcome)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	e.recorder.RecordActivation(ctx, kind, outcome)
	return err
}

func (e *ActivationExecutor) execute(ctx context.Context, job *ActivationJob) (ActivationOutcome, error) {
	if err := job.Validate(); err != nil {
		return ActivationFailed, err
	}
	kind, ok := e.registry.Get(job.Kind)
	if !ok {
		return ActivationFailed, fmt.Errorf("%w: %s", ErrUnknownKind, job.Kind)
	}

	logger := e.logger.With(zap.String("kind", job.Kind), zap.Int64("id", job.EntityID))

	rec, err := kind.Source.FindByID(ctx, job.EntityID)
	if err != nil {
		if shared.IsNotFound(err) {
			logger.Debug("Activation job target no longer exists")
			return ActivationNotFound, nil
		}
		return ActivationFailed, fmt.Errorf("load %s %d: %w", job.Kind, job.EntityID, err)
	}

	if !marketing.EligibleRecord(rec, marketing.TransitionStart) {
		logger.Debug("Activation job skipped, record not eligible",
			zap.String("status", string(rec.GetStatus())),
			zap.Bool("enabled", rec.IsEnabled()),
		)
		return ActivationSkipped, nil
	}

	// A record moved to a later start has a newer job of its own.
	if timed, ok := rec.(marketing.TimedRecord); ok && timed.GetStartTime().After(job.StartTime) {
		logger.Debug("Activation job skipped, record was rescheduled",
			zap.Time("job_start", job.StartTime),
			zap.Time("record_start", timed.GetStartTime()),
		)
		return ActivationStale, nil
	}

	if err := kind.Transitions.Start(ctx, job.EntityID); err != nil {
		return ActivationFailed, err
	}
	logger.Info("Campaign record activated by scheduled job")
	return ActivationStarted, nil
}
