package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mall/backend/internal/domain/marketing"
	"github.com/mall/backend/internal/domain/shared"
	applog "github.com/mall/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ReconcilerConfig holds reconciliation sweep configuration
type ReconcilerConfig struct {
	// LookaheadWindow bounds how far ahead pending starts are scheduled
	LookaheadWindow time.Duration
	// EndEmptyActivities ends an active parent that has no children at all
	EndEmptyActivities bool
}

// DefaultReconcilerConfig returns default reconciler configuration
func DefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		LookaheadWindow:    30 * time.Minute,
		EndEmptyActivities: false,
	}
}

// Validate validates the configuration
func (c ReconcilerConfig) Validate() error {
	if c.LookaheadWindow <= 0 {
		return fmt.Errorf("%w: lookahead window must be positive", ErrInvalidConfig)
	}
	return nil
}

// Recorder receives sweep and activation outcomes, typically for metrics
type Recorder interface {
	RecordSweep(ctx context.Context, report *SweepReport)
	RecordActivation(ctx context.Context, kind string, outcome ActivationOutcome)
}

type noopRecorder struct{}

func (noopRecorder) RecordSweep(context.Context, *SweepReport)                  {}
func (noopRecorder) RecordActivation(context.Context, string, ActivationOutcome) {}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeStarted
	outcomeScheduled
	outcomeEnded
)

// Reconciler moves campaign records through pending, active and ended.
//
// A sweep runs, in order, schedule-or-activate and end-expired for every kind,
// then cascade-start and cascade-end for every kind that has a parent. Each record
// is handled in isolation; a failure is logged, counted, and the sweep goes on.
type Reconciler struct {
	config   ReconcilerConfig
	registry *KindRegistry
	backend  DelayedTaskBackend
	clock    shared.Clock
	logger   *zap.Logger
	recorder Recorder

	mu   sync.RWMutex
	last *SweepReport
}

// NewReconciler creates a new reconciler
func NewReconciler(
	config ReconcilerConfig,
	registry *KindRegistry,
	backend DelayedTaskBackend,
	clock shared.Clock,
	logger *zap.Logger,
) (*Reconciler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if registry == nil || backend == nil || clock == nil {
		return nil, fmt.Errorf("%w: registry, backend and clock are required", ErrInvalidConfig)
	}
	return &Reconciler{
		config:   config,
		registry: registry,
		backend:  backend,
		clock:    clock,
		logger:   logger.Named("reconciler"),
		recorder: noopRecorder{},
	}, nil
}

// SetRecorder sets the outcome recorder
func (r *Reconciler) SetRecorder(recorder Recorder) {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	r.recorder = recorder
}

// Config returns the reconciler configuration
func (r *Reconciler) Config() ReconcilerConfig {
	return r.config
}

// LastReport returns the report of the most recent sweep, or nil
func (r *Reconciler) LastReport() *SweepReport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// Sweep runs every pass once. Record and finder failures are counted in the
// report rather than returned. Cancelling ctx stops the sweep between records
// and marks the report interrupted.
func (r *Reconciler) Sweep(ctx context.Context) *SweepReport {
	began := time.Now()
	now := r.clock.Now()
	report := newSweepReport(uuid.New().String(), now)

	ctx, span := tracer().Start(ctx, "marketing.sweep",
		trace.WithAttributes(attribute.String("sweep.id", report.ID)))
	defer span.End()

	ctx, log := applog.WithSweepID(ctx, r.logger, report.ID)
	log.Debug("Reconciliation sweep started", zap.Time("now", now))

	kinds := r.registry.Kinds()
	for _, k := range kinds {
		r.scheduleOrActivate(ctx, k, now, report)
		r.endExpired(ctx, k, now, report)
	}
	for _, k := range kinds {
		if k.Cascade == nil {
			continue
		}
		r.cascadeStart(ctx, k.Cascade, report)
		r.cascadeEnd(ctx, k.Cascade, report)
	}

	report.Duration = time.Since(began)

	r.mu.Lock()
	r.last = report
	r.mu.Unlock()

	totals := report.Totals()
	log.Info("Reconciliation sweep finished",
		zap.Time("now", now),
		zap.Duration("duration", report.Duration),
		zap.Int("candidates", totals.Candidates),
		zap.Int("started", totals.Started),
		zap.Int("scheduled", totals.Scheduled),
		zap.Int("ended", totals.Ended),
		zap.Int("skipped", totals.Skipped),
		zap.Int("failed", totals.Failed),
		zap.Int("finder_failures", report.FinderFailures()),
		zap.Bool("interrupted", report.Interrupted),
	)
	span.SetAttributes(
		attribute.Int("sweep.started", totals.Started),
		attribute.Int("sweep.scheduled", totals.Scheduled),
		attribute.Int("sweep.ended", totals.Ended),
		attribute.Int("sweep.failed", totals.Failed),
		attribute.Bool("sweep.interrupted", report.Interrupted),
	)
	if totals.Failed > 0 || report.FinderFailures() > 0 {
		span.SetStatus(codes.Error, "sweep finished with failures")
	}
	r.recorder.RecordSweep(ctx, report)
	return report
}

// scheduleOrActivate starts overdue pending records and enqueues an activation job
// for the ones starting within the lookahead window.
func (r *Reconciler) scheduleOrActivate(ctx context.Context, k CampaignKind, now time.Time, report *SweepReport) {
	pr := report.begin(PassScheduleOrActivate, k.Name)
	records, err := k.Source.FindPendingStartingBefore(ctx, now.Add(r.config.LookaheadWindow))
	if err != nil {
		r.finderFailed(ctx, pr, err)
		return
	}
	for _, rec := range records {
		if !r.proceed(ctx, report) {
			return
		}
		r.handle(ctx, pr, rec.GetID(), func() (outcome, error) {
			if !marketing.EligibleRecord(rec, marketing.TransitionStart) {
				return outcomeSkipped, nil
			}
			start := rec.GetStartTime()
			if !start.After(now) {
				if err := k.Transitions.Start(ctx, rec.GetID()); err != nil {
					return outcomeSkipped, err
				}
				return outcomeStarted, nil
			}
			job := NewActivationJob(k.Name, rec.GetID(), start)
			if err := r.backend.Push(ctx, job, DelaySeconds(start, now)); err != nil {
				return outcomeSkipped, fmt.Errorf("enqueue activation job: %w", err)
			}
			return outcomeScheduled, nil
		})
	}
}

// endExpired ends active records whose end time has passed
func (r *Reconciler) endExpired(ctx context.Context, k CampaignKind, now time.Time, report *SweepReport) {
	pr := report.begin(PassEndExpired, k.Name)
	records, err := k.Source.FindActiveEndedBefore(ctx, now)
	if err != nil {
		r.finderFailed(ctx, pr, err)
		return
	}
	for _, rec := range records {
		if !r.proceed(ctx, report) {
			return
		}
		r.handle(ctx, pr, rec.GetID(), func() (outcome, error) {
			if !marketing.EligibleRecord(rec, marketing.TransitionEnd) {
				return outcomeSkipped, nil
			}
			if err := k.Transitions.End(ctx, rec.GetID()); err != nil {
				return outcomeSkipped, err
			}
			return outcomeEnded, nil
		})
	}
}

// cascadeStart starts pending parents that already have a running child
func (r *Reconciler) cascadeStart(ctx context.Context, c *Cascade, report *SweepReport) {
	pr := report.begin(PassCascadeStart, c.Name)
	parents, err := c.Source.FindPendingEnabled(ctx)
	if err != nil {
		r.finderFailed(ctx, pr, err)
		return
	}
	for _, parent := range parents {
		if !r.proceed(ctx, report) {
			return
		}
		r.handle(ctx, pr, parent.GetID(), func() (outcome, error) {
			if !marketing.EligibleRecord(parent, marketing.TransitionStart) {
				return outcomeSkipped, nil
			}
			children, err := c.Source.FindChildren(ctx, parent.GetID())
			if err != nil {
				return outcomeSkipped, fmt.Errorf("find children: %w", err)
			}
			if !marketing.ShouldCascadeStart(parent, children) {
				return outcomeSkipped, nil
			}
			if err := c.Transitions.Start(ctx, parent.GetID()); err != nil {
				return outcomeSkipped, err
			}
			return outcomeStarted, nil
		})
	}
}

// cascadeEnd ends active parents whose children are all ended or cancelled
func (r *Reconciler) cascadeEnd(ctx context.Context, c *Cascade, report *SweepReport) {
	pr := report.begin(PassCascadeEnd, c.Name)
	parents, err := c.Source.FindActive(ctx)
	if err != nil {
		r.finderFailed(ctx, pr, err)
		return
	}
	for _, parent := range parents {
		if !r.proceed(ctx, report) {
			return
		}
		r.handle(ctx, pr, parent.GetID(), func() (outcome, error) {
			if !marketing.EligibleRecord(parent, marketing.TransitionEnd) {
				return outcomeSkipped, nil
			}
			children, err := c.Source.FindChildren(ctx, parent.GetID())
			if err != nil {
				return outcomeSkipped, fmt.Errorf("find children: %w", err)
			}
			if !marketing.ShouldCascadeEnd(parent, children, r.config.EndEmptyActivities) {
				return outcomeSkipped, nil
			}
			if err := c.Transitions.End(ctx, parent.GetID()); err != nil {
				return outcomeSkipped, err
			}
			return outcomeEnded, nil
		})
	}
}

// handle runs one per-record action, converting errors and panics into a failed count
func (r *Reconciler) handle(ctx context.Context, pr *PassReport, id int64, action func() (outcome, error)) {
	pr.Candidates++

	var (
		result outcome
		err    error
	)
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("panic: %v", rec)
			}
		}()
		result, err = action()
	}()

	if err != nil {
		pr.Failed++
		applog.FromContext(ctx).Error("Reconciliation action failed",
			append(applog.Campaign(string(pr.Pass), pr.Kind, id), zap.Error(err))...)
		return
	}

	switch result {
	case outcomeStarted:
		pr.Started++
	case outcomeScheduled:
		pr.Scheduled++
	case outcomeEnded:
		pr.Ended++
	default:
		pr.Skipped++
	}
}

func (r *Reconciler) finderFailed(ctx context.Context, pr *PassReport, err error) {
	pr.FinderError = err.Error()
	applog.FromContext(ctx).Error("Reconciliation pass skipped, finder failed",
		zap.String("pass", string(pr.Pass)),
		zap.String("kind", pr.Kind),
		zap.Error(err),
	)
}

// proceed reports whether the sweep may continue. Only shutdown stops a sweep early.
func (r *Reconciler) proceed(ctx context.Context, report *SweepReport) bool {
	if ctx.Err() != nil {
		report.Interrupted = true
		return false
	}
	return true
}
