package telemetry

import (
	"context"
	"fmt"

	"github.com/mall/backend/internal/domain/marketing"
	"github.com/mall/backend/internal/domain/shared"
	"github.com/mall/backend/internal/infrastructure/scheduler"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// QueueDepthFunc reports how many activation jobs are waiting to fire
type QueueDepthFunc func(ctx context.Context) (int64, error)

// ReconcileMetrics records reconciliation sweeps, activation jobs and status changes.
// It implements scheduler.Recorder and shared.EventHandler.
type ReconcileMetrics struct {
	logger *zap.Logger

	sweepsTotal         *Counter
	sweepDuration       *Histogram
	recordsTotal        *Counter
	finderFailuresTotal *Counter
	activationsTotal    *Counter
	transitionsTotal    *Counter
	queueDepth          metric.Int64ObservableGauge
}

// ReconcileMetricsConfig holds configuration for reconcile metrics.
type ReconcileMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
	// QueueDepth is observed on every collection when set
	QueueDepth QueueDepthFunc
	// Backend labels the queue depth gauge
	Backend string
}

// NewReconcileMetrics creates the marketing scheduler instruments.
func NewReconcileMetrics(cfg ReconcileMetricsConfig) (*ReconcileMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &ReconcileMetrics{logger: logger}
	var err error

	if m.sweepsTotal, err = NewCounter(cfg.Meter, "mall_marketing_sweeps_total",
		"Total number of reconciliation sweeps", "{sweeps}"); err != nil {
		return nil, err
	}
	if m.sweepDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "mall_marketing_sweep_duration_seconds",
		Description: "Duration of reconciliation sweeps",
		Unit:        "s",
		Boundaries:  SweepDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.recordsTotal, err = NewCounter(cfg.Meter, "mall_marketing_sweep_records_total",
		"Records handled by reconciliation passes, by outcome", "{records}"); err != nil {
		return nil, err
	}
	if m.finderFailuresTotal, err = NewCounter(cfg.Meter, "mall_marketing_finder_failures_total",
		"Reconciliation passes skipped because the candidate query failed", "{passes}"); err != nil {
		return nil, err
	}
	if m.activationsTotal, err = NewCounter(cfg.Meter, "mall_marketing_activation_jobs_total",
		"Fired activation jobs, by outcome", "{jobs}"); err != nil {
		return nil, err
	}
	if m.transitionsTotal, err = NewCounter(cfg.Meter, "mall_marketing_status_transitions_total",
		"Campaign status changes, by kind and target status", "{transitions}"); err != nil {
		return nil, err
	}

	if cfg.QueueDepth != nil {
		m.queueDepth, err = cfg.Meter.Int64ObservableGauge("mall_marketing_activation_queue_depth",
			metric.WithDescription("Activation jobs waiting to fire"),
			metric.WithUnit("{jobs}"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create gauge mall_marketing_activation_queue_depth: %w", err)
		}
		backend := AttrBackend.String(cfg.Backend)
		_, err = cfg.Meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
			depth, err := cfg.QueueDepth(ctx)
			if err != nil {
				logger.Warn("Failed to observe activation queue depth", zap.Error(err))
				return nil
			}
			o.ObserveInt64(m.queueDepth, depth, metric.WithAttributes(backend))
			return nil
		}, m.queueDepth)
		if err != nil {
			return nil, fmt.Errorf("failed to register queue depth callback: %w", err)
		}
	}

	return m, nil
}

// RecordSweep implements scheduler.Recorder
func (m *ReconcileMetrics) RecordSweep(ctx context.Context, report *scheduler.SweepReport) {
	if report == nil {
		return
	}
	interrupted := "completed"
	if report.Interrupted {
		interrupted = "interrupted"
	}
	m.sweepsTotal.Inc(ctx, AttrOutcome.String(interrupted))
	m.sweepDuration.RecordDuration(ctx, report.Duration)

	for _, p := range report.Passes {
		pass := AttrPass.String(string(p.Pass))
		kind := AttrKind.String(p.Kind)
		if p.FinderError != "" {
			m.finderFailuresTotal.Inc(ctx, pass, kind)
			continue
		}
		m.recordsTotal.Add(ctx, int64(p.Started), pass, kind, AttrOutcome.String("started"))
		m.recordsTotal.Add(ctx, int64(p.Scheduled), pass, kind, AttrOutcome.String("scheduled"))
		m.recordsTotal.Add(ctx, int64(p.Ended), pass, kind, AttrOutcome.String("ended"))
		m.recordsTotal.Add(ctx, int64(p.Skipped), pass, kind, AttrOutcome.String("skipped"))
		m.recordsTotal.Add(ctx, int64(p.Failed), pass, kind, AttrOutcome.String("failed"))
	}
}

// RecordActivation implements scheduler.Recorder
func (m *ReconcileMetrics) RecordActivation(ctx context.Context, kind string, outcome scheduler.ActivationOutcome) {
	m.activationsTotal.Inc(ctx, AttrKind.String(kind), AttrOutcome.String(string(outcome)))
}

// EventTypes implements shared.EventHandler; an empty list subscribes to every event
func (m *ReconcileMetrics) EventTypes() []string {
	return nil
}

// Handle implements shared.EventHandler
func (m *ReconcileMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*marketing.CampaignStatusChangedEvent)
	if !ok {
		return nil
	}
	m.transitionsTotal.Inc(ctx, AttrKind.String(changed.Kind), AttrStatus.String(changed.ToStatus.String()))
	return nil
}

var (
	_ scheduler.Recorder  = (*ReconcileMetrics)(nil)
	_ shared.EventHandler = (*ReconcileMetrics)(nil)
)
