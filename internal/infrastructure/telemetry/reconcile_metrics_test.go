package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mall/backend/internal/domain/marketing"
	"github.com/mall/backend/internal/infrastructure/scheduler"
	"github.com/mall/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newManualMetrics(t *testing.T, depth telemetry.QueueDepthFunc) (*telemetry.ReconcileMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := telemetry.NewReconcileMetrics(telemetry.ReconcileMetricsConfig{
		Meter:      provider.Meter("marketing-test"),
		Logger:     zap.NewNop(),
		QueueDepth: depth,
		Backend:    "memory",
	})
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

// sumValue returns the counter value of the data point carrying every given attribute
func sumValue(t *testing.T, rm metricdata.ResourceMetrics, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	m, ok := findMetric(rm, name)
	require.True(t, ok, "metric %s not found", name)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", name)

	var total int64
	for _, dp := range sum.DataPoints {
		matches := true
		for _, kv := range attrs {
			v, found := dp.Attributes.Value(kv.Key)
			if !found || v.Emit() != kv.Value.Emit() {
				matches = false
				break
			}
		}
		if matches {
			total += dp.Value
		}
	}
	return total
}

func TestNewReconcileMetrics_NilMeter(t *testing.T) {
	m, err := telemetry.NewReconcileMetrics(telemetry.ReconcileMetricsConfig{})
	require.ErrorIs(t, err, telemetry.ErrMeterNil)
	assert.Nil(t, m)
}

func TestNewReconcileMetrics_Noop(t *testing.T) {
	m, err := telemetry.NewReconcileMetrics(telemetry.ReconcileMetricsConfig{
		Meter: noop.NewMeterProvider().Meter("test"),
	})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		m.RecordSweep(context.Background(), &scheduler.SweepReport{})
		m.RecordSweep(context.Background(), nil)
		m.RecordActivation(context.Background(), marketing.KindGroupBuy, scheduler.ActivationStarted)
	})
}

func TestReconcileMetrics_RecordSweep(t *testing.T) {
	m, reader := newManualMetrics(t, nil)

	report := &scheduler.SweepReport{
		ID:       "sweep-1",
		Duration: 120 * time.Millisecond,
		Passes: []*scheduler.PassReport{
			{Pass: scheduler.PassScheduleOrActivate, Kind: marketing.KindSeckillSession, Candidates: 3, Started: 1, Scheduled: 2},
			{Pass: scheduler.PassEndExpired, Kind: marketing.KindSeckillSession, Candidates: 2, Ended: 1, Failed: 1},
			{Pass: scheduler.PassEndExpired, Kind: marketing.KindGroupBuy, FinderError: "connection refused"},
		},
	}
	m.RecordSweep(context.Background(), report)

	rm := collect(t, reader)
	assert.Equal(t, int64(1), sumValue(t, rm, "mall_marketing_sweeps_total"))
	assert.Equal(t, int64(2), sumValue(t, rm, "mall_marketing_sweep_records_total",
		telemetry.AttrPass.String(string(scheduler.PassScheduleOrActivate)),
		telemetry.AttrOutcome.String("scheduled")))
	assert.Equal(t, int64(1), sumValue(t, rm, "mall_marketing_sweep_records_total",
		telemetry.AttrKind.String(marketing.KindSeckillSession),
		telemetry.AttrOutcome.String("failed")))
	assert.Equal(t, int64(1), sumValue(t, rm, "mall_marketing_finder_failures_total",
		telemetry.AttrKind.String(marketing.KindGroupBuy)))

	hist, ok := findMetric(rm, "mall_marketing_sweep_duration_seconds")
	require.True(t, ok)
	data, ok := hist.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, data.DataPoints, 1)
	assert.Equal(t, uint64(1), data.DataPoints[0].Count)
}

func TestReconcileMetrics_RecordActivation(t *testing.T) {
	m, reader := newManualMetrics(t, nil)
	ctx := context.Background()

	m.RecordActivation(ctx, marketing.KindSeckillSession, scheduler.ActivationStarted)
	m.RecordActivation(ctx, marketing.KindSeckillSession, scheduler.ActivationStarted)
	m.RecordActivation(ctx, marketing.KindSeckillSession, scheduler.ActivationStale)

	rm := collect(t, reader)
	assert.Equal(t, int64(2), sumValue(t, rm, "mall_marketing_activation_jobs_total",
		telemetry.AttrOutcome.String(string(scheduler.ActivationStarted))))
	assert.Equal(t, int64(3), sumValue(t, rm, "mall_marketing_activation_jobs_total",
		telemetry.AttrKind.String(marketing.KindSeckillSession)))
}

func TestReconcileMetrics_HandleStatusChange(t *testing.T) {
	m, reader := newManualMetrics(t, nil)
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	event := marketing.NewCampaignStatusChangedEvent(marketing.EventTypeGroupBuyEnded,
		marketing.AggregateTypeGroupBuy, marketing.KindGroupBuy, 4,
		marketing.StatusActive, marketing.StatusEnded, "", at)
	require.NoError(t, m.Handle(context.Background(), event))
	assert.Empty(t, m.EventTypes())

	rm := collect(t, reader)
	assert.Equal(t, int64(1), sumValue(t, rm, "mall_marketing_status_transitions_total",
		telemetry.AttrKind.String(marketing.KindGroupBuy),
		telemetry.AttrStatus.String("ended")))
}

func TestReconcileMetrics_QueueDepth(t *testing.T) {
	depth := int64(7)
	_, reader := newManualMetrics(t, func(context.Context) (int64, error) { return depth, nil })

	rm := collect(t, reader)
	gauge, ok := findMetric(rm, "mall_marketing_activation_queue_depth")
	require.True(t, ok)
	data, ok := gauge.Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, data.DataPoints, 1)
	assert.Equal(t, int64(7), data.DataPoints[0].Value)
}

func TestReconcileMetrics_QueueDepthErrorIsTolerated(t *testing.T) {
	_, reader := newManualMetrics(t, func(context.Context) (int64, error) { return 0, errors.New("redis down") })

	rm := collect(t, reader)
	_, ok := findMetric(rm, "mall_marketing_activation_queue_depth")
	assert.False(t, ok)
}
