package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mall/backend/internal/domain/marketing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestMemoryQueue(t *testing.T, handler JobHandler) *MemoryDelayQueue {
	t.Helper()
	config := DefaultMemoryQueueConfig()
	config.Workers = 2
	config.DelayUnit = time.Millisecond
	q, err := NewMemoryDelayQueue(config, handler, newTestLogger())
	require.NoError(t, err)
	return q
}

func TestMemoryQueueConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultMemoryQueueConfig().Validate())
	config := DefaultMemoryQueueConfig()
	config.Workers = 0
	assert.ErrorIs(t, config.Validate(), ErrInvalidConfig)
}

func TestMemoryDelayQueue_FiresAfterDelay(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var fired atomic.Int64
	firedAt := make(chan time.Time, 1)
	q := newTestMemoryQueue(t, JobHandlerFunc(func(_ context.Context, job *ActivationJob) error {
		fired.Store(job.EntityID)
		firedAt <- time.Now()
		return nil
	}))
	ctx := context.Background()
	require.NoError(t, q.Start(ctx))

	pushedAt := time.Now()
	require.NoError(t, q.Push(ctx, NewActivationJob(marketing.KindSeckillSession, 9, testNow), 30))

	select {
	case at := <-firedAt:
		assert.GreaterOrEqual(t, at.Sub(pushedAt), 30*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("job did not fire")
	}
	assert.Equal(t, int64(9), fired.Load())
	assert.Eventually(t, func() bool { return q.Pending() == 0 }, time.Second, 5*time.Millisecond)

	require.NoError(t, q.Stop(ctx))
	assert.False(t, q.IsRunning())
}

func TestMemoryDelayQueue_CollapsesDuplicates(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	q := newTestMemoryQueue(t, JobHandlerFunc(func(context.Context, *ActivationJob) error { return nil }))
	ctx := context.Background()
	require.NoError(t, q.Start(ctx))

	job := NewActivationJob(marketing.KindSeckillSession, 1, testNow)
	require.NoError(t, q.Push(ctx, job, 60_000))
	require.NoError(t, q.Push(ctx, NewActivationJob(marketing.KindSeckillSession, 1, testNow), 59_000))
	require.NoError(t, q.Push(ctx, NewActivationJob(marketing.KindSeckillSession, 1, testNow.Add(time.Minute)), 60_000))
	assert.Equal(t, 2, q.Pending())

	require.NoError(t, q.Stop(ctx))
	assert.Equal(t, 0, q.Pending())
}

func TestMemoryDelayQueue_StopDisarmsTimers(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var calls atomic.Int32
	q := newTestMemoryQueue(t, JobHandlerFunc(func(context.Context, *ActivationJob) error {
		calls.Add(1)
		return nil
	}))
	ctx := context.Background()
	require.NoError(t, q.Start(ctx))
	require.NoError(t, q.Push(ctx, NewActivationJob(marketing.KindGroupBuy, 3, testNow), 50))
	require.NoError(t, q.Stop(ctx))

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, calls.Load())
	assert.ErrorIs(t, q.Push(ctx, NewActivationJob(marketing.KindGroupBuy, 3, testNow), 1), ErrQueueNotRunning)
}

func TestMemoryDelayQueue_SurvivesPanickingHandler(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	done := make(chan int64, 2)
	q := newTestMemoryQueue(t, JobHandlerFunc(func(_ context.Context, job *ActivationJob) error {
		if job.EntityID == 1 {
			panic("boom")
		}
		done <- job.EntityID
		return nil
	}))
	ctx := context.Background()
	require.NoError(t, q.Start(ctx))
	require.NoError(t, q.Push(ctx, NewActivationJob(marketing.KindGroupBuy, 1, testNow), 0))
	require.NoError(t, q.Push(ctx, NewActivationJob(marketing.KindGroupBuy, 2, testNow), 5))

	select {
	case id := <-done:
		assert.Equal(t, int64(2), id)
	case <-time.After(2 * time.Second):
		t.Fatal("second job did not run")
	}
	require.NoError(t, q.Stop(ctx))
}

func TestMemoryDelayQueue_RejectsInvalidJob(t *testing.T) {
	q := newTestMemoryQueue(t, JobHandlerFunc(func(context.Context, *ActivationJob) error { return nil }))
	assert.ErrorIs(t, q.Push(context.Background(), &ActivationJob{}, 1), ErrInvalidJob)
}

// End to end: a sweep schedules a start and the executor performs it when the timer fires.
func TestMemoryDelayQueue_WithReconciler(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newFixture(t, DefaultReconcilerConfig())
	f.store.addSession(1, 100, marketing.StatusPending, true, testNow.Add(20*time.Second), testNow.Add(time.Hour))

	q := newTestMemoryQueue(t, NewActivationExecutor(f.registry, newTestLogger()))
	ctx := context.Background()
	require.NoError(t, q.Start(ctx))

	reconciler, err := NewReconciler(DefaultReconcilerConfig(), f.registry, q, f.clock, newTestLogger())
	require.NoError(t, err)
	report := reconciler.Sweep(ctx)
	assert.Equal(t, 1, report.Totals().Scheduled)

	assert.Eventually(t, func() bool {
		return f.store.sessionStatus(1) == marketing.StatusActive
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, q.Stop(ctx))
}
