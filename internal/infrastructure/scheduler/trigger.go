package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Sweeper runs one reconciliation sweep
type Sweeper interface {
	Sweep(ctx context.Context) *SweepReport
}

// SweepTriggerConfig holds sweep trigger configuration
type SweepTriggerConfig struct {
	Interval   time.Duration
	RunOnStart bool
}

// DefaultSweepTriggerConfig returns default sweep trigger configuration
func DefaultSweepTriggerConfig() SweepTriggerConfig {
	return SweepTriggerConfig{
		Interval:   time.Minute,
		RunOnStart: true,
	}
}

// Validate validates the configuration
func (c SweepTriggerConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: sweep interval must be positive", ErrInvalidConfig)
	}
	return nil
}

// SweepTrigger runs the sweeper on a fixed interval.
// Overlapping in-process runs share one sweep. A sweep runs to completion
// regardless of which caller started it; only Stop cuts it short.
type SweepTrigger struct {
	config  SweepTriggerConfig
	sweeper Sweeper
	logger  *zap.Logger
	group   singleflight.Group

	// life is cancelled by Stop and bounds every sweep
	life       context.Context
	lifeCancel context.CancelFunc

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSweepTrigger creates a new sweep trigger
func NewSweepTrigger(config SweepTriggerConfig, sweeper Sweeper, logger *zap.Logger) (*SweepTrigger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	life, lifeCancel := context.WithCancel(context.Background())
	return &SweepTrigger{
		config:     config,
		sweeper:    sweeper,
		logger:     logger.Named("sweep_trigger"),
		life:       life,
		lifeCancel: lifeCancel,
	}, nil
}

// Start starts the trigger loop
func (t *SweepTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	if t.life.Err() != nil {
		t.life, t.lifeCancel = context.WithCancel(context.Background())
	}
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Sweep trigger started",
		zap.Duration("interval", t.config.Interval),
		zap.Bool("run_on_start", t.config.RunOnStart),
	)
	return nil
}

// Stop stops the trigger loop. An in-flight sweep is interrupted and waited for.
func (t *SweepTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	lifeCancel := t.lifeCancel
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	lifeCancel()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Sweep trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning returns whether the trigger loop is running
func (t *SweepTrigger) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isRunning
}

// Interval returns the configured interval
func (t *SweepTrigger) Interval() time.Duration {
	return t.config.Interval
}

// TriggerNow runs a sweep immediately, joining one already in flight.
// The sweep keeps the values of ctx but not its cancellation: when ctx is done
// the caller stops waiting and gets ctx.Err(), while the sweep carries on for
// everyone else sharing it.
func (t *SweepTrigger) TriggerNow(ctx context.Context) (*SweepReport, error) {
	ch := t.group.DoChan("sweep", func() (any, error) {
		return t.sweep(ctx), nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			t.logger.Debug("Sweep request joined an in-flight sweep")
		}
		report, _ := res.Val.(*SweepReport)
		return report, nil
	case <-ctx.Done():
		t.logger.Debug("Sweep caller stopped waiting", zap.Error(ctx.Err()))
		return nil, ctx.Err()
	}
}

func (t *SweepTrigger) sweep(ctx context.Context) *SweepReport {
	t.mu.Lock()
	life := t.life
	t.mu.Unlock()

	sweepCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()
	stop := context.AfterFunc(life, cancel)
	defer stop()

	return t.sweeper.Sweep(sweepCtx)
}

func (t *SweepTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	// The loop waits out its own sweep so Stop returns after it; Stop still
	// interrupts that sweep through the trigger lifetime.
	waitCtx := context.WithoutCancel(ctx)

	if t.config.RunOnStart {
		_, _ = t.TriggerNow(waitCtx)
	}

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = t.TriggerNow(waitCtx)
		}
	}
}
