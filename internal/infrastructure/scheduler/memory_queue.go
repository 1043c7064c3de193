package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MemoryQueueConfig holds in-process delay queue configuration
type MemoryQueueConfig struct {
	Workers    int
	BufferSize int
	JobTimeout time.Duration
	// DelayUnit is the length of one delay step. Production uses time.Second.
	DelayUnit time.Duration
}

// DefaultMemoryQueueConfig returns default in-process queue configuration
func DefaultMemoryQueueConfig() MemoryQueueConfig {
	return MemoryQueueConfig{
		Workers:    4,
		BufferSize: 100,
		JobTimeout: 30 * time.Second,
		DelayUnit:  time.Second,
	}
}

// Validate validates the configuration
func (c MemoryQueueConfig) Validate() error {
	if c.Workers <= 0 || c.BufferSize <= 0 || c.JobTimeout <= 0 || c.DelayUnit <= 0 {
		return fmt.Errorf("%w: memory queue workers, buffer, job timeout and delay unit must be positive", ErrInvalidConfig)
	}
	return nil
}

// MemoryDelayQueue arms one timer per job and hands fired jobs to a worker pool.
// Armed timers do not survive a restart; the next sweep re-schedules their records.
type MemoryDelayQueue struct {
	config  MemoryQueueConfig
	handler JobHandler
	logger  *zap.Logger

	jobs      chan *ActivationJob
	timers    map[string]*time.Timer
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewMemoryDelayQueue creates a new in-process delay queue
func NewMemoryDelayQueue(config MemoryQueueConfig, handler JobHandler, logger *zap.Logger) (*MemoryDelayQueue, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &MemoryDelayQueue{
		config:  config,
		handler: handler,
		logger:  logger.Named("memory_delay_queue"),
		timers:  make(map[string]*time.Timer),
	}, nil
}

// Start starts the worker pool
func (q *MemoryDelayQueue) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.isRunning {
		return nil
	}
	q.isRunning = true
	q.jobs = make(chan *ActivationJob, q.config.BufferSize)

	ctx, cancel := context.WithCancel(ctx)
	q.cancel = cancel

	for i := 0; i < q.config.Workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, q.jobs, i)
	}

	q.logger.Info("Memory delay queue started",
		zap.Int("workers", q.config.Workers),
		zap.Int("buffer_size", q.config.BufferSize),
		zap.Duration("job_timeout", q.config.JobTimeout),
	)
	return nil
}

// Stop disarms pending timers and waits for running jobs
func (q *MemoryDelayQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.isRunning {
		q.mu.Unlock()
		return nil
	}
	q.isRunning = false
	dropped := len(q.timers)
	for key, t := range q.timers {
		t.Stop()
		delete(q.timers, key)
	}
	close(q.jobs)
	q.mu.Unlock()

	if q.cancel != nil {
		q.cancel()
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.logger.Info("Memory delay queue stopped", zap.Int("disarmed_jobs", dropped))
		return nil
	case <-ctx.Done():
		q.logger.Warn("Memory delay queue stop timed out")
		return ctx.Err()
	}
}

// Push arms a timer that fires the job after delaySeconds delay units.
// A job with the same key already armed is left as is.
func (q *MemoryDelayQueue) Push(ctx context.Context, job *ActivationJob, delaySeconds int64) error {
	if err := job.Validate(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.isRunning {
		return ErrQueueNotRunning
	}

	key := job.Key()
	if _, armed := q.timers[key]; armed {
		return nil
	}
	delay := time.Duration(max(delaySeconds, 0)) * q.config.DelayUnit
	q.timers[key] = time.AfterFunc(delay, func() { q.fire(key, job) })

	q.logger.Debug("Activation job armed",
		zap.String("job", key),
		zap.Int64("delay_seconds", delaySeconds),
	)
	return nil
}

// Pending returns the number of armed timers
func (q *MemoryDelayQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.timers)
}

// IsRunning reports whether the queue accepts jobs
func (q *MemoryDelayQueue) IsRunning() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.isRunning
}

func (q *MemoryDelayQueue) fire(key string, job *ActivationJob) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.isRunning {
		return
	}
	delete(q.timers, key)

	select {
	case q.jobs <- job:
	default:
		q.logger.Warn("Activation job dropped, the next sweep will pick the record up",
			zap.String("job", key),
			zap.Error(ErrQueueFull),
		)
	}
}

func (q *MemoryDelayQueue) worker(ctx context.Context, jobs <-chan *ActivationJob, workerID int) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			q.process(ctx, job, workerID)
		}
	}
}

func (q *MemoryDelayQueue) process(ctx context.Context, job *ActivationJob, workerID int) {
	jobCtx, cancel := context.WithTimeout(ctx, q.config.JobTimeout)
	defer cancel()

	if err := runJob(jobCtx, q.handler, job); err != nil {
		q.logger.Error("Activation job failed",
			zap.Int("worker_id", workerID),
			zap.String("job", job.Key()),
			zap.Error(err),
		)
	}
}

// runJob calls the handler and turns a panic into an error
func runJob(ctx context.Context, handler JobHandler, job *ActivationJob) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("activation job panic: %v", rec)
		}
	}()
	return handler.Handle(ctx, job)
}
