package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/mall/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisQueueConfig holds Redis delay queue configuration
type RedisQueueConfig struct {
	// Key is the sorted set holding due times
	Key          string
	PollInterval time.Duration
	BatchSize    int64
	JobTimeout   time.Duration
	// Workers run claimed jobs so one slow start does not hold up the batch
	Workers int
}

// DefaultRedisQueueConfig returns default Redis queue configuration
func DefaultRedisQueueConfig() RedisQueueConfig {
	return RedisQueueConfig{
		Key:          "mall:marketing:activation_jobs",
		PollInterval: time.Second,
		BatchSize:    100,
		JobTimeout:   30 * time.Second,
		Workers:      4,
	}
}

// Validate validates the configuration
func (c RedisQueueConfig) Validate() error {
	if c.Key == "" {
		return fmt.Errorf("%w: redis queue key is required", ErrInvalidConfig)
	}
	if c.PollInterval <= 0 || c.BatchSize <= 0 || c.JobTimeout <= 0 || c.Workers <= 0 {
		return fmt.Errorf("%w: redis queue poll interval, batch size, job timeout and workers must be positive", ErrInvalidConfig)
	}
	return nil
}

// RedisDelayQueue stores jobs in a sorted set scored by due time in unix milliseconds.
// Pollers claim a due member with ZREM; only the caller whose ZREM removed it runs the job,
// so several processes can poll the same key.
type RedisDelayQueue struct {
	client  *redis.Client
	config  RedisQueueConfig
	handler JobHandler
	clock   shared.Clock
	logger  *zap.Logger

	jobs      chan *ActivationJob
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewRedisDelayQueue creates a new Redis-backed delay queue
func NewRedisDelayQueue(client *redis.Client, config RedisQueueConfig, handler JobHandler, clock shared.Clock, logger *zap.Logger) (*RedisDelayQueue, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("%w: redis client is required", ErrInvalidConfig)
	}
	return &RedisDelayQueue{
		client:  client,
		config:  config,
		handler: handler,
		clock:   clock,
		logger:  logger.Named("redis_delay_queue"),
	}, nil
}

// Push stores the job due delaySeconds from now. Pushing an identical job again keeps
// the first due time.
func (q *RedisDelayQueue) Push(ctx context.Context, job *ActivationJob, delaySeconds int64) error {
	if err := job.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode activation job: %w", err)
	}
	due := q.clock.Now().Add(time.Duration(max(delaySeconds, 0)) * time.Second)

	if err := q.client.ZAddNX(ctx, q.config.Key, redis.Z{
		Score:  float64(due.UnixMilli()),
		Member: string(payload),
	}).Err(); err != nil {
		return fmt.Errorf("redis zadd: %w", err)
	}

	q.logger.Debug("Activation job stored",
		zap.String("job", job.Key()),
		zap.Time("due", due),
	)
	return nil
}

// Len returns the number of stored jobs
func (q *RedisDelayQueue) Len(ctx context.Context) (int64, error) {
	return q.client.ZCard(ctx, q.config.Key).Result()
}

// Start starts the poll loop
func (q *RedisDelayQueue) Start(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.isRunning {
		return nil
	}
	q.isRunning = true
	q.jobs = make(chan *ActivationJob, q.config.BatchSize)

	ctx, cancel := context.WithCancel(ctx)
	q.cancel = cancel

	for i := 0; i < q.config.Workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, q.jobs, i)
	}
	q.wg.Add(1)
	go q.pollLoop(ctx)

	q.logger.Info("Redis delay queue started",
		zap.String("key", q.config.Key),
		zap.Duration("poll_interval", q.config.PollInterval),
		zap.Int("workers", q.config.Workers),
	)
	return nil
}

// Stop stops the poll loop and the workers. Stored jobs stay in Redis, and
// claimed jobs no worker picked up are put back.
func (q *RedisDelayQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.isRunning {
		q.mu.Unlock()
		return nil
	}
	q.isRunning = false
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
	case <-ctx.Done():
		return ctx.Err()
	}

	q.mu.Lock()
	jobs := q.jobs
	q.jobs = nil
	q.mu.Unlock()

	requeued := 0
	for len(jobs) > 0 {
		job := <-jobs
		if err := q.Push(ctx, job, 0); err != nil {
			q.logger.Warn("Claimed activation job lost on stop, the next sweep will pick the record up",
				zap.String("job", job.Key()),
				zap.Error(err),
			)
			continue
		}
		requeued++
	}
	q.logger.Info("Redis delay queue stopped", zap.Int("requeued_jobs", requeued))
	return nil
}

// IsRunning reports whether the poll loop is running
func (q *RedisDelayQueue) IsRunning() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.isRunning
}

func (q *RedisDelayQueue) pollLoop(ctx context.Context) {
	defer q.wg.Done()

	ticker := time.NewTicker(q.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := q.PollOnce(ctx); err != nil && ctx.Err() == nil {
				q.logger.Warn("Redis delay queue poll failed", zap.Error(err))
			}
		}
	}
}

// PollOnce claims every job due now, up to the batch size, and hands each to
// the worker pool. Before Start there is no pool and the jobs run on the caller.
// It returns the number of jobs this caller claimed.
func (q *RedisDelayQueue) PollOnce(ctx context.Context) (int, error) {
	now := q.clock.Now()
	members, err := q.client.ZRangeByScore(ctx, q.config.Key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: q.config.BatchSize,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("redis zrangebyscore: %w", err)
	}

	claimed := 0
	for _, member := range members {
		removed, err := q.client.ZRem(ctx, q.config.Key, member).Result()
		if err != nil {
			return claimed, fmt.Errorf("redis zrem: %w", err)
		}
		if removed == 0 {
			continue
		}
		claimed++

		var job ActivationJob
		if err := json.Unmarshal([]byte(member), &job); err != nil {
			q.logger.Error("Discarding undecodable activation job",
				zap.String("member", member),
				zap.Error(err),
			)
			continue
		}
		if err := q.dispatch(ctx, &job); err != nil {
			return claimed, err
		}
	}
	return claimed, nil
}

// dispatch waits for room in the pool. A job claimed while the queue shuts
// down goes back to Redis.
func (q *RedisDelayQueue) dispatch(ctx context.Context, job *ActivationJob) error {
	q.mu.Lock()
	jobs := q.jobs
	q.mu.Unlock()

	if jobs == nil {
		q.run(ctx, job, -1)
		return nil
	}

	select {
	case jobs <- job:
		return nil
	case <-ctx.Done():
		putCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := q.Push(putCtx, job, 0); err != nil {
			q.logger.Warn("Claimed activation job lost on stop, the next sweep will pick the record up",
				zap.String("job", job.Key()),
				zap.Error(err),
			)
		}
		return ctx.Err()
	}
}

func (q *RedisDelayQueue) worker(ctx context.Context, jobs <-chan *ActivationJob, workerID int) {
	defer q.wg.Done()

	for ctx.Err() == nil {
		select {
		case <-ctx.Done():
			return
		case job := <-jobs:
			q.run(ctx, job, workerID)
		}
	}
}

func (q *RedisDelayQueue) run(ctx context.Context, job *ActivationJob, workerID int) {
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
