package marketing

import (
	"context"

	"github.com/mall/backend/internal/domain/marketing"
	"github.com/mall/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SeckillActivityService handles seckill activity transitions
type SeckillActivityService struct {
	repo           marketing.SeckillActivityRepository
	ops            transitionOps[*marketing.SeckillActivity]
	clock          shared.Clock
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewSeckillActivityService creates a new SeckillActivityService
func NewSeckillActivityService(repo marketing.SeckillActivityRepository, clock shared.Clock, logger *zap.Logger) *SeckillActivityService {
	return &SeckillActivityService{
		repo: repo,
		ops: transitionOps[*marketing.SeckillActivity]{
			load: repo.FindByID,
			save: repo.SaveWithLock,
		},
		clock:  clock,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SeckillActivityService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetByID returns an activity
func (s *SeckillActivityService) GetByID(ctx context.Context, id int64) (*SeckillActivityResponse, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSeckillActivityResponse(activity)
	return &resp, nil
}

// Start activates a pending activity
func (s *SeckillActivityService) Start(ctx context.Context, id int64) error {
	now := s.clock.Now()
	activity, err := s.ops.apply(ctx, id, marketing.StatusActive, func(a *marketing.SeckillActivity) error {
		return a.Start(now)
	})
	if err != nil {
		return err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, activity)
	return nil
}

// End terminates an active activity
func (s *SeckillActivityService) End(ctx context.Context, id int64) error {
	now := s.clock.Now()
	activity, err := s.ops.apply(ctx, id, marketing.StatusEnded, func(a *marketing.SeckillActivity) error {
		return a.End(now)
	})
	if err != nil {
		return err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, activity)
	return nil
}

// Cancel puts an activity under operator protection. Its sessions are left as they are.
func (s *SeckillActivityService) Cancel(ctx context.Context, id int64, req CancelRequest) (*SeckillActivityResponse, error) {
	now := s.clock.Now()
	activity, err := s.ops.apply(ctx, id, marketing.StatusCancelled, func(a *marketing.SeckillActivity) error {
		return a.Cancel(req.Reason, now)
	})
	if err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, activity)
	resp := ToSeckillActivityResponse(activity)
	return &resp, nil
}
