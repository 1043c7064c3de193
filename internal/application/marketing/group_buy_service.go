package marketing

import (
	"context"

	"github.com/mall/backend/internal/domain/marketing"
	"github.com/mall/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// GroupBuyService handles group-buy activity transitions
type GroupBuyService struct {
	repo           marketing.GroupBuyActivityRepository
	ops            transitionOps[*marketing.GroupBuyActivity]
	clock          shared.Clock
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewGroupBuyService creates a new GroupBuyService
func NewGroupBuyService(repo marketing.GroupBuyActivityRepository, clock shared.Clock, logger *zap.Logger) *GroupBuyService {
	return &GroupBuyService{
		repo: repo,
		ops: transitionOps[*marketing.GroupBuyActivity]{
			load: repo.FindByID,
			save: repo.SaveWithLock,
		},
		clock:  clock,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *GroupBuyService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetByID returns a group-buy activity
func (s *GroupBuyService) GetByID(ctx context.Context, id int64) (*GroupBuyResponse, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToGroupBuyResponse(activity)
	return &resp, nil
}

// Start activates a pending group-buy activity
func (s *GroupBuyService) Start(ctx context.Context, id int64) error {
	now := s.clock.Now()
	activity, err := s.ops.apply(ctx, id, marketing.StatusActive, func(g *marketing.GroupBuyActivity) error {
		return g.Start(now)
	})
	if err != nil {
		return err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, activity)
	return nil
}

// End terminates an active group-buy activity
func (s *GroupBuyService) End(ctx context.Context, id int64) error {
	now := s.clock.Now()
	activity, err := s.ops.apply(ctx, id, marketing.StatusEnded, func(g *marketing.GroupBuyActivity) error {
		return g.End(now)
	})
	if err != nil {
		return err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, activity)
	return nil
}

// Cancel puts a group-buy activity under operator protection
func (s *GroupBuyService) Cancel(ctx context.Context, id int64, req CancelRequest) (*GroupBuyResponse, error) {
	now := s.clock.Now()
	activity, err := s.ops.apply(ctx, id, marketing.StatusCancelled, func(g *marketing.GroupBuyActivity) error {
		return g.Cancel(req.Reason, now)
	})
	if err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, activity)
	resp := ToGroupBuyResponse(activity)
	return &resp, nil
}

// MarkSoldOut records that an active group buy ran out of stock
func (s *GroupBuyService) MarkSoldOut(ctx context.Context, id int64) (*GroupBuyResponse, error) {
	now := s.clock.Now()
	activity, err := s.ops.apply(ctx, id, marketing.StatusSoldOut, func(g *marketing.GroupBuyActivity) error {
		return g.MarkSoldOut(now)
	})
	if err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, activity)
	resp := ToGroupBuyResponse(activity)
	return &resp, nil
}

// SetEnabled toggles whether the activity may be started automatically
func (s *GroupBuyService) SetEnabled(ctx context.Context, id int64, enabled bool) (*GroupBuyResponse, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if activity.Enabled != enabled {
		activity.SetEnabled(enabled, s.clock.Now())
		if err := s.repo.SaveWithLock(ctx, activity); err != nil {
			return nil, err
		}
	}
	resp := ToGroupBuyResponse(activity)
	return &resp, nil
}
