package marketing

import (
	"context"

	"github.com/mall/backend/internal/domain/marketing"
	"github.com/mall/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SeckillSessionService handles seckill session transitions
type SeckillSessionService struct {
	repo           marketing.SeckillSessionRepository
	ops            transitionOps[*marketing.SeckillSession]
	clock          shared.Clock
	logger         *zap.Logger
	eventPublisher shared.EventPublisher
}

// NewSeckillSessionService creates a new SeckillSessionService
func NewSeckillSessionService(repo marketing.SeckillSessionRepository, clock shared.Clock, logger *zap.Logger) *SeckillSessionService {
	return &SeckillSessionService{
		repo: repo,
		ops: transitionOps[*marketing.SeckillSession]{
			load: repo.FindByID,
			save: repo.SaveWithLock,
		},
		clock:  clock,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SeckillSessionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetByID returns a session
func (s *SeckillSessionService) GetByID(ctx context.Context, id int64) (*SeckillSessionResponse, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSeckillSessionResponse(session)
	return &resp, nil
}

// Start activates a pending session. Already active is a no-op.
func (s *SeckillSessionService) Start(ctx context.Context, id int64) error {
	now := s.clock.Now()
	session, err := s.ops.apply(ctx, id, marketing.StatusActive, func(sess *marketing.SeckillSession) error {
		return sess.Start(now)
	})
	if err != nil {
		return err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, session)
	return nil
}

// End terminates an active session. Already ended is a no-op.
func (s *SeckillSessionService) End(ctx context.Context, id int64) error {
	now := s.clock.Now()
	session, err := s.ops.apply(ctx, id, marketing.StatusEnded, func(sess *marketing.SeckillSession) error {
		return sess.End(now)
	})
	if err != nil {
		return err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, session)
	return nil
}

// Cancel puts a session under operator protection
func (s *SeckillSessionService) Cancel(ctx context.Context, id int64, req CancelRequest) (*SeckillSessionResponse, error) {
	now := s.clock.Now()
	session, err := s.ops.apply(ctx, id, marketing.StatusCancelled, func(sess *marketing.SeckillSession) error {
		return sess.Cancel(req.Reason, now)
	})
	if err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, session)
	resp := ToSeckillSessionResponse(session)
	return &resp, nil
}

// MarkSoldOut records that an active session ran out of stock. Already sold
// out is a no-op.
func (s *SeckillSessionService) MarkSoldOut(ctx context.Context, id int64) (*SeckillSessionResponse, error) {
	now := s.clock.Now()
	session, err := s.ops.apply(ctx, id, marketing.StatusSoldOut, func(sess *marketing.SeckillSession) error {
		return sess.MarkSoldOut(now)
	})
	if err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, session)
	resp := ToSeckillSessionResponse(session)
	return &resp, nil
}

// SetEnabled toggles whether the session may be started automatically
func (s *SeckillSessionService) SetEnabled(ctx context.Context, id int64, enabled bool) (*SeckillSessionResponse, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Enabled != enabled {
		session.SetEnabled(enabled, s.clock.Now())
		if err := s.repo.SaveWithLock(ctx, session); err != nil {
			return nil, err
		}
	}
	resp := ToSeckillSessionResponse(session)
	return &resp, nil
}
