package scheduler

import (
	"context"
	"time"

	"github.com/mall/backend/internal/domain/marketing"
)

// NewSeckillKind registers seckill sessions with the activity cascade
func NewSeckillKind(
	sessions marketing.SeckillSessionRepository,
	activities marketing.SeckillActivityRepository,
	sessionTransitions Transitioner,
	activityTransitions Transitioner,
) CampaignKind {
	return CampaignKind{
		Name:        marketing.KindSeckillSession,
		Source:      &seckillSessionSource{repo: sessions},
		Transitions: sessionTransitions,
		Cascade: &Cascade{
			Name:        marketing.KindSeckillActivity,
			Source:      &seckillActivitySource{activities: activities, sessions: sessions},
			Transitions: activityTransitions,
		},
	}
}

// NewGroupBuyKind registers group-buy activities. They have no children.
func NewGroupBuyKind(repo marketing.GroupBuyActivityRepository, transitions Transitioner) CampaignKind {
	return CampaignKind{
		Name:        marketing.KindGroupBuy,
		Source:      &groupBuySource{repo: repo},
		Transitions: transitions,
	}
}

type seckillSessionSource struct {
	repo marketing.SeckillSessionRepository
}

func (s *seckillSessionSource) FindPendingStartingBefore(ctx context.Context, deadline time.Time) ([]marketing.TimedRecord, error) {
	sessions, err := s.repo.FindPendingStartingBefore(ctx, deadline)
	if err != nil {
		return nil, err
	}
	return toTimed(sessions), nil
}

func (s *seckillSessionSource) FindActiveEndedBefore(ctx context.Context, now time.Time) ([]marketing.TimedRecord, error) {
	sessions, err := s.repo.FindActiveEndedBefore(ctx, now)
	if err != nil {
		return nil, err
	}
	return toTimed(sessions), nil
}

func (s *seckillSessionSource) FindByID(ctx context.Context, id int64) (marketing.Record, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return session, nil
}

type seckillActivitySource struct {
	activities marketing.SeckillActivityRepository
	sessions   marketing.SeckillSessionRepository
}

func (s *seckillActivitySource) FindPendingEnabled(ctx context.Context) ([]marketing.Record, error) {
	activities, err := s.activities.FindPendingEnabled(ctx)
	if err != nil {
		return nil, err
	}
	return toRecords(activities), nil
}

func (s *seckillActivitySource) FindActive(ctx context.Context) ([]marketing.Record, error) {
	activities, err := s.activities.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return toRecords(activities), nil
}

func (s *seckillActivitySource) FindChildren(ctx context.Context, parentID int64) ([]marketing.Record, error) {
	sessions, err := s.sessions.FindByActivityID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return toRecords(sessions), nil
}

type groupBuySource struct {
	repo marketing.GroupBuyActivityRepository
}

func (s *groupBuySource) FindPendingStartingBefore(ctx context.Context, deadline time.Time) ([]marketing.TimedRecord, error) {
	items, err := s.repo.FindPendingStartingBefore(ctx, deadline)
	if err != nil {
		return nil, err
	}
	return toTimed(items), nil
}

func (s *groupBuySource) FindActiveEndedBefore(ctx context.Context, now time.Time) ([]marketing.TimedRecord, error) {
	items, err := s.repo.FindActiveEndedBefore(ctx, now)
	if err != nil {
		return nil, err
	}
	return toTimed(items), nil
}

func (s *groupBuySource) FindByID(ctx context.Context, id int64) (marketing.Record, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func toTimed[T any, P interface {
	*T
	marketing.TimedRecord
}](items []T) []marketing.TimedRecord {
	out := make([]marketing.TimedRecord, 0, len(items))
	for i := range items {
		out = append(out, P(&items[i]))
	}
	return out
}

func toRecords[T any, P interface {
	*T
	marketing.Record
}](items []T) []marketing.Record {
	out := make([]marketing.Record, 0, len(items))
	for i := range items {
		out = append(out, P(&items[i]))
	}
	return out
}
