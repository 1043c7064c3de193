package marketing

import (
	"context"
	"time"
)

// SeckillSessionRepository defines the persistence contract for seckill sessions
type SeckillSessionRepository interface {
	FindByID(ctx context.Context, id int64) (*SeckillSession, error)
	// FindPendingStartingBefore returns enabled pending sessions with start_time <= deadline.
	// Overdue sessions are included so the sweep can activate them directly.
	FindPendingStartingBefore(ctx context.Context, deadline time.Time) ([]SeckillSession, error)
	// FindActiveEndedBefore returns active sessions with end_time < now
	FindActiveEndedBefore(ctx context.Context, now time.Time) ([]SeckillSession, error)
	FindByActivityID(ctx context.Context, activityID int64) ([]SeckillSession, error)
	Save(ctx context.Context, session *SeckillSession) error
	// SaveWithLock persists changes guarded by the optimistic lock version
	SaveWithLock(ctx context.Context, session *SeckillSession) error
}

// SeckillActivityRepository defines the persistence contract for seckill activities
type SeckillActivityRepository interface {
	FindByID(ctx context.Context, id int64) (*SeckillActivity, error)
	FindPendingEnabled(ctx context.Context) ([]SeckillActivity, error)
	FindActive(ctx context.Context) ([]SeckillActivity, error)
	Save(ctx context.Context, activity *SeckillActivity) error
	SaveWithLock(ctx context.Context, activity *SeckillActivity) error
}

// GroupBuyActivityRepository defines the persistence contract for group-buy activities
type GroupBuyActivityRepository interface {
	FindByID(ctx context.Context, id int64) (*GroupBuyActivity, error)
	FindPendingStartingBefore(ctx context.Context, deadline time.Time) ([]GroupBuyActivity, error)
	FindActiveEndedBefore(ctx context.Context, now time.Time) ([]GroupBuyActivity, error)
	Save(ctx context.Context, activity *GroupBuyActivity) error
	SaveWithLock(ctx context.Context, activity *GroupBuyActivity) error
}
