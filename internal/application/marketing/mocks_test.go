package marketing

import (
	"context"
	"time"

	"github.com/mall/backend/internal/domain/marketing"
	"github.com/mall/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockSeckillSessionRepository struct {
	mock.Mock
}

func (m *MockSeckillSessionRepository) FindByID(ctx context.Context, id int64) (*marketing.SeckillSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketing.SeckillSession), args.Error(1)
}

func (m *MockSeckillSessionRepository) FindPendingStartingBefore(ctx context.Context, deadline time.Time) ([]marketing.SeckillSession, error) {
	args := m.Called(ctx, deadline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketing.SeckillSession), args.Error(1)
}

func (m *MockSeckillSessionRepository) FindActiveEndedBefore(ctx context.Context, now time.Time) ([]marketing.SeckillSession, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketing.SeckillSession), args.Error(1)
}

func (m *MockSeckillSessionRepository) FindByActivityID(ctx context.Context, activityID int64) ([]marketing.SeckillSession, error) {
	args := m.Called(ctx, activityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketing.SeckillSession), args.Error(1)
}

func (m *MockSeckillSessionRepository) Save(ctx context.Context, session *marketing.SeckillSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSeckillSessionRepository) SaveWithLock(ctx context.Context, session *marketing.SeckillSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

type MockSeckillActivityRepository struct {
	mock.Mock
}

func (m *MockSeckillActivityRepository) FindByID(ctx context.Context, id int64) (*marketing.SeckillActivity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketing.SeckillActivity), args.Error(1)
}

func (m *MockSeckillActivityRepository) FindPendingEnabled(ctx context.Context) ([]marketing.SeckillActivity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketing.SeckillActivity), args.Error(1)
}

func (m *MockSeckillActivityRepository) FindActive(ctx context.Context) ([]marketing.SeckillActivity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketing.SeckillActivity), args.Error(1)
}

func (m *MockSeckillActivityRepository) Save(ctx context.Context, activity *marketing.SeckillActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockSeckillActivityRepository) SaveWithLock(ctx context.Context, activity *marketing.SeckillActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

type MockGroupBuyActivityRepository struct {
	mock.Mock
}

func (m *MockGroupBuyActivityRepository) FindByID(ctx context.Context, id int64) (*marketing.GroupBuyActivity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketing.GroupBuyActivity), args.Error(1)
}

func (m *MockGroupBuyActivityRepository) FindPendingStartingBefore(ctx context.Context, deadline time.Time) ([]marketing.GroupBuyActivity, error) {
	args := m.Called(ctx, deadline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketing.GroupBuyActivity), args.Error(1)
}

func (m *MockGroupBuyActivityRepository) FindActiveEndedBefore(ctx context.Context, now time.Time) ([]marketing.GroupBuyActivity, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketing.GroupBuyActivity), args.Error(1)
}

func (m *MockGroupBuyActivityRepository) Save(ctx context.Context, activity *marketing.GroupBuyActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockGroupBuyActivityRepository) SaveWithLock(ctx context.Context, activity *marketing.GroupBuyActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
