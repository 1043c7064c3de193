package marketing

import (
	"context"
	"errors"

	"github.com/mall/backend/internal/domain/marketing"
	"github.com/mall/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// lifecycleAggregate is what every campaign aggregate exposes to the transition helper
type lifecycleAggregate interface {
	GetStatus() marketing.Status
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

type transitionOps[T lifecycleAggregate] struct {
	load func(ctx context.Context, id int64) (T, error)
	save func(ctx context.Context, agg T) error
}

// apply loads the aggregate, runs mutate and persists it under the optimistic lock.
//
// Already being in target is a no-op, so a late activation job or an overlapping
// sweep never fails. A lock conflict whose winner reached target is treated the same way.
func (o transitionOps[T]) apply(ctx context.Context, id int64, target marketing.Status, mutate func(T) error) (T, error) {
	agg, err := o.load(ctx, id)
	if err != nil {
		return agg, err
	}
	if agg.GetStatus() == target {
		return agg, nil
	}
	if err := mutate(agg); err != nil {
		return agg, err
	}
	if err := o.save(ctx, agg); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			if current, lerr := o.load(ctx, id); lerr == nil && current.GetStatus() == target {
				return current, nil
			}
		}
		return agg, err
	}
	return agg, nil
}

// publishEvents publishes and clears pending events. Publish failures are logged
// and never undo the persisted transition.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, agg lifecycleAggregate) {
	events := agg.GetDomainEvents()
	if publisher != nil && len(events) > 0 {
		if err := publisher.Publish(ctx, events...); err != nil {
			logger.Warn("Failed to publish campaign events",
				zap.Int("event_count", len(events)),
				zap.Error(err))
		}
	}
	agg.ClearDomainEvents()
}
