package marketing

import (
	"strings"
	"time"

	"github.com/mall/backend/internal/domain/shared"
)

// SeckillActivity groups seckill sessions. It has no clock of its own; its status
// follows its children.
type SeckillActivity struct {
	shared.BaseAggregateRoot
	Lifecycle
	Name        string
	Description string
}

// NewSeckillActivity creates a pending activity
func NewSeckillActivity(name, description string, enabled bool) (*SeckillActivity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "activity name is required")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "activity name cannot exceed 200 characters")
	}
	return &SeckillActivity{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Lifecycle:         newLifecycle(enabled),
		Name:              name,
		Description:       description,
	}, nil
}

// Start moves the activity from pending to active
func (a *SeckillActivity) Start(at time.Time) error {
	from := a.Status
	if err := a.start(KindSeckillActivity, a.ID, at); err != nil {
		return err
	}
	a.record(EventTypeSeckillActivityStarted, from, "", at)
	return nil
}

// End moves the activity from active to ended
func (a *SeckillActivity) End(at time.Time) error {
	from := a.Status
	if err := a.moveTo(KindSeckillActivity, a.ID, StatusEnded, at); err != nil {
		return err
	}
	a.record(EventTypeSeckillActivityEnded, from, "", at)
	return nil
}

// Cancel takes the activity out of automated control
func (a *SeckillActivity) Cancel(reason string, at time.Time) error {
	from := a.Status
	if err := a.cancel(KindSeckillActivity, a.ID, reason, at); err != nil {
		return err
	}
	a.record(EventTypeSeckillActivityCancelled, from, reason, at)
	return nil
}

// SetEnabled toggles the operator enable flag
func (a *SeckillActivity) SetEnabled(enabled bool, at time.Time) {
	a.Enabled = enabled
	a.Touch(at)
}

func (a *SeckillActivity) record(eventType string, from Status, reason string, at time.Time) {
	a.Touch(at)
	a.AddDomainEvent(NewCampaignStatusChangedEvent(eventType, AggregateTypeSeckillActivity,
		KindSeckillActivity, a.ID, from, a.Status, reason, at))
}
