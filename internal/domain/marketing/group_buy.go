package marketing

import (
	"strings"
	"time"

	"github.com/mall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// GroupBuyActivity is a standalone group-buy campaign with its own time window.
type GroupBuyActivity struct {
	shared.BaseAggregateRoot
	Lifecycle
	Name       string
	ProductID  int64
	GroupSize  int
	GroupPrice decimal.Decimal
	StartTime  time.Time
	EndTime    time.Time
}

// NewGroupBuyActivity creates a pending group-buy activity
func NewGroupBuyActivity(name string, productID int64, groupSize int, groupPrice decimal.Decimal, start, end time.Time, enabled bool) (*GroupBuyActivity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "group buy name is required")
	}
	if groupSize < 2 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "group size must be at least 2")
	}
	if !groupPrice.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "group price must be positive")
	}
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}
	return &GroupBuyActivity{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Lifecycle:         newLifecycle(enabled),
		Name:              name,
		ProductID:         productID,
		GroupSize:         groupSize,
		GroupPrice:        groupPrice,
		StartTime:         start,
		EndTime:           end,
	}, nil
}

// GetStartTime returns the activity start
func (g *GroupBuyActivity) GetStartTime() time.Time { return g.StartTime }

// GetEndTime returns the activity end
func (g *GroupBuyActivity) GetEndTime() time.Time { return g.EndTime }

// Start moves the activity from pending to active
func (g *GroupBuyActivity) Start(at time.Time) error {
	from := g.Status
	if err := g.start(KindGroupBuy, g.ID, at); err != nil {
		return err
	}
	g.record(EventTypeGroupBuyStarted, from, "", at)
	return nil
}

// End moves the activity from active to ended
func (g *GroupBuyActivity) End(at time.Time) error {
	from := g.Status
	if err := g.moveTo(KindGroupBuy, g.ID, StatusEnded, at); err != nil {
		return err
	}
	g.record(EventTypeGroupBuyEnded, from, "", at)
	return nil
}

// Cancel takes the activity out of automated control
func (g *GroupBuyActivity) Cancel(reason string, at time.Time) error {
	from := g.Status
	if err := g.cancel(KindGroupBuy, g.ID, reason, at); err != nil {
		return err
	}
	g.record(EventTypeGroupBuyCancelled, from, reason, at)
	return nil
}

// MarkSoldOut records inventory exhaustion
func (g *GroupBuyActivity) MarkSoldOut(at time.Time) error {
	from := g.Status
	if err := g.moveTo(KindGroupBuy, g.ID, StatusSoldOut, at); err != nil {
		return err
	}
	g.record(EventTypeGroupBuySoldOut, from, "", at)
	return nil
}

// SetEnabled toggles the operator enable flag
func (g *GroupBuyActivity) SetEnabled(enabled bool, at time.Time) {
	g.Enabled = enabled
	g.Touch(at)
}

func (g *GroupBuyActivity) record(eventType string, from Status, reason string, at time.Time) {
	g.Touch(at)
	g.AddDomainEvent(NewCampaignStatusChangedEvent(eventType, AggregateTypeGroupBuy,
		KindGroupBuy, g.ID, from, g.Status, reason, at))
}
