package marketing

import (
	"time"

	"github.com/mall/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeSeckillSession  = "SeckillSession"
	AggregateTypeSeckillActivity = "SeckillActivity"
	AggregateTypeGroupBuy        = "GroupBuyActivity"
)

// Event type constants
const (
	EventTypeSeckillSessionStarted   = "SeckillSessionStarted"
	EventTypeSeckillSessionEnded     = "SeckillSessionEnded"
	EventTypeSeckillSessionCancelled = "SeckillSessionCancelled"
	EventTypeSeckillSessionSoldOut   = "SeckillSessionSoldOut"

	EventTypeSeckillActivityStarted   = "SeckillActivityStarted"
	EventTypeSeckillActivityEnded     = "SeckillActivityEnded"
	EventTypeSeckillActivityCancelled = "SeckillActivityCancelled"

	EventTypeGroupBuyStarted   = "GroupBuyActivityStarted"
	EventTypeGroupBuyEnded     = "GroupBuyActivityEnded"
	EventTypeGroupBuyCancelled = "GroupBuyActivityCancelled"
	EventTypeGroupBuySoldOut   = "GroupBuyActivitySoldOut"
)

// CampaignStatusChangedEvent is raised whenever a campaign container changes status
type CampaignStatusChangedEvent struct {
	shared.BaseDomainEvent
	Kind       string `json:"kind"`
	FromStatus Status `json:"from_status"`
	ToStatus   Status `json:"to_status"`
	Reason     string `json:"reason,omitempty"`
}

// NewCampaignStatusChangedEvent creates a status change event
func NewCampaignStatusChangedEvent(eventType, aggType, kind string, id int64, from, to Status, reason string, at time.Time) *CampaignStatusChangedEvent {
	return &CampaignStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, aggType, id, at),
		Kind:            kind,
		FromStatus:      from,
		ToStatus:        to,
		Reason:          reason,
	}
}
