package event

import (
	"context"

	"github.com/mall/backend/internal/domain/marketing"
	"github.com/mall/backend/internal/domain/shared"
	applog "github.com/mall/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// MarketingEventTypes lists every campaign status change event
func MarketingEventTypes() []string {
	return []string{
		marketing.EventTypeSeckillSessionStarted,
		marketing.EventTypeSeckillSessionEnded,
		marketing.EventTypeSeckillSessionCancelled,
		marketing.EventTypeSeckillSessionSoldOut,
		marketing.EventTypeSeckillActivityStarted,
		marketing.EventTypeSeckillActivityEnded,
		marketing.EventTypeSeckillActivityCancelled,
		marketing.EventTypeGroupBuyStarted,
		marketing.EventTypeGroupBuyEnded,
		marketing.EventTypeGroupBuyCancelled,
		marketing.EventTypeGroupBuySoldOut,
	}
}

// CampaignAuditHandler writes one audit log line per campaign status change
type CampaignAuditHandler struct {
	logger *zap.Logger
}

// NewCampaignAuditHandler creates a new CampaignAuditHandler
func NewCampaignAuditHandler(logger *zap.Logger) *CampaignAuditHandler {
	return &CampaignAuditHandler{logger: logger.Named("campaign_audit")}
}

// EventTypes implements shared.EventHandler
func (h *CampaignAuditHandler) EventTypes() []string {
	return MarketingEventTypes()
}

// Handle implements shared.EventHandler
func (h *CampaignAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*marketing.CampaignStatusChangedEvent)
	if !ok {
		h.logger.Warn("Unexpected event payload", zap.String("event_type", event.EventType()))
		return nil
	}

	fields := append([]zap.Field{
		zap.String("event_id", changed.EventID().String()),
		zap.String("kind", changed.Kind),
		zap.Int64("id", changed.AggregateID()),
		zap.String("from", changed.FromStatus.String()),
		zap.String("to", changed.ToStatus.String()),
		zap.Time("at", changed.OccurredAt()),
	}, applog.Fields(ctx)...)
	if changed.Reason != "" {
		fields = append(fields, zap.String("reason", changed.Reason))
	}
	h.logger.Info("Campaign status changed", fields...)
	return nil
}

var _ shared.EventHandler = (*CampaignAuditHandler)(nil)
