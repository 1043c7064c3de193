package event

import (
	"context"
	"testing"

	"github.com/mall/backend/internal/domain/marketing"
	"github.com/mall/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCampaignAuditHandler_LogsStatusChange(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	bus := newStartedBus(t, zap.NewNop())
	bus.Subscribe(NewCampaignAuditHandler(zap.New(core)))

	event := marketing.NewCampaignStatusChangedEvent(marketing.EventTypeGroupBuyCancelled,
		marketing.AggregateTypeGroupBuy, marketing.KindGroupBuy, 12,
		marketing.StatusActive, marketing.StatusCancelled, "supplier withdrew", eventTime)
	require.NoError(t, bus.Publish(context.Background(), event))

	entries := recorded.FilterMessage("Campaign status changed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, marketing.KindGroupBuy, fields["kind"])
	assert.Equal(t, int64(12), fields["id"])
	assert.Equal(t, "active", fields["from"])
	assert.Equal(t, "cancelled", fields["to"])
	assert.Equal(t, "supplier withdrew", fields["reason"])
}

func TestCampaignAuditHandler_CoversEveryMarketingEvent(t *testing.T) {
	h := NewCampaignAuditHandler(zap.NewNop())
	assert.ElementsMatch(t, MarketingEventTypes(), h.EventTypes())
	assert.Len(t, h.EventTypes(), 11)
}

type foreignEvent struct {
	shared.BaseDomainEvent
}

func TestCampaignAuditHandler_IgnoresForeignPayload(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	h := NewCampaignAuditHandler(zap.New(core))

	err := h.Handle(context.Background(), &foreignEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(marketing.EventTypeSeckillSessionStarted, "Other", 1, eventTime),
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, recorded.FilterMessage("Unexpected event payload").Len())
}
