package marketing

import (
	"time"

	"github.com/mall/backend/internal/domain/marketing"
	"github.com/shopspring/decimal"
)

// CancelRequest carries the operator's cancel reason
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// SetEnabledRequest toggles the enable flag
type SetEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// LifecycleResponse holds the status fields shared by every campaign response
type LifecycleResponse struct {
	Status       string     `json:"status"`
	IsEnabled    bool       `json:"is_enabled"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason string     `json:"cancel_reason,omitempty"`
}

// SeckillSessionResponse represents a seckill session
type SeckillSessionResponse struct {
	ID         int64 `json:"id"`
	ActivityID int64 `json:"activity_id"`
	LifecycleResponse
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SeckillActivityResponse represents a seckill activity
type SeckillActivityResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	LifecycleResponse
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroupBuyResponse represents a group-buy activity
type GroupBuyResponse struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	ProductID  int64           `json:"product_id"`
	GroupSize  int             `json:"group_size"`
	GroupPrice decimal.Decimal `json:"group_price"`
	LifecycleResponse
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toLifecycleResponse(l marketing.Lifecycle) LifecycleResponse {
	return LifecycleResponse{
		Status:       string(l.Status),
		IsEnabled:    l.Enabled,
		StartedAt:    l.StartedAt,
		EndedAt:      l.EndedAt,
		CancelledAt:  l.CancelledAt,
		CancelReason: l.CancelReason,
	}
}

// ToSeckillSessionResponse converts a domain session
func ToSeckillSessionResponse(s *marketing.SeckillSession) SeckillSessionResponse {
	return SeckillSessionResponse{
		ID:                s.ID,
		ActivityID:        s.ActivityID,
		LifecycleResponse: toLifecycleResponse(s.Lifecycle),
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
		Version:           s.Version,
		UpdatedAt:         s.UpdatedAt,
	}
}

// ToSeckillActivityResponse converts a domain activity
func ToSeckillActivityResponse(a *marketing.SeckillActivity) SeckillActivityResponse {
	return SeckillActivityResponse{
		ID:                a.ID,
		Name:              a.Name,
		Description:       a.Description,
		LifecycleResponse: toLifecycleResponse(a.Lifecycle),
		Version:           a.Version,
		UpdatedAt:         a.UpdatedAt,
	}
}

// ToGroupBuyResponse converts a domain group-buy activity
func ToGroupBuyResponse(g *marketing.GroupBuyActivity) GroupBuyResponse {
	return GroupBuyResponse{
		ID:                g.ID,
		Name:              g.Name,
		ProductID:         g.ProductID,
		GroupSize:         g.GroupSize,
		GroupPrice:        g.GroupPrice,
		LifecycleResponse: toLifecycleResponse(g.Lifecycle),
		StartTime:         g.StartTime,
		EndTime:           g.EndTime,
		Version:           g.Version,
		UpdatedAt:         g.UpdatedAt,
	}
}
