package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	marketingapp "github.com/mall/backend/internal/application/marketing"
	"github.com/mall/backend/internal/infrastructure/scheduler"
	"github.com/mall/backend/internal/interfaces/http/dto"
)

// SweepRunner runs sweeps on demand and reports trigger state
type SweepRunner interface {
	TriggerNow(ctx context.Context) (*scheduler.SweepReport, error)
	IsRunning() bool
	Interval() time.Duration
}

// ReportSource exposes the most recent sweep report
type ReportSource interface {
	LastReport() *scheduler.SweepReport
}

// SeckillSessionAdmin is the session service surface used by the admin API
type SeckillSessionAdmin interface {
	GetByID(ctx context.Context, id int64) (*marketingapp.SeckillSessionResponse, error)
	Cancel(ctx context.Context, id int64, req marketingapp.CancelRequest) (*marketingapp.SeckillSessionResponse, error)
	MarkSoldOut(ctx context.Context, id int64) (*marketingapp.SeckillSessionResponse, error)
	SetEnabled(ctx context.Context, id int64, enabled bool) (*marketingapp.SeckillSessionResponse, error)
}

// SeckillActivityAdmin is the activity service surface used by the admin API
type SeckillActivityAdmin interface {
	GetByID(ctx context.Context, id int64) (*marketingapp.SeckillActivityResponse, error)
	Cancel(ctx context.Context, id int64, req marketingapp.CancelRequest) (*marketingapp.SeckillActivityResponse, error)
}

// GroupBuyAdmin is the group-buy service surface used by the admin API
type GroupBuyAdmin interface {
	GetByID(ctx context.Context, id int64) (*marketingapp.GroupBuyResponse, error)
	Cancel(ctx context.Context, id int64, req marketingapp.CancelRequest) (*marketingapp.GroupBuyResponse, error)
	MarkSoldOut(ctx context.Context, id int64) (*marketingapp.GroupBuyResponse, error)
	SetEnabled(ctx context.Context, id int64, enabled bool) (*marketingapp.GroupBuyResponse, error)
}

// MarketingHandler serves the marketing admin endpoints
type MarketingHandler struct {
	BaseHandler
	sweeps     SweepRunner
	reports    ReportSource
	sessions   SeckillSessionAdmin
	activities SeckillActivityAdmin
	groupBuys  GroupBuyAdmin
}

// NewMarketingHandler creates a new MarketingHandler
func NewMarketingHandler(
	sweeps SweepRunner,
	reports ReportSource,
	sessions SeckillSessionAdmin,
	activities SeckillActivityAdmin,
	groupBuys GroupBuyAdmin,
) *MarketingHandler {
	return &MarketingHandler{
		sweeps:     sweeps,
		reports:    reports,
		sessions:   sessions,
		activities: activities,
		groupBuys:  groupBuys,
	}
}

// ReconcileStatusResponse describes the sweep trigger
type ReconcileStatusResponse struct {
	Running    bool                   `json:"running"`
	Interval   string                 `json:"interval"`
	LastReport *scheduler.SweepReport `json:"last_report,omitempty"`
}

// Reconcile runs a sweep now and returns its report. It works whether or
// not the periodic trigger is running. A caller that gives up early leaves
// the sweep running; its report shows up on the status endpoint.
// POST /marketing/reconcile
func (h *MarketingHandler) Reconcile(c *gin.Context) {
	report, err := h.sweeps.TriggerNow(c.Request.Context())
	if err != nil {
		h.Unavailable(c, "Sweep is still running, see /marketing/reconcile/status for its report")
		return
	}
	h.Success(c, report)
}

// ReconcileStatus reports whether the trigger is running and the last sweep.
// GET /marketing/reconcile/status
func (h *MarketingHandler) ReconcileStatus(c *gin.Context) {
	h.Success(c, ReconcileStatusResponse{
		Running:    h.sweeps.IsRunning(),
		Interval:   h.sweeps.Interval().String(),
		LastReport: h.reports.LastReport(),
	})
}

// GetSeckillSession GET /marketing/seckill/sessions/:id
func (h *MarketingHandler) GetSeckillSession(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.sessions.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CancelSeckillSession POST /marketing/seckill/sessions/:id/cancel
func (h *MarketingHandler) CancelSeckillSession(c *gin.Context) {
	id, req, ok := h.bindCancel(c)
	if !ok {
		return
	}
	resp, err := h.sessions.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkSeckillSessionSoldOut POST /marketing/seckill/sessions/:id/sold-out
func (h *MarketingHandler) MarkSeckillSessionSoldOut(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.sessions.MarkSoldOut(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetSeckillSessionEnabled PUT /marketing/seckill/sessions/:id/enabled
func (h *MarketingHandler) SetSeckillSessionEnabled(c *gin.Context) {
	id, enabled, ok := h.bindEnabled(c)
	if !ok {
		return
	}
	resp, err := h.sessions.SetEnabled(c.Request.Context(), id, enabled)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetSeckillActivity GET /marketing/seckill/activities/:id
func (h *MarketingHandler) GetSeckillActivity(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.activities.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CancelSeckillActivity POST /marketing/seckill/activities/:id/cancel
func (h *MarketingHandler) CancelSeckillActivity(c *gin.Context) {
	id, req, ok := h.bindCancel(c)
	if !ok {
		return
	}
	resp, err := h.activities.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetGroupBuy GET /marketing/group-buys/:id
func (h *MarketingHandler) GetGroupBuy(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.groupBuys.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CancelGroupBuy POST /marketing/group-buys/:id/cancel
func (h *MarketingHandler) CancelGroupBuy(c *gin.Context) {
	id, req, ok := h.bindCancel(c)
	if !ok {
		return
	}
	resp, err := h.groupBuys.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkGroupBuySoldOut POST /marketing/group-buys/:id/sold-out
func (h *MarketingHandler) MarkGroupBuySoldOut(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	resp, err := h.groupBuys.MarkSoldOut(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetGroupBuyEnabled PUT /marketing/group-buys/:id/enabled
func (h *MarketingHandler) SetGroupBuyEnabled(c *gin.Context) {
	id, enabled, ok := h.bindEnabled(c)
	if !ok {
		return
	}
	resp, err := h.groupBuys.SetEnabled(c.Request.Context(), id, enabled)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// bindCancel accepts an empty body as a cancel without a reason
func (h *MarketingHandler) bindCancel(c *gin.Context) (int64, marketingapp.CancelRequest, bool) {
	var req marketingapp.CancelRequest
	id, ok := h.bindID(c)
	if !ok {
		return 0, req, false
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.ErrorWithCode(c, dto.ErrCodeInvalidJSON, err.Error())
			return 0, req, false
		}
	}
	return id, req, true
}

func (h *MarketingHandler) bindEnabled(c *gin.Context) (int64, bool, bool) {
	id, ok := h.bindID(c)
	if !ok {
		return 0, false, false
	}
	var req marketingapp.SetEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return 0, false, false
	}
	return id, *req.Enabled, true
}
