package marketing

import (
	"time"

	"github.com/mall/backend/internal/domain/shared"
)

// SeckillSession is one flash-sale time slot inside a SeckillActivity.
type SeckillSession struct {
	shared.BaseAggregateRoot
	Lifecycle
	ActivityID int64
	StartTime  time.Time
	EndTime    time.Time
}

// NewSeckillSession creates a pending session for the activity
func NewSeckillSession(activityID int64, start, end time.Time, enabled bool) (*SeckillSession, error) {
	if activityID <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "activity id is required")
	}
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}
	return &SeckillSession{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Lifecycle:         newLifecycle(enabled),
		ActivityID:        activityID,
		StartTime:         start,
		EndTime:           end,
	}, nil
}

// GetStartTime returns the session start
func (s *SeckillSession) GetStartTime() time.Time { return s.StartTime }

// GetEndTime returns the session end
func (s *SeckillSession) GetEndTime() time.Time { return s.EndTime }

// Start moves the session from pending to active
func (s *SeckillSession) Start(at time.Time) error {
	from := s.Status
	if err := s.start(KindSeckillSession, s.ID, at); err != nil {
		return err
	}
	s.record(EventTypeSeckillSessionStarted, from, "", at)
	return nil
}

// End moves the session from active to ended
func (s *SeckillSession) End(at time.Time) error {
	from := s.Status
	if err := s.moveTo(KindSeckillSession, s.ID, StatusEnded, at); err != nil {
		return err
	}
	s.record(EventTypeSeckillSessionEnded, from, "", at)
	return nil
}

// Cancel takes the session out of automated control
func (s *SeckillSession) Cancel(reason string, at time.Time) error {
	from := s.Status
	if err := s.cancel(KindSeckillSession, s.ID, reason, at); err != nil {
		return err
	}
	s.record(EventTypeSeckillSessionCancelled, from, reason, at)
	return nil
}

// MarkSoldOut records inventory exhaustion of an active session
func (s *SeckillSession) MarkSoldOut(at time.Time) error {
	from := s.Status
	if err := s.moveTo(KindSeckillSession, s.ID, StatusSoldOut, at); err != nil {
		return err
	}
	s.record(EventTypeSeckillSessionSoldOut, from, "", at)
	return nil
}

// SetEnabled toggles the operator enable flag
func (s *SeckillSession) SetEnabled(enabled bool, at time.Time) {
	s.Enabled = enabled
	s.Touch(at)
}

func (s *SeckillSession) record(eventType string, from Status, reason string, at time.Time) {
	s.Touch(at)
	s.AddDomainEvent(NewCampaignStatusChangedEvent(eventType, AggregateTypeSeckillSession,
		KindSeckillSession, s.ID, from, s.Status, reason, at))
}
