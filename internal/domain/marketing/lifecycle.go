package marketing

import (
	"fmt"
	"time"

	"github.com/mall/backend/internal/domain/shared"
)

// Lifecycle holds the status fields common to every campaign container.
type Lifecycle struct {
	Status       Status
	Enabled      bool
	StartedAt    *time.Time
	EndedAt      *time.Time
	CancelledAt  *time.Time
	CancelReason string
}

func newLifecycle(enabled bool) Lifecycle {
	return Lifecycle{Status: StatusPending, Enabled: enabled}
}

// GetStatus returns the lifecycle status
func (l *Lifecycle) GetStatus() Status {
	return l.Status
}

// IsEnabled returns the operator enable flag
func (l *Lifecycle) IsEnabled() bool {
	return l.Enabled
}

func (l *Lifecycle) moveTo(kind string, id int64, target Status, at time.Time) error {
	if !l.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("cannot move %s %d from %s to %s", kind, id, l.Status, target))
	}
	switch target {
	case StatusActive:
		l.StartedAt = &at
	case StatusEnded, StatusSoldOut:
		l.EndedAt = &at
	case StatusCancelled:
		l.CancelledAt = &at
	}
	l.Status = target
	return nil
}

func (l *Lifecycle) start(kind string, id int64, at time.Time) error {
	if !l.Enabled {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("%s %d is disabled", kind, id))
	}
	return l.moveTo(kind, id, StatusActive, at)
}

func (l *Lifecycle) cancel(kind string, id int64, reason string, at time.Time) error {
	if err := l.moveTo(kind, id, StatusCancelled, at); err != nil {
		return err
	}
	l.CancelReason = reason
	return nil
}

func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return shared.NewDomainError(shared.CodeInvalidInput, "start and end time are required")
	}
	if !start.Before(end) {
		return shared.NewDomainError(shared.CodeInvalidInput, "start time must be before end time")
	}
	return nil
}
