package marketing

// Status is the lifecycle state shared by every campaign container.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusEnded     Status = "ended"
	StatusCancelled Status = "cancelled"
	StatusSoldOut   Status = "sold_out"
)

// AllStatuses returns the closed status vocabulary
func AllStatuses() []Status {
	return []Status{StatusPending, StatusActive, StatusEnded, StatusCancelled, StatusSoldOut}
}

// IsValid checks if the status is a valid value
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusEnded, StatusCancelled, StatusSoldOut:
		return true
	}
	return false
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// IsProtected reports whether the status was set by an operator or by inventory
// exhaustion. Automated passes never move a protected record.
func (s Status) IsProtected() bool {
	return s == StatusCancelled || s == StatusSoldOut
}

// IsFinished reports whether a child session no longer holds its parent open
func (s Status) IsFinished() bool {
	return s == StatusEnded || s == StatusCancelled
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusEnded || s == StatusCancelled || s == StatusSoldOut
}

// CanTransitionTo checks if transition to target status is valid
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusActive || target == StatusCancelled
	case StatusActive:
		return target == StatusEnded || target == StatusCancelled || target == StatusSoldOut
	}
	return false
}
