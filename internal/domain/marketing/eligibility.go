package marketing

// Transition names an automated forward move.
type Transition string

const (
	TransitionStart Transition = "start"
	TransitionEnd   Transition = "end"
)

// Target returns the status the transition leads to
func (t Transition) Target() Status {
	if t == TransitionStart {
		return StatusActive
	}
	return StatusEnded
}

// Eligible is the single guard every automated actor consults before moving a record.
//
//   - protected statuses (cancelled, sold_out) block every transition
//   - start requires pending and enabled
//   - end requires active; the enabled flag does not matter
func Eligible(status Status, enabled bool, t Transition) bool {
	if status.IsProtected() {
		return false
	}
	switch t {
	case TransitionStart:
		return status == StatusPending && enabled
	case TransitionEnd:
		return status == StatusActive
	}
	return false
}

// EligibleRecord applies Eligible to a Record
func EligibleRecord(r Record, t Transition) bool {
	return Eligible(r.GetStatus(), r.IsEnabled(), t)
}
