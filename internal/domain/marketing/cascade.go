package marketing

// ShouldCascadeStart reports whether a parent activity must be started because one of
// its sessions is already running.
func ShouldCascadeStart(parent Record, children []Record) bool {
	if !EligibleRecord(parent, TransitionStart) {
		return false
	}
	for _, c := range children {
		if c.GetStatus() == StatusActive {
			return true
		}
	}
	return false
}

// ShouldCascadeEnd reports whether a parent activity must be ended because every
// session is ended or cancelled. A parent without sessions is only ended when
// endWhenEmpty is set.
func ShouldCascadeEnd(parent Record, children []Record, endWhenEmpty bool) bool {
	if !EligibleRecord(parent, TransitionEnd) {
		return false
	}
	if len(children) == 0 {
		return endWhenEmpty
	}
	for _, c := range children {
		if !c.GetStatus().IsFinished() {
			return false
		}
	}
	return true
}
