package scheduler

import "time"

// DelaySeconds returns ceil(startTime - now) in whole seconds.
// The result is positive whenever startTime is after now and is never clamped.
func DelaySeconds(startTime, now time.Time) int64 {
	d := startTime.Sub(now)
	secs := int64(d / time.Second)
	if d%time.Second > 0 {
		secs++
	}
	return secs
}
