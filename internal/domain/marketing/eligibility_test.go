package marketing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEligible(t *testing.T) {
	tests := []struct {
		name       string
		status     Status
		enabled    bool
		transition Transition
		want       bool
	}{
		{"pending enabled may start", StatusPending, true, TransitionStart, true},
		{"pending disabled may not start", StatusPending, false, TransitionStart, false},
		{"active may not start again", StatusActive, true, TransitionStart, false},
		{"ended may not start", StatusEnded, true, TransitionStart, false},
		{"cancelled may not start", StatusCancelled, true, TransitionStart, false},
		{"sold out may not start", StatusSoldOut, true, TransitionStart, false},
		{"active may end", StatusActive, true, TransitionEnd, true},
		{"disabled active may still end", StatusActive, false, TransitionEnd, true},
		{"pending may not end", StatusPending, true, TransitionEnd, false},
		{"cancelled may not end", StatusCancelled, true, TransitionEnd, false},
		{"sold out may not end", StatusSoldOut, false, TransitionEnd, false},
		{"unknown transition", StatusPending, true, Transition("pause"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Eligible(tt.status, tt.enabled, tt.transition))
		})
	}
}

func TestTransition_Target(t *testing.T) {
	assert.Equal(t, StatusActive, TransitionStart.Target())
	assert.Equal(t, StatusEnded, TransitionEnd.Target())
}
