package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelaySeconds(t *testing.T) {
	tests := []struct {
		name   string
		offset time.Duration
		want   int64
	}{
		{"exact minutes", 10 * time.Minute, 600},
		{"one millisecond rounds up", time.Millisecond, 1},
		{"fraction rounds up", 90*time.Second + 200*time.Millisecond, 91},
		{"exact second", time.Second, 1},
		{"lookahead edge", 30 * time.Minute, 1800},
		{"equal", 0, 0},
		{"past fraction is not rounded away from zero", -1500 * time.Millisecond, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DelaySeconds(testNow.Add(tt.offset), testNow))
		})
	}
}

func TestDelaySeconds_PositiveForFutureStarts(t *testing.T) {
	for ns := int64(1); ns < int64(5*time.Second); ns += int64(137 * time.Millisecond) {
		start := testNow.Add(time.Duration(ns))
		delay := DelaySeconds(start, testNow)
		assert.Positive(t, delay)
		assert.False(t, testNow.Add(time.Duration(delay)*time.Second).Before(start),
			"job must not fire before start")
	}
}
