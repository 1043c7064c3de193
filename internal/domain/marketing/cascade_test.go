package marketing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubRecord struct {
	id      int64
	status  Status
	enabled bool
}

func (r stubRecord) GetID() int64      { return r.id }
func (r stubRecord) GetStatus() Status { return r.status }
func (r stubRecord) IsEnabled() bool   { return r.enabled }

func children(statuses ...Status) []Record {
	out := make([]Record, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, stubRecord{id: int64(i + 1), status: s, enabled: true})
	}
	return out
}

func TestShouldCascadeStart(t *testing.T) {
	tests := []struct {
		name     string
		parent   stubRecord
		children []Record
		want     bool
	}{
		{"one active child", stubRecord{1, StatusPending, true}, children(StatusPending, StatusActive), true},
		{"no active child", stubRecord{1, StatusPending, true}, children(StatusPending, StatusEnded), false},
		{"no children", stubRecord{1, StatusPending, true}, nil, false},
		{"parent disabled", stubRecord{1, StatusPending, false}, children(StatusActive), false},
		{"parent cancelled", stubRecord{1, StatusCancelled, true}, children(StatusActive), false},
		{"parent already active", stubRecord{1, StatusActive, true}, children(StatusActive), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldCascadeStart(tt.parent, tt.children))
		})
	}
}

func TestShouldCascadeEnd(t *testing.T) {
	active := stubRecord{1, StatusActive, true}
	tests := []struct {
		name         string
		parent       stubRecord
		children     []Record
		endWhenEmpty bool
		want         bool
	}{
		{"all ended", active, children(StatusEnded, StatusEnded), false, true},
		{"ended and cancelled", active, children(StatusEnded, StatusCancelled), false, true},
		{"one still active", active, children(StatusEnded, StatusActive), false, false},
		{"one still pending", active, children(StatusPending, StatusEnded), false, false},
		{"sold out child holds parent", active, children(StatusEnded, StatusSoldOut), false, false},
		{"no children default", active, nil, false, false},
		{"no children vacuous end", active, nil, true, true},
		{"parent sold out", stubRecord{1, StatusSoldOut, true}, children(StatusEnded), false, false},
		{"parent pending", stubRecord{1, StatusPending, true}, children(StatusEnded), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldCascadeEnd(tt.parent, tt.children, tt.endWhenEmpty))
		})
	}
}
