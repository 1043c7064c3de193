package scheduler

import "time"

// PassName identifies one reconciliation pass
type PassName string

const (
	PassScheduleOrActivate PassName = "schedule_or_activate"
	PassEndExpired         PassName = "end_expired"
	PassCascadeStart       PassName = "cascade_start"
	PassCascadeEnd         PassName = "cascade_end"
)

// PassReport counts what one pass did for one kind
type PassReport struct {
	Pass       PassName `json:"pass"`
	Kind       string   `json:"kind"`
	Candidates int      `json:"candidates"`
	Started    int      `json:"started"`
	Scheduled  int      `json:"scheduled"`
	Ended      int      `json:"ended"`
	Skipped    int      `json:"skipped"`
	Failed     int      `json:"failed"`
	// FinderError is set when the candidate query failed and the pass was skipped
	FinderError string `json:"finder_error,omitempty"`
}

// SweepReport summarises one reconciliation sweep
type SweepReport struct {
	ID          string        `json:"id"`
	Now         time.Time     `json:"now"`
	Duration    time.Duration `json:"duration"`
	Interrupted bool          `json:"interrupted,omitempty"`
	Passes      []*PassReport `json:"passes"`
}

func newSweepReport(id string, now time.Time) *SweepReport {
	return &SweepReport{ID: id, Now: now, Passes: make([]*PassReport, 0, 8)}
}

func (r *SweepReport) begin(pass PassName, kind string) *PassReport {
	p := &PassReport{Pass: pass, Kind: kind}
	r.Passes = append(r.Passes, p)
	return p
}

// Pass returns the report of the given pass and kind, or nil
func (r *SweepReport) Pass(pass PassName, kind string) *PassReport {
	for _, p := range r.Passes {
		if p.Pass == pass && p.Kind == kind {
			return p
		}
	}
	return nil
}

// Totals sums every pass
func (r *SweepReport) Totals() PassReport {
	var t PassReport
	for _, p := range r.Passes {
		t.Candidates += p.Candidates
		t.Started += p.Started
		t.Scheduled += p.Scheduled
		t.Ended += p.Ended
		t.Skipped += p.Skipped
		t.Failed += p.Failed
	}
	return t
}

// FinderFailures counts passes skipped because their finder failed
func (r *SweepReport) FinderFailures() int {
	n := 0
	for _, p := range r.Passes {
		if p.FinderError != "" {
			n++
		}
	}
	return n
}
