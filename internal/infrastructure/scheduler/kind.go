package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/mall/backend/internal/domain/marketing"
)

// Transitioner performs the status changes the reconciler decides on
type Transitioner interface {
	Start(ctx context.Context, id int64) error
	End(ctx context.Context, id int64) error
}

// CampaignSource finds the records of one campaign kind that own a time window
type CampaignSource interface {
	// FindPendingStartingBefore returns enabled pending records with start_time <= deadline
	FindPendingStartingBefore(ctx context.Context, deadline time.Time) ([]marketing.TimedRecord, error)
	// FindActiveEndedBefore returns active records with end_time < now
	FindActiveEndedBefore(ctx context.Context, now time.Time) ([]marketing.TimedRecord, error)
	FindByID(ctx context.Context, id int64) (marketing.Record, error)
}

// ParentSource finds parent records whose status follows their children
type ParentSource interface {
	FindPendingEnabled(ctx context.Context) ([]marketing.Record, error)
	FindActive(ctx context.Context) ([]marketing.Record, error)
	FindChildren(ctx context.Context, parentID int64) ([]marketing.Record, error)
}

// Cascade describes a parent kind driven by the children of a CampaignKind
type Cascade struct {
	Name        string
	Source      ParentSource
	Transitions Transitioner
}

// CampaignKind is the capability set one campaign type registers with the reconciler
type CampaignKind struct {
	Name        string
	Source      CampaignSource
	Transitions Transitioner
	Cascade     *Cascade
}

func (k CampaignKind) validate() error {
	if k.Name == "" || k.Source == nil || k.Transitions == nil {
		return fmt.Errorf("%w: campaign kind %q is incomplete", ErrInvalidConfig, k.Name)
	}
	if c := k.Cascade; c != nil && (c.Name == "" || c.Source == nil || c.Transitions == nil) {
		return fmt.Errorf("%w: cascade of %q is incomplete", ErrInvalidConfig, k.Name)
	}
	return nil
}

// KindRegistry holds the registered campaign kinds in registration order
type KindRegistry struct {
	kinds  []CampaignKind
	byName map[string]int
}

// NewKindRegistry validates and registers the given kinds
func NewKindRegistry(kinds ...CampaignKind) (*KindRegistry, error) {
	r := &KindRegistry{byName: make(map[string]int, len(kinds))}
	for _, k := range kinds {
		if err := k.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byName[k.Name]; dup {
			return nil, fmt.Errorf("%w: campaign kind %q registered twice", ErrInvalidConfig, k.Name)
		}
		r.byName[k.Name] = len(r.kinds)
		r.kinds = append(r.kinds, k)
	}
	return r, nil
}

// Kinds returns the registered kinds
func (r *KindRegistry) Kinds() []CampaignKind {
	return r.kinds
}

// Get returns the kind registered under name
func (r *KindRegistry) Get(name string) (CampaignKind, bool) {
	i, ok := r.byName[name]
	if !ok {
		return CampaignKind{}, false
	}
	return r.kinds[i], true
}

// Names returns the registered kind names
func (r *KindRegistry) Names() []string {
	names := make([]string, 0, len(r.kinds))
	for _, k := range r.kinds {
		names = append(names, k.Name)
	}
	return names
}
