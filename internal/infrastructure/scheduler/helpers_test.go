package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/mall/backend/internal/domain/marketing"
	"github.com/mall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// memStore is an in-memory implementation of the three marketing repositories
type memStore struct {
	mu         sync.Mutex
	sessions   map[int64]*marketing.SeckillSession
	activities map[int64]*marketing.SeckillActivity
	groupBuys  map[int64]*marketing.GroupBuyActivity

	// finderErr makes the named finder fail
	finderErr map[string]error
	// leaky finders ignore status, simulating reads that raced a status change
	leaky bool
}

func newMemStore() *memStore {
	return &memStore{
		sessions:   make(map[int64]*marketing.SeckillSession),
		activities: make(map[int64]*marketing.SeckillActivity),
		groupBuys:  make(map[int64]*marketing.GroupBuyActivity),
		finderErr:  make(map[string]error),
	}
}

func (s *memStore) addSession(id, activityID int64, status marketing.Status, enabled bool, start, end time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &marketing.SeckillSession{ActivityID: activityID, StartTime: start, EndTime: end}
	sess.ID = id
	sess.Version = 1
	sess.Status = status
	sess.Enabled = enabled
	s.sessions[id] = sess
}

func (s *memStore) addActivity(id int64, status marketing.Status, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := &marketing.SeckillActivity{Name: "activity"}
	a.ID = id
	a.Version = 1
	a.Status = status
	a.Enabled = enabled
	s.activities[id] = a
}

func (s *memStore) addGroupBuy(id int64, status marketing.Status, enabled bool, start, end time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := &marketing.GroupBuyActivity{Name: "group buy", GroupSize: 2, GroupPrice: decimal.NewFromInt(9), StartTime: start, EndTime: end}
	g.ID = id
	g.Version = 1
	g.Status = status
	g.Enabled = enabled
	s.groupBuys[id] = g
}

func (s *memStore) sessionStatus(id int64) marketing.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id].Status
}

func (s *memStore) activityStatus(id int64) marketing.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activities[id].Status
}

func (s *memStore) groupBuyStatus(id int64) marketing.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groupBuys[id].Status
}

func (s *memStore) setStatus(kind string, id int64, status marketing.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case marketing.KindSeckillSession:
		s.sessions[id].Status = status
	case marketing.KindSeckillActivity:
		s.activities[id].Status = status
	case marketing.KindGroupBuy:
		s.groupBuys[id].Status = status
	}
}

func (s *memStore) failFinder(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finderErr[name] = err
}

func (s *memStore) finderFailure(name string) error {
	return s.finderErr[name]
}

func sortedKeys[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type memSessionRepo struct{ *memStore }

func (r memSessionRepo) FindByID(_ context.Context, id int64) (*marketing.SeckillSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r memSessionRepo) FindPendingStartingBefore(_ context.Context, deadline time.Time) ([]marketing.SeckillSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.finderFailure("sessions.pending"); err != nil {
		return nil, err
	}
	var out []marketing.SeckillSession
	for _, id := range sortedKeys(r.sessions) {
		s := r.sessions[id]
		if (r.leaky || s.Status == marketing.StatusPending && s.Enabled) && !s.StartTime.After(deadline) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r memSessionRepo) FindActiveEndedBefore(_ context.Context, now time.Time) ([]marketing.SeckillSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.finderFailure("sessions.expired"); err != nil {
		return nil, err
	}
	var out []marketing.SeckillSession
	for _, id := range sortedKeys(r.sessions) {
		s := r.sessions[id]
		if (r.leaky || s.Status == marketing.StatusActive) && s.EndTime.Before(now) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r memSessionRepo) FindByActivityID(_ context.Context, activityID int64) ([]marketing.SeckillSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []marketing.SeckillSession
	for _, id := range sortedKeys(r.sessions) {
		if s := r.sessions[id]; s.ActivityID == activityID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r memSessionRepo) Save(_ context.Context, s *marketing.SeckillSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r memSessionRepo) SaveWithLock(ctx context.Context, s *marketing.SeckillSession) error {
	return r.Save(ctx, s)
}

type memActivityRepo struct{ *memStore }

func (r memActivityRepo) FindByID(_ context.Context, id int64) (*marketing.SeckillActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.activities[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r memActivityRepo) filter(finder string, keep func(*marketing.SeckillActivity) bool) ([]marketing.SeckillActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.finderFailure(finder); err != nil {
		return nil, err
	}
	var out []marketing.SeckillActivity
	for _, id := range sortedKeys(r.activities) {
		if a := r.activities[id]; r.leaky || keep(a) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r memActivityRepo) FindPendingEnabled(_ context.Context) ([]marketing.SeckillActivity, error) {
	return r.filter("activities.pending", func(a *marketing.SeckillActivity) bool {
		return a.Status == marketing.StatusPending && a.Enabled
	})
}

func (r memActivityRepo) FindActive(_ context.Context) ([]marketing.SeckillActivity, error) {
	return r.filter("activities.active", func(a *marketing.SeckillActivity) bool {
		return a.Status == marketing.StatusActive
	})
}

func (r memActivityRepo) Save(_ context.Context, a *marketing.SeckillActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.activities[a.ID] = &cp
	return nil
}

func (r memActivityRepo) SaveWithLock(ctx context.Context, a *marketing.SeckillActivity) error {
	return r.Save(ctx, a)
}

type memGroupBuyRepo struct{ *memStore }

func (r memGroupBuyRepo) FindByID(_ context.Context, id int64) (*marketing.GroupBuyActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groupBuys[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r memGroupBuyRepo) FindPendingStartingBefore(_ context.Context, deadline time.Time) ([]marketing.GroupBuyActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.finderFailure("groupbuys.pending"); err != nil {
		return nil, err
	}
	var out []marketing.GroupBuyActivity
	for _, id := range sortedKeys(r.groupBuys) {
		g := r.groupBuys[id]
		if (r.leaky || g.Status == marketing.StatusPending && g.Enabled) && !g.StartTime.After(deadline) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r memGroupBuyRepo) FindActiveEndedBefore(_ context.Context, now time.Time) ([]marketing.GroupBuyActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []marketing.GroupBuyActivity
	for _, id := range sortedKeys(r.groupBuys) {
		g := r.groupBuys[id]
		if (r.leaky || g.Status == marketing.StatusActive) && g.EndTime.Before(now) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r memGroupBuyRepo) Save(_ context.Context, g *marketing.GroupBuyActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *g
	r.groupBuys[g.ID] = &cp
	return nil
}

func (r memGroupBuyRepo) SaveWithLock(ctx context.Context, g *marketing.GroupBuyActivity) error {
	return r.Save(ctx, g)
}

// fakeTransitions moves records in the store and records every call
type fakeTransitions struct {
	store *memStore
	kind  string

	mu      sync.Mutex
	starts  []int64
	ends    []int64
	failIDs map[int64]error
	panicID int64
}

func newFakeTransitions(store *memStore, kind string) *fakeTransitions {
	return &fakeTransitions{store: store, kind: kind, failIDs: make(map[int64]error)}
}

func (f *fakeTransitions) Start(_ context.Context, id int64) error {
	f.mu.Lock()
	f.starts = append(f.starts, id)
	f.mu.Unlock()
	if err := f.check(id); err != nil {
		return err
	}
	f.store.setStatus(f.kind, id, marketing.StatusActive)
	return nil
}

func (f *fakeTransitions) End(_ context.Context, id int64) error {
	f.mu.Lock()
	f.ends = append(f.ends, id)
	f.mu.Unlock()
	if err := f.check(id); err != nil {
		return err
	}
	f.store.setStatus(f.kind, id, marketing.StatusEnded)
	return nil
}

func (f *fakeTransitions) check(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == f.panicID {
		panic("transition exploded")
	}
	return f.failIDs[id]
}

func (f *fakeTransitions) Starts() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.starts...)
}

func (f *fakeTransitions) Ends() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.ends...)
}

type pushedJob struct {
	job   *ActivationJob
	delay int64
}

// recordingBackend records pushed jobs
type recordingBackend struct {
	mu   sync.Mutex
	jobs []pushedJob
	err  error
}

func (b *recordingBackend) Push(_ context.Context, job *ActivationJob, delaySeconds int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.jobs = append(b.jobs, pushedJob{job: job, delay: delaySeconds})
	return nil
}

func (b *recordingBackend) Pushed() []pushedJob {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]pushedJob(nil), b.jobs...)
}

// fixture wires the store, fakes and a reconciler
type fixture struct {
	store               *memStore
	sessionTransitions  *fakeTransitions
	activityTransitions *fakeTransitions
	groupBuyTransitions *fakeTransitions
	backend             *recordingBackend
	clock               *shared.ManualClock
	registry            *KindRegistry
	reconciler          *Reconciler
}

func newFixture(t *testing.T, config ReconcilerConfig) *fixture {
	t.Helper()
	store := newMemStore()
	f := &fixture{
		store:               store,
		sessionTransitions:  newFakeTransitions(store, marketing.KindSeckillSession),
		activityTransitions: newFakeTransitions(store, marketing.KindSeckillActivity),
		groupBuyTransitions: newFakeTransitions(store, marketing.KindGroupBuy),
		backend:             &recordingBackend{},
		clock:               shared.NewManualClock(testNow),
	}
	registry, err := NewKindRegistry(
		NewSeckillKind(memSessionRepo{store}, memActivityRepo{store}, f.sessionTransitions, f.activityTransitions),
		NewGroupBuyKind(memGroupBuyRepo{store}, f.groupBuyTransitions),
	)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	f.registry = registry
	f.reconciler, err = NewReconciler(config, registry, f.backend, f.clock, newTestLogger())
	if err != nil {
		t.Fatalf("reconciler: %v", err)
	}
	return f
}

var errTransient = errors.New("database unavailable")
