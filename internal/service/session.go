package service

import (
	"context"
	"sync"
	"time"

	"runcoach/internal/activity"
	"runcoach/internal/analysis"
	"runcoach/internal/coach"
)

// SessionConfig describes how a session loads and analyzes activities
type SessionConfig struct {
	Fetcher activity.Fetcher
	Source  Source
	Load    activity.LoadOptions
	Zones   analysis.HRZones
	Coach   coach.Options
	// Random seeds plan generation; nil uses a clock-seeded source
	Random coach.Random
	// Now pins the clock for analysis; nil uses time.Now
	Now func() time.Time
}

// Session holds one loaded snapshot and the analyzer and engine built over it.
// Reload swaps all three together.
type Session struct {
	cfg SessionConfig

	mu       sync.RWMutex
	store    *activity.Store
	analyzer *analysis.Analyzer
	engine   *coach.Engine
	loadedAt time.Time
}

// NewSession performs the first load. A fetch failure returns no session.
func NewSession(ctx context.Context, cfg SessionConfig) (*Session, error) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Load.Now == nil {
		cfg.Load.Now = cfg.Now
	}
	if cfg.Zones == (analysis.HRZones{}) {
		cfg.Zones = analysis.DefaultZones()
	}

	s := &Session{cfg: cfg}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload fetches again and rebuilds the analyzer and engine. On failure the
// previous snapshot stays in place.
func (s *Session) Reload(ctx context.Context) error {
	st, err := activity.Load(ctx, s.cfg.Fetcher, s.cfg.Load)
	if err != nil {
		return err
	}

	a := analysis.New(st, analysis.WithClock(s.cfg.Now), analysis.WithHRZones(s.cfg.Zones))
	opts := []coach.EngineOption{coach.WithOptions(s.cfg.Coach)}
	if s.cfg.Random != nil {
		opts = append(opts, coach.WithRandom(s.cfg.Random))
	}
	e := coach.NewEngine(a, opts...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store, s.analyzer, s.engine = st, a, e
	s.loadedAt = s.cfg.Now()
	return nil
}

// Analyzer returns the current analyzer
func (s *Session) Analyzer() *analysis.Analyzer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analyzer
}

// Engine returns the current recommendation engine
func (s *Session) Engine() *coach.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// Plan generates a plan from the current snapshot
func (s *Session) Plan(ctx context.Context) coach.Result {
	return s.Engine().GenerateWeeklyPlan(ctx)
}

// PlanWithSeed generates a plan with a fresh source seeded with seed,
// leaving the session's own source untouched
func (s *Session) PlanWithSeed(ctx context.Context, seed uint64) coach.Result {
	e := coach.NewEngine(s.Analyzer(), coach.WithOptions(s.cfg.Coach), coach.WithRandom(coach.NewRandom(seed)))
	return e.GenerateWeeklyPlan(ctx)
}

// Runs returns the number of runs in the snapshot
func (s *Session) Runs() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Len()
}

// Source reports where the activities came from
func (s *Session) Source() Source {
	return s.cfg.Source
}

// LoadedAt returns when the snapshot was loaded
func (s *Session) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
