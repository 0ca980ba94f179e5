package coach

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"runcoach/internal/analysis"
)

// ErrNoAnalyzer is reported when a plan is requested before any data was loaded
var ErrNoAnalyzer = errors.New("no activity data loaded")

// SynthesisError is an unexpected fault raised while assembling a plan
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesizing plan: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

// Result is the outcome of GenerateWeeklyPlan. Plan and Synthesis are set only when Success is true.
type Result struct {
	Success      bool       `json:"success"`
	ErrorMessage string     `json:"error,omitempty"`
	Plan         *Plan      `json:"plan,omitempty"`
	Synthesis    *Synthesis `json:"synthesis,omitempty"`
	Err          error      `json:"-"`
}

// Engine produces weekly plans from an analyzer
type Engine struct {
	analyzer *analysis.Analyzer
	opts     Options

	mu  sync.Mutex // guards rng
	rng Random
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithOptions sets the weekly layout
func WithOptions(opts Options) EngineOption {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithRandom sets the random source used for optional rest days and easy-run variation
func WithRandom(rng Random) EngineOption {
	return func(e *Engine) {
		e.rng = rng
	}
}

// NewEngine creates an Engine. Without WithRandom the engine is seeded from the clock.
func NewEngine(a *analysis.Analyzer, opts ...EngineOption) *Engine {
	e := &Engine{
		analyzer: a,
		opts:     DefaultOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = NewRandom(uint64(time.Now().UnixNano()))
	}
	return e
}

// Options returns the engine's weekly layout
func (e *Engine) Options() Options {
	return e.opts
}

// GenerateWeeklyPlan synthesizes the athlete's state and lays out next week.
// It never panics or returns an error; failures are reported through Result.
func (e *Engine) GenerateWeeklyPlan(ctx context.Context) (res Result) {
	log := zerolog.Ctx(ctx)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := &SynthesisError{Err: fmt.Errorf("%v", r)}
			log.Error().Err(err).Msg("plan generation panicked")
			res = failure(err)
		}
	}()

	if e == nil || e.analyzer == nil {
		return failure(&SynthesisError{Err: ErrNoAnalyzer})
	}

	synth, err := Synthesize(ctx, e.analyzer)
	if err != nil {
		log.Warn().Err(err).Msg("synthesis aborted")
		var serr *SynthesisError
		if !errors.As(err, &serr) {
			serr = &SynthesisError{Err: err}
		}
		return failure(serr)
	}

	plan := e.buildPlan(synth)

	log.Debug().
		Str("week_type", string(plan.WeekType)).
		Str("fatigue", string(synth.CurrentState.Fatigue)).
		Str("readiness", string(synth.CurrentState.Readiness)).
		Float64("target_miles", plan.WeeklyTargetMiles).
		Dur("elapsed", time.Since(start)).
		Msg("weekly plan")

	return Result{
		Success:   true,
		Plan:      &plan,
		Synthesis: &synth,
	}
}

func (e *Engine) buildPlan(s Synthesis) Plan {
	e.mu.Lock()
	defer e.mu.Unlock()
	return BuildPlan(s, e.opts, e.rng)
}

func failure(err error) Result {
	return Result{
		Success:      false,
		ErrorMessage: err.Error(),
		Err:          err,
	}
}
