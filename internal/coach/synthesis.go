package coach

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"runcoach/internal/analysis"
)

// Fatigue is estimated from recent weekly suffer scores
type Fatigue string

const (
	FatigueLow      Fatigue = "low"
	FatigueModerate Fatigue = "moderate"
	FatigueHigh     Fatigue = "high"
)

// Readiness compares the current week's mileage to the recent weekly average
type Readiness string

const (
	ReadinessWellRested Readiness = "well_rested"
	ReadinessNormal     Readiness = "normal"
	ReadinessHighLoad   Readiness = "high_load"
)

// Phase describes where the athlete is in a training cycle
type Phase string

const (
	PhaseBuilding   Phase = "building"
	PhaseRecovering Phase = "recovering"
	PhasePeaked     Phase = "peaked"
)

// Experience levels by average weekly mileage
const (
	LevelAdvanced     = "Advanced"
	LevelIntermediate = "Intermediate"
	LevelBeginnerPlus = "Beginner+"
	LevelBeginner     = "Beginner"
)

const (
	// stateWeeks is how many recent weeks drive fatigue and phase
	stateWeeks = 3
	// patternWeeks is how many recent weeks are reported as training patterns
	patternWeeks = 4

	weeksPerMonth = 30.0 / 7
)

// AthleteProfile is the long-lived picture of the runner
type AthleteProfile struct {
	ExperienceLevel   string  `json:"experience_level"`
	ConsistencyLevel  string  `json:"consistency_level"`
	PreferredDistance string  `json:"preferred_distance"`
	MonthlyMiles      float64 `json:"monthly_miles"`
	WeeklyMiles       float64 `json:"weekly_miles"`
}

// RecentPerformance holds the windowed aggregates
type RecentPerformance struct {
	Last7Days        analysis.PeriodStats       `json:"last_7_days"`
	Last30Days       analysis.PeriodStats       `json:"last_30_days"`
	Last90Days       analysis.PeriodStats       `json:"last_90_days"`
	Streaks          analysis.Streaks           `json:"streaks"`
	PaceDistribution *analysis.PaceDistribution `json:"pace_distribution"`
}

// TrainingPatterns holds the recent week classification and effort mix
type TrainingPatterns struct {
	RecentWeeks        []analysis.WeekSummary       `json:"recent_weeks"`
	EffortDistribution *analysis.EffortDistribution `json:"effort_distribution"`
	Consistency        analysis.Consistency         `json:"consistency"`
}

// CurrentState is the derived fatigue and readiness that select the week type
type CurrentState struct {
	Phase     Phase     `json:"phase"`
	Fatigue   Fatigue   `json:"fatigue"`
	Readiness Readiness `json:"readiness"`
}

// Synthesis is everything the plan builder needs, computed once per plan
type Synthesis struct {
	GeneratedAt       time.Time         `json:"generated_at"`
	AthleteProfile    AthleteProfile    `json:"athlete_profile"`
	RecentPerformance RecentPerformance `json:"recent_performance"`
	TrainingPatterns  TrainingPatterns  `json:"training_patterns"`
	CurrentState      CurrentState      `json:"current_state"`
}

// Synthesize gathers the analyzer's statistics into a Synthesis. The period
// windows and the weekly breakdown are independent and computed concurrently.
func Synthesize(ctx context.Context, a *analysis.Analyzer) (Synthesis, error) {
	var (
		last7, last30, last90 analysis.PeriodStats
		weeks                 []analysis.WeekSummary
		streaks               analysis.Streaks
		consistency           analysis.Consistency
		pace                  *analysis.PaceDistribution
		effort                *analysis.EffortDistribution
		distance              analysis.DistanceDistribution
	)

	g, gctx := errgroup.WithContext(ctx)
	window := func(days int, dst *analysis.PeriodStats) func() error {
		return guarded(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			*dst = a.StatsForPeriod(days)
			return nil
		})
	}
	g.Go(window(7, &last7))
	g.Go(window(30, &last30))
	g.Go(window(90, &last90))
	g.Go(guarded(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		weeks = a.WeeklyBreakdown(analysis.DefaultWeekCount)
		return nil
	}))
	g.Go(guarded(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		streaks = a.RunningStreaks()
		consistency = a.ConsistencyMetrics()
		pace = a.PaceDistribution()
		effort = a.EffortDistribution()
		distance = a.DistanceDistribution()
		return nil
	}))
	if err := g.Wait(); err != nil {
		return Synthesis{}, err
	}

	weekly := last30.TotalMiles / weeksPerMonth
	recent := weeks
	if len(recent) > patternWeeks {
		recent = recent[:patternWeeks]
	}

	return Synthesis{
		GeneratedAt: a.Now(),
		AthleteProfile: AthleteProfile{
			ExperienceLevel:   ExperienceLevel(weekly),
			ConsistencyLevel:  consistency.PaceConsistency,
			PreferredDistance: distance.FavoriteDistance,
			MonthlyMiles:      last30.TotalMiles,
			WeeklyMiles:       weekly,
		},
		RecentPerformance: RecentPerformance{
			Last7Days:        last7,
			Last30Days:       last30,
			Last90Days:       last90,
			Streaks:          streaks,
			PaceDistribution: pace,
		},
		TrainingPatterns: TrainingPatterns{
			RecentWeeks:        recent,
			EffortDistribution: effort,
			Consistency:        consistency,
		},
		CurrentState: AssessState(weeks, last30),
	}, nil
}

// guarded reports a panic in fn as a SynthesisError. The engine's own
// recover does not reach errgroup goroutines.
func guarded(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &SynthesisError{Err: fmt.Errorf("%v", r)}
			}
		}()
		return fn()
	}
}

// ExperienceLevel buckets average weekly mileage
func ExperienceLevel(weeklyMiles float64) string {
	switch {
	case weeklyMiles > 40:
		return LevelAdvanced
	case weeklyMiles > 25:
		return LevelIntermediate
	case weeklyMiles > 15:
		return LevelBeginnerPlus
	default:
		return LevelBeginner
	}
}

// AssessState derives phase, fatigue and readiness. weeks must be most recent first.
func AssessState(weeks []analysis.WeekSummary, last30 analysis.PeriodStats) CurrentState {
	recent := weeks
	if len(recent) > stateWeeks {
		recent = recent[:stateWeeks]
	}

	var high, recovery int
	for _, w := range recent {
		switch w.Type {
		case analysis.WeekHigh:
			high++
		case analysis.WeekRecovery:
			recovery++
		}
	}

	phase := PhaseBuilding
	if recovery >= 2 {
		phase = PhaseRecovering
	}
	if high >= 2 {
		phase = PhasePeaked
	}

	var current float64
	if len(weeks) > 0 {
		current = weeks[0].Miles
	}

	return CurrentState{
		Phase:     phase,
		Fatigue:   EstimateFatigue(recent),
		Readiness: EstimateReadiness(current, last30.TotalMiles/weeksPerMonth),
	}
}

// EstimateFatigue classifies the mean suffer score of the given weeks
func EstimateFatigue(weeks []analysis.WeekSummary) Fatigue {
	if len(weeks) == 0 {
		return FatigueLow
	}
	var sum float64
	for _, w := range weeks {
		sum += w.SufferScore
	}
	avg := sum / float64(len(weeks))

	switch {
	case avg > 180:
		return FatigueHigh
	case avg > 120:
		return FatigueModerate
	default:
		return FatigueLow
	}
}

// EstimateReadiness compares this week's miles to the average week.
// Without a baseline the athlete is considered normal.
func EstimateReadiness(currentWeekMiles, avgWeekMiles float64) Readiness {
	if avgWeekMiles <= 0 {
		return ReadinessNormal
	}
	ratio := currentWeekMiles / avgWeekMiles
	switch {
	case ratio > 1.2:
		return ReadinessHighLoad
	case ratio < 0.7:
		return ReadinessWellRested
	default:
		return ReadinessNormal
	}
}
