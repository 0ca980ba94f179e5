package analysis

import (
	"math"
	"time"

	"runcoach/internal/activity"
)

// WeekType classifies a calendar week by training load
type WeekType string

const (
	WeekRest     WeekType = "rest"
	WeekHigh     WeekType = "high"
	WeekModerate WeekType = "moderate"
	WeekRecovery WeekType = "recovery"
	WeekBase     WeekType = "base"
)

// Classification thresholds
const (
	HighSufferScore     = 200
	ModerateSufferScore = 100
	RecoveryMaxRuns     = 2
	RecoveryMinMiles    = 10
)

// DefaultWeekCount is the number of weeks used for trend analysis
const DefaultWeekCount = 8

// WeekSummary aggregates one Sunday-aligned week [WeekStart, WeekEnd)
type WeekSummary struct {
	WeekStart       time.Time           `json:"week_start"`
	WeekEnd         time.Time           `json:"week_end"`
	Runs            int                 `json:"runs"`
	Miles           float64             `json:"miles"`
	TotalTime       int                 `json:"total_time"`
	AvgPace         string              `json:"avg_pace"`
	SufferScore     float64             `json:"suffer_score"`
	AvgHeartRate    *float64            `json:"avg_heart_rate"`
	ElevationFeet   int                 `json:"elevation_feet"`
	LongestRunMiles float64             `json:"longest_run_miles"`
	Type            WeekType            `json:"type"`
	Activities      []activity.Activity `json:"-"`
}

// ClassifyWeek assigns a week type. The checks run in priority order and the
// first match wins, so a week without runs is always rest.
func ClassifyWeek(w WeekSummary) WeekType {
	switch {
	case w.Runs == 0:
		return WeekRest
	case w.SufferScore > HighSufferScore:
		return WeekHigh
	case w.SufferScore > ModerateSufferScore:
		return WeekModerate
	case w.Runs <= RecoveryMaxRuns || w.Miles < RecoveryMinMiles:
		return WeekRecovery
	default:
		return WeekBase
	}
}

// WeeklyBreakdown summarises the trailing weekCount calendar weeks, most recent
// first. Index 0 is the current, possibly partial, week.
func (a *Analyzer) WeeklyBreakdown(weekCount int) []WeekSummary {
	if weekCount <= 0 {
		return nil
	}

	current := WeekStart(a.now())
	weeks := make([]WeekSummary, 0, weekCount)
	for i := 0; i < weekCount; i++ {
		weeks = append(weeks, a.week(current.AddDate(0, 0, -7*i)))
	}
	return weeks
}

// ThisWeek summarises the current week so far
func (a *Analyzer) ThisWeek() WeekSummary {
	return a.week(WeekStart(a.now()))
}

func (a *Analyzer) week(start time.Time) WeekSummary {
	end := start.AddDate(0, 0, 7)
	w := summarizeWeek(start, end, a.between(start, end))
	w.Type = ClassifyWeek(w)
	return w
}

func summarizeWeek(start, end time.Time, acts []activity.Activity) WeekSummary {
	w := WeekSummary{
		WeekStart:  start,
		WeekEnd:    end,
		Runs:       len(acts),
		AvgPace:    NoPace,
		Activities: acts,
	}
	if len(acts) == 0 {
		return w
	}

	var distance, elevation, longest, hrSum float64
	var hrCount int
	for _, act := range acts {
		distance += act.Distance
		elevation += act.TotalElevationGain
		w.TotalTime += act.MovingTime
		if act.HasSufferScore() {
			w.SufferScore += *act.SufferScore
		}
		if act.HasHeartrate() {
			hrSum += *act.AverageHeartrate
			hrCount++
		}
		if act.Distance > longest {
			longest = act.Distance
		}
	}

	w.Miles = distance / metersPerMile
	w.ElevationFeet = int(math.Round(elevation * feetPerMeter))
	w.LongestRunMiles = longest / metersPerMile
	if pace := paceSeconds(w.TotalTime, distance); pace > 0 {
		w.AvgPace = FormatPace(pace)
	}
	if hrCount > 0 {
		w.AvgHeartRate = floatPtr(hrSum / float64(hrCount))
	}
	return w
}

// BestWorstWeeks returns the highest and lowest mileage weeks among the trailing
// weekCount weeks. Ties keep the more recent week. ok is false when weekCount <= 0.
func (a *Analyzer) BestWorstWeeks(weekCount int) (best, worst WeekSummary, ok bool) {
	weeks := a.WeeklyBreakdown(weekCount)
	if len(weeks) == 0 {
		return WeekSummary{}, WeekSummary{}, false
	}

	best, worst = weeks[0], weeks[0]
	for _, w := range weeks[1:] {
		if w.Miles > best.Miles {
			best = w
		}
		if w.Miles < worst.Miles {
			worst = w
		}
	}
	return best, worst, true
}
