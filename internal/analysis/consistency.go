package analysis

import (
	"math"
	"time"
)

// Pace consistency labels
const (
	ConsistencyHigh     = "High"
	ConsistencyModerate = "Moderate"
	ConsistencyLow      = "Low"
	ConsistencyUnknown  = "N/A"
)

// Consistency summarises how regularly and how evenly the athlete runs
type Consistency struct {
	RunsPerWeek30d  float64 `json:"runs_per_week_30d"`
	RunsPerWeek90d  float64 `json:"runs_per_week_90d"`
	PaceConsistency string  `json:"pace_consistency"`
	PaceStdDev      float64 `json:"pace_std_dev"` // min/mile, 0 when undefined
	TotalRuns90d    int     `json:"total_runs_90d"`
}

// ConsistencyMetrics computes runs per week over 30 and 90 days and classifies
// pace dispersion across all pace-eligible runs
func (a *Analyzer) ConsistencyMetrics() Consistency {
	now := a.now()
	runs30 := a.countSince(now.Add(-30 * day))
	runs90 := a.countSince(now.Add(-90 * day))

	c := Consistency{
		RunsPerWeek30d:  RunsPerWeek(runs30, 30),
		RunsPerWeek90d:  RunsPerWeek(runs90, 90),
		PaceConsistency: ConsistencyUnknown,
		TotalRuns90d:    runs90,
	}

	paces := a.paces()
	if len(paces) < 2 {
		return c
	}

	sd := stdDev(paces)
	c.PaceStdDev = sd
	switch {
	case sd < 0.5:
		c.PaceConsistency = ConsistencyHigh
	case sd < 1.0:
		c.PaceConsistency = ConsistencyModerate
	default:
		c.PaceConsistency = ConsistencyLow
	}
	return c
}

// RunsPerWeek divides a run count by the exact number of weeks in days,
// rounded to one decimal
func RunsPerWeek(runs, days int) float64 {
	if days <= 0 {
		return 0
	}
	return round1(float64(runs) / (float64(days) / 7))
}

func (a *Analyzer) countSince(cutoff time.Time) int {
	n := 0
	for _, act := range a.activities {
		if !act.StartDate.Before(cutoff) {
			n++
		}
	}
	return n
}

// stdDev is the population standard deviation
func stdDev(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(values)))
}
