package analysis

import (
	"math"
	"strconv"
	"time"

	"runcoach/internal/activity"
)

const (
	metersPerMile = activity.MetersPerMile
	feetPerMeter  = activity.FeetPerMeter
	day           = 24 * time.Hour
)

// Standard lookback windows
var Timeframes = []int{7, 30, 90}

// PeriodStats summarises every run in a lookback window
type PeriodStats struct {
	Days                   int      `json:"days"`
	Runs                   int      `json:"runs"`
	TotalMiles             float64  `json:"total_miles"`
	AvgMilesPerRun         float64  `json:"avg_miles_per_run"`
	TotalTime              int      `json:"total_time"` // seconds
	AvgPace                string   `json:"avg_pace"`
	AvgPaceSeconds         float64  `json:"avg_pace_seconds"` // per mile, 0 if undefined
	TotalElevationFeet     int      `json:"total_elevation_feet"`
	AvgElevationPerRunFeet int      `json:"avg_elevation_per_run_feet"`
	AvgHeartRate           *float64 `json:"avg_heart_rate"`
	AvgSufferScore         *float64 `json:"avg_suffer_score"`
	TotalSufferScore       float64  `json:"total_suffer_score"`
}

// EmptyPeriodStats is the explicit no-data record for a window
func EmptyPeriodStats(days int) PeriodStats {
	return PeriodStats{
		Days:    days,
		AvgPace: NoPace,
	}
}

// StatsForPeriod aggregates runs that started within the last `days` days
func (a *Analyzer) StatsForPeriod(days int) PeriodStats {
	if days <= 0 {
		return EmptyPeriodStats(days)
	}

	now := a.now()
	cutoff := now.Add(-time.Duration(days) * day)

	var period []activity.Activity
	for _, act := range a.activities {
		if !act.StartDate.Before(cutoff) {
			period = append(period, act)
		}
	}

	return summarize(days, period)
}

// MultiTimeframeStats returns StatsForPeriod for the 7, 30 and 90 day windows keyed by "7d", "30d", "90d"
func (a *Analyzer) MultiTimeframeStats() map[string]PeriodStats {
	out := make(map[string]PeriodStats, len(Timeframes))
	for _, days := range Timeframes {
		out[TimeframeKey(days)] = a.StatsForPeriod(days)
	}
	return out
}

// TimeframeKey returns the map key used for a window, e.g. "30d"
func TimeframeKey(days int) string {
	return strconv.Itoa(days) + "d"
}

func summarize(days int, period []activity.Activity) PeriodStats {
	if len(period) == 0 {
		return EmptyPeriodStats(days)
	}

	var totalDistance, totalElevation float64
	var totalTime int
	var hrSum, sufferSum float64
	var hrCount, sufferCount int

	for _, act := range period {
		totalDistance += act.Distance
		totalTime += act.MovingTime
		totalElevation += act.TotalElevationGain

		if act.HasHeartrate() {
			hrSum += *act.AverageHeartrate
			hrCount++
		}
		if act.HasSufferScore() {
			sufferSum += *act.SufferScore
			sufferCount++
		}
	}

	runs := len(period)
	totalMiles := totalDistance / metersPerMile
	elevationFeet := totalElevation * feetPerMeter

	stats := PeriodStats{
		Days:                   days,
		Runs:                   runs,
		TotalMiles:             totalMiles,
		AvgMilesPerRun:         totalMiles / float64(runs),
		TotalTime:              totalTime,
		AvgPace:                NoPace,
		TotalElevationFeet:     int(math.Round(elevationFeet)),
		AvgElevationPerRunFeet: int(math.Round(elevationFeet / float64(runs))),
		TotalSufferScore:       sufferSum,
	}

	if pace := paceSeconds(totalTime, totalDistance); pace > 0 {
		stats.AvgPaceSeconds = pace
		stats.AvgPace = FormatPace(pace)
	}
	if hrCount > 0 {
		stats.AvgHeartRate = floatPtr(hrSum / float64(hrCount))
	}
	if sufferCount > 0 {
		stats.AvgSufferScore = floatPtr(sufferSum / float64(sufferCount))
	}

	return stats
}
