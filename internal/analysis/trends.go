package analysis

import (
	"math"
	"sort"
	"time"

	"runcoach/internal/activity"
)

// Training load status labels
const (
	LoadHigh     = "High"
	LoadModerate = "Moderate"
	LoadLow      = "Low"
)

// LoadComparison compares this week's mileage to the previous four weeks
type LoadComparison struct {
	Status       string  `json:"status"`
	Ratio        float64 `json:"ratio"`
	CurrentMiles float64 `json:"current_miles"`
	AvgMiles     float64 `json:"avg_miles"`
}

// TrainingLoad compares the current week to the mean of the four weeks before it.
// The ratio is 1 when those weeks have no mileage.
func (a *Analyzer) TrainingLoad() LoadComparison {
	weeks := a.WeeklyBreakdown(5)

	var prev float64
	for _, w := range weeks[1:] {
		prev += w.Miles
	}
	avg := prev / float64(len(weeks)-1)

	lc := LoadComparison{
		Ratio:        1,
		CurrentMiles: weeks[0].Miles,
		AvgMiles:     avg,
	}
	if avg > 0 {
		lc.Ratio = lc.CurrentMiles / avg
	}

	switch {
	case lc.Ratio > 1.3:
		lc.Status = LoadHigh
	case lc.Ratio < 0.7:
		lc.Status = LoadLow
	default:
		lc.Status = LoadModerate
	}
	return lc
}

// MaxTrendMonths bounds MonthlyTrends
const MaxTrendMonths = 6

// MonthSummary aggregates one local calendar month
type MonthSummary struct {
	Month         string  `json:"month"` // YYYY-MM
	Runs          int     `json:"runs"`
	Miles         float64 `json:"miles"`
	TotalTime     int     `json:"total_time"`
	ElevationFeet int     `json:"elevation_feet"`
	AvgPace       string  `json:"avg_pace"`
}

// MonthlyTrends groups runs by calendar month in the clock's location, most
// recent first, keeping at most six months
func (a *Analyzer) MonthlyTrends() []MonthSummary {
	loc := a.now().Location()

	type totals struct {
		runs      int
		distance  float64
		time      int
		elevation float64
	}
	byMonth := make(map[string]*totals)
	for _, act := range a.activities {
		key := act.StartDate.In(loc).Format("2006-01")
		t, ok := byMonth[key]
		if !ok {
			t = &totals{}
			byMonth[key] = t
		}
		t.runs++
		t.distance += act.Distance
		t.time += act.MovingTime
		t.elevation += act.TotalElevationGain
	}

	months := make([]MonthSummary, 0, len(byMonth))
	for key, t := range byMonth {
		m := MonthSummary{
			Month:         key,
			Runs:          t.runs,
			Miles:         t.distance / metersPerMile,
			TotalTime:     t.time,
			ElevationFeet: int(math.Round(t.elevation * feetPerMeter)),
			AvgPace:       FormatPace(paceSeconds(t.time, t.distance)),
		}
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month > months[j].Month })

	if len(months) > MaxTrendMonths {
		months = months[:MaxTrendMonths]
	}
	return months
}

// RecordCategory is a race distance window in kilometres
type RecordCategory struct {
	Name  string
	MinKm float64
	MaxKm float64
}

// RecordCategories are checked in this order
var RecordCategories = []RecordCategory{
	{Name: "5K", MinKm: 4.5, MaxKm: 5.5},
	{Name: "10K", MinKm: 9.5, MaxKm: 10.5},
	{Name: "Half Marathon", MinKm: 20, MaxKm: 22},
	{Name: "Marathon", MinKm: 40, MaxKm: 44},
}

// PersonalRecord is the fastest-paced run within a category
type PersonalRecord struct {
	Category    string    `json:"category"`
	Pace        string    `json:"pace"`
	PaceSeconds float64   `json:"pace_seconds"`
	Date        time.Time `json:"date"`
	Miles       float64   `json:"miles"`
	Distance    float64   `json:"distance"` // meters
	MovingTime  int       `json:"moving_time"`
	ActivityID  int64     `json:"activity_id"`
}

// PersonalRecords returns the best-paced run per category, in category order.
// Categories without a qualifying run are omitted.
func (a *Analyzer) PersonalRecords() []PersonalRecord {
	var records []PersonalRecord
	for _, cat := range RecordCategories {
		var best *activity.Activity
		var bestPace float64
		for i := range a.activities {
			act := &a.activities[i]
			km := act.Distance / 1000
			if km < cat.MinKm || km > cat.MaxKm || act.MovingTime <= 0 {
				continue
			}
			pace := paceSeconds(act.MovingTime, act.Distance)
			if best == nil || pace < bestPace {
				best, bestPace = act, pace
			}
		}
		if best == nil {
			continue
		}
		records = append(records, PersonalRecord{
			Category:    cat.Name,
			Pace:        FormatPace(bestPace),
			PaceSeconds: bestPace,
			Date:        best.StartDate,
			Miles:       best.Miles(),
			Distance:    best.Distance,
			MovingTime:  best.MovingTime,
			ActivityID:  best.ID,
		})
	}
	return records
}

// Daily load trend labels
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
)

// DailyLoadSummary is the suffer score per day over the trailing week
type DailyLoadSummary struct {
	Loads   []float64 `json:"loads"` // oldest first, today last
	Average int       `json:"average"`
	Trend   string    `json:"trend"`
}

// DailyLoad sums suffer score per local calendar day for today and the six days before
func (a *Analyzer) DailyLoad() DailyLoadSummary {
	now := a.now()
	loc := now.Location()
	today := civilDay(now, loc)

	loads := make([]float64, 7)
	for _, act := range a.activities {
		if !act.HasSufferScore() {
			continue
		}
		offset := today - civilDay(act.StartDate, loc)
		if offset < 0 || offset > 6 {
			continue
		}
		loads[6-offset] += *act.SufferScore
	}

	var sum float64
	for _, l := range loads {
		sum += l
	}

	trend := TrendDecreasing
	if loads[6] > loads[0] {
		trend = TrendIncreasing
	}
	return DailyLoadSummary{
		Loads:   loads,
		Average: int(math.Round(sum / 7)),
		Trend:   trend,
	}
}
