package analysis

import (
	"math"
	"sort"
	"time"

	"runcoach/internal/activity"
)

// HRZones represents athlete's heart rate zones
type HRZones struct {
	RestingHR float64
	MaxHR     float64
}

// DefaultZones returns sensible defaults if not configured
func DefaultZones() HRZones {
	return HRZones{
		RestingHR: 50,
		MaxHR:     185,
	}
}

// TRIMP calculates Training Impulse (Banister model) from the run's average heart rate
// TRIMP = duration (min) * ΔHR ratio * e^(b * ΔHR ratio)
// where b = 1.92 for men, 1.67 for women (using male default)
func TRIMP(act activity.Activity, zones HRZones) float64 {
	if !act.HasHeartrate() {
		return 0
	}
	duration := float64(act.MovingTime) / 60.0

	hrReserve := zones.MaxHR - zones.RestingHR
	if hrReserve <= 0 {
		return 0
	}

	hrRatio := (*act.AverageHeartrate - zones.RestingHR) / hrReserve
	if hrRatio < 0 {
		hrRatio = 0
	}
	if hrRatio > 1 {
		hrRatio = 1
	}

	b := 1.92
	return duration * hrRatio * math.Exp(b*hrRatio)
}

// Load returns the training stress of a single run: its suffer score when
// recorded, otherwise TRIMP from average heart rate, otherwise 0
func Load(act activity.Activity, zones HRZones) float64 {
	if act.HasSufferScore() {
		return *act.SufferScore
	}
	return TRIMP(act, zones)
}

// DayLoad represents training load for a single day
type DayLoad struct {
	Date time.Time
	Load float64
}

// FitnessMetrics represents CTL/ATL/TSB for a day
type FitnessMetrics struct {
	Date time.Time `json:"date"`
	CTL  float64   `json:"ctl"` // Chronic Training Load (42-day EMA) - "Fitness"
	ATL  float64   `json:"atl"` // Acute Training Load (7-day EMA) - "Fatigue"
	TSB  float64   `json:"tsb"` // Training Stress Balance (CTL - ATL) - "Form"
}

// CalculateFitnessTrend computes CTL/ATL/TSB from daily loads, filling days
// without load up to and including through
func CalculateFitnessTrend(dailyLoads []DayLoad, through time.Time) []FitnessMetrics {
	if len(dailyLoads) == 0 {
		return nil
	}

	sorted := append([]DayLoad(nil), dailyLoads...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	// EMA decay constants
	ctlDecay := 2.0 / (42.0 + 1.0)
	atlDecay := 2.0 / (7.0 + 1.0)

	loc := through.Location()
	loadMap := make(map[string]float64)
	for _, dl := range sorted {
		loadMap[dl.Date.In(loc).Format(time.DateOnly)] += dl.Load
	}

	startDate := startOfDay(sorted[0].Date.In(loc))
	endDate := startOfDay(through)
	if last := startOfDay(sorted[len(sorted)-1].Date.In(loc)); last.After(endDate) {
		endDate = last
	}

	var metrics []FitnessMetrics
	var ctl, atl float64
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		load := loadMap[d.Format(time.DateOnly)]

		ctl = ctl + ctlDecay*(load-ctl)
		atl = atl + atlDecay*(load-atl)

		metrics = append(metrics, FitnessMetrics{
			Date: d,
			CTL:  ctl,
			ATL:  atl,
			TSB:  ctl - atl,
		})
	}
	return metrics
}

// Fitness is the current form derived from the CTL/ATL model
type Fitness struct {
	FitnessMetrics
	Description string `json:"description"`
}

// FitnessTrend feeds per-run load through the CTL/ATL model up to today and
// returns the full series. Nil when there are no runs.
func (a *Analyzer) FitnessTrend() []FitnessMetrics {
	if len(a.activities) == 0 {
		return nil
	}
	loads := make([]DayLoad, 0, len(a.activities))
	for _, act := range a.activities {
		loads = append(loads, DayLoad{Date: act.StartDate, Load: Load(act, a.zones)})
	}
	return CalculateFitnessTrend(loads, a.now())
}

// CurrentFitness returns today's CTL/ATL/TSB with a form description.
// ok is false when there are no runs.
func (a *Analyzer) CurrentFitness() (Fitness, bool) {
	trend := a.FitnessTrend()
	if len(trend) == 0 {
		return Fitness{}, false
	}
	last := trend[len(trend)-1]
	return Fitness{FitnessMetrics: last, Description: FormDescription(last.TSB)}, true
}

// FormDescription returns a human-readable description of TSB
func FormDescription(tsb float64) string {
	switch {
	case tsb > 25:
		return "Very fresh (possibly detrained)"
	case tsb > 10:
		return "Fresh and ready to race"
	case tsb > 0:
		return "Neutral - good for training"
	case tsb > -10:
		return "Slightly fatigued"
	case tsb > -25:
		return "Tired but building fitness"
	default:
		return "Very fatigued - rest needed"
	}
}
