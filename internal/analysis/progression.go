package analysis

// Trend directions
const (
	DirectionUp     = "up"
	DirectionDown   = "down"
	DirectionStable = "stable"
)

// volumeWeeks spreads 30-day mileage into a weekly average
const volumeWeeks = 4.3

// Trend is a direction with a short description of how it was reached
type Trend struct {
	Direction   string  `json:"direction"`
	Description string  `json:"description"`
	Ratio       float64 `json:"ratio"`
}

// LoadTrend compares the current week's miles to the week before
func (a *Analyzer) LoadTrend() Trend {
	return WeekOverWeek(a.WeeklyBreakdown(2))
}

// WeekOverWeek compares weeks[0] to weeks[1]; weeks must be most recent first.
// A previous week without mileage counts as an increase when the current week has any.
func WeekOverWeek(weeks []WeekSummary) Trend {
	if len(weeks) < 2 {
		return Trend{Direction: DirectionStable, Description: "Insufficient data"}
	}
	recent, previous := weeks[0].Miles, weeks[1].Miles

	t := Trend{Direction: DirectionStable, Description: "Stable"}
	switch {
	case previous > 0:
		t.Ratio = recent / previous
	case recent > 0:
		t.Direction, t.Description = DirectionUp, "Increasing"
		return t
	default:
		return t
	}

	switch {
	case t.Ratio > 1.1:
		t.Direction, t.Description = DirectionUp, "Increasing"
	case t.Ratio < 0.9:
		t.Direction, t.Description = DirectionDown, "Decreasing"
	}
	return t
}

// VolumeTrend compares the last 7 days of mileage to the weekly average of the last 30
func (a *Analyzer) VolumeTrend() Trend {
	return VolumeAgainstAverage(a.StatsForPeriod(7).TotalMiles, a.StatsForPeriod(30).TotalMiles)
}

// VolumeAgainstAverage compares a week's miles to 30-day miles spread over 4.3 weeks
func VolumeAgainstAverage(last7Miles, last30Miles float64) Trend {
	avg := last30Miles / volumeWeeks
	t := Trend{Direction: DirectionStable, Description: "Consistent with average"}
	if avg <= 0 {
		if last7Miles > 0 {
			t.Direction, t.Description = DirectionUp, "Above recent average"
		}
		return t
	}

	t.Ratio = last7Miles / avg
	switch {
	case t.Ratio > 1.15:
		t.Direction, t.Description = DirectionUp, "Above recent average"
	case t.Ratio < 0.85:
		t.Direction, t.Description = DirectionDown, "Below recent average"
	}
	return t
}

// LoadDistributionWeeks is the window counted by LoadDistribution
const LoadDistributionWeeks = 4

// LoadDistribution counts week types over the most recent weeks, the current week included
type LoadDistribution struct {
	Weeks    int `json:"weeks"`
	High     int `json:"high"`
	Recovery int `json:"recovery"`
	Base     int `json:"base"` // base and moderate weeks
	Rest     int `json:"rest"`
}

// LoadDistribution classifies the last four calendar weeks
func (a *Analyzer) LoadDistribution() LoadDistribution {
	return CountWeekTypes(a.WeeklyBreakdown(LoadDistributionWeeks))
}

// CountWeekTypes tallies weeks by type
func CountWeekTypes(weeks []WeekSummary) LoadDistribution {
	d := LoadDistribution{Weeks: len(weeks)}
	for _, w := range weeks {
		switch w.Type {
		case WeekHigh:
			d.High++
		case WeekRecovery:
			d.Recovery++
		case WeekBase, WeekModerate:
			d.Base++
		case WeekRest:
			d.Rest++
		}
	}
	return d
}
