package activity

import "time"

const (
	// TypeRun is the only activity type admitted into a Store
	TypeRun = "Run"

	// Unit conversions
	MetersPerMile = 1609.34
	FeetPerMeter  = 3.28084

	// PaceEligibleMeters is the minimum distance (exclusive) for an activity
	// to count towards pace statistics. Shorter runs are mostly warmups and
	// cooldowns recorded as separate activities.
	PaceEligibleMeters = MetersPerMile
)

// Activity is a single activity summary as delivered by the fetch collaborator.
// Heart rate and suffer score are nil when the source did not record them.
type Activity struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	StartDate          time.Time `json:"start_date"`
	Distance           float64   `json:"distance"`             // meters
	MovingTime         int       `json:"moving_time"`          // seconds
	TotalElevationGain float64   `json:"total_elevation_gain"` // meters
	AverageHeartrate   *float64  `json:"average_heartrate,omitempty"`
	MaxHeartrate       *float64  `json:"max_heartrate,omitempty"`
	SufferScore        *float64  `json:"suffer_score,omitempty"`
}

// Miles returns the distance in miles
func (a Activity) Miles() float64 {
	return a.Distance / MetersPerMile
}

// ElevationFeet returns the elevation gain in feet
func (a Activity) ElevationFeet() float64 {
	return a.TotalElevationGain * FeetPerMeter
}

// PaceEligible reports whether the activity is long enough to contribute to pace statistics
func (a Activity) PaceEligible() bool {
	return a.MovingTime > 0 && a.Distance > PaceEligibleMeters
}

// PaceMinutesPerMile returns pace in minutes per mile, or 0 if distance is zero
func (a Activity) PaceMinutesPerMile() float64 {
	if a.Distance <= 0 {
		return 0
	}
	return (float64(a.MovingTime) / 60) / a.Miles()
}

// HasHeartrate returns true if an average heart rate was recorded
func (a Activity) HasHeartrate() bool {
	return a.AverageHeartrate != nil && *a.AverageHeartrate > 0
}

// HasSufferScore returns true if a suffer score was recorded
func (a Activity) HasSufferScore() bool {
	return a.SufferScore != nil && *a.SufferScore > 0
}
