package strava

import (
	"time"

	"runcoach/internal/activity"
)

// Activity is a summary activity as returned by GET /athlete/activities.
// Heart rate and suffer score are absent for activities recorded without a monitor.
type Activity struct {
	ID                 int64     `json:"id"`
	Athlete            Athlete   `json:"athlete"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	SportType          string    `json:"sport_type"`
	StartDate          time.Time `json:"start_date"`
	StartDateLocal     time.Time `json:"start_date_local"`
	Timezone           string    `json:"timezone"`
	Distance           float64   `json:"distance"`             // meters
	MovingTime         int       `json:"moving_time"`          // seconds
	ElapsedTime        int       `json:"elapsed_time"`         // seconds
	TotalElevationGain float64   `json:"total_elevation_gain"` // meters
	AverageSpeed       float64   `json:"average_speed"`        // m/s
	HasHeartrate       bool      `json:"has_heartrate"`
	AverageHeartrate   *float64  `json:"average_heartrate"`
	MaxHeartrate       *float64  `json:"max_heartrate"`
	SufferScore        *float64  `json:"suffer_score"`
}

// Athlete is the minimal athlete reference embedded in an activity
type Athlete struct {
	ID int64 `json:"id"`
}

// ToActivity converts the API model to the analysis model
func (a Activity) ToActivity() activity.Activity {
	return activity.Activity{
		ID:                 a.ID,
		Name:               a.Name,
		Type:               a.Type,
		StartDate:          a.StartDate,
		Distance:           a.Distance,
		MovingTime:         a.MovingTime,
		TotalElevationGain: a.TotalElevationGain,
		AverageHeartrate:   a.AverageHeartrate,
		MaxHeartrate:       a.MaxHeartrate,
		SufferScore:        a.SufferScore,
	}
}

// ToActivities converts a page of API activities
func ToActivities(in []Activity) []activity.Activity {
	if in == nil {
		return nil
	}
	out := make([]activity.Activity, len(in))
	for i, a := range in {
		out[i] = a.ToActivity()
	}
	return out
}
