package analysis

import (
	"math"
	"time"
)

// PredictionTarget represents a target distance for predictions
type PredictionTarget struct {
	Name           string // "5k", "10k", "half", "marathon"
	DistanceMeters float64
}

// PredictionTargets defines the standard prediction distances
var PredictionTargets = []PredictionTarget{
	{"5k", Distance5K},
	{"10k", Distance10K},
	{"half", DistanceHalfMara},
	{"marathon", DistanceMarathon},
}

// RacePrediction represents a predicted race time
type RacePrediction struct {
	TargetName       string  `json:"target_name"`
	TargetMeters     float64 `json:"target_meters"`
	PredictedSeconds int     `json:"predicted_seconds"`
	PredictedPace    float64 `json:"predicted_pace"` // seconds per mile
	VDOT             float64 `json:"vdot"`
	Confidence       string  `json:"confidence"`       // "high", "medium", "low"
	ConfidenceScore  float64 `json:"confidence_score"` // 0.0 to 1.0
}

// Predictions is the outcome of RacePredictions
type Predictions struct {
	Source      PersonalRecord   `json:"source"`
	VDOT        float64          `json:"vdot"`
	Label       string           `json:"label"`
	Predictions []RacePrediction `json:"predictions"`
}

// PRPriority orders personal record categories for selecting the prediction source.
// Longer races are preferred.
var PRPriority = map[string]int{
	"Marathon":      4,
	"Half Marathon": 3,
	"10K":           2,
	"5K":            1,
}

// SourceMaxAge bounds how old a personal record may be to seed predictions
const SourceMaxAge = 365 * day

// SelectBestSourcePR chooses the highest priority record achieved within the
// year before now. Returns nil when none qualifies.
func SelectBestSourcePR(prs []PersonalRecord, now time.Time) *PersonalRecord {
	cutoff := now.Add(-SourceMaxAge)
	var best *PersonalRecord
	bestPriority := 0

	for i := range prs {
		pr := &prs[i]
		if pr.Date.Before(cutoff) {
			continue
		}
		priority, ok := PRPriority[pr.Category]
		if !ok {
			continue
		}
		if priority > bestPriority {
			bestPriority = priority
			best = pr
		}
	}
	return best
}

// CalculateConfidence scores a prediction from 0.0 to 1.0 by how far it
// extrapolates from the source distance and how old the source is
func CalculateConfidence(source PersonalRecord, targetDistance float64, now time.Time) (float64, string) {
	if source.Distance <= 0 {
		return 0, "low"
	}

	score := 1.0

	ratio := targetDistance / source.Distance
	if ratio < 1 {
		ratio = 1 / ratio
	}
	switch {
	case ratio > 4:
		score *= 0.7
	case ratio > 2:
		score *= 0.85
	case ratio > 1.5:
		score *= 0.95
	}

	daysSince := now.Sub(source.Date).Hours() / 24
	switch {
	case daysSince > 180:
		score *= 0.75
	case daysSince > 90:
		score *= 0.9
	case daysSince > 30:
		score *= 0.95
	}

	var label string
	switch {
	case score >= 0.85:
		label = "high"
	case score >= 0.65:
		label = "medium"
	default:
		label = "low"
	}
	return score, label
}

// GeneratePredictions produces race time predictions for every target distance
// except the one matching the source
func GeneratePredictions(source PersonalRecord, now time.Time) []RacePrediction {
	vdot := CalculateVDOT(source.Distance, source.MovingTime)
	if vdot <= 0 {
		return nil
	}

	var predictions []RacePrediction
	for _, target := range PredictionTargets {
		if matchesDistance(target.DistanceMeters, source.Distance) {
			continue
		}

		seconds := PredictTime(vdot, target.DistanceMeters)
		if seconds <= 0 {
			continue
		}

		score, label := CalculateConfidence(source, target.DistanceMeters, now)
		predictions = append(predictions, RacePrediction{
			TargetName:       target.Name,
			TargetMeters:     target.DistanceMeters,
			PredictedSeconds: seconds,
			PredictedPace:    paceSeconds(seconds, target.DistanceMeters),
			VDOT:             vdot,
			Confidence:       label,
			ConfidenceScore:  math.Round(score*100) / 100,
		})
	}
	return predictions
}

// RacePredictions derives VDOT from the best recent personal record and
// predicts the standard race times. ok is false when no record qualifies.
func (a *Analyzer) RacePredictions() (Predictions, bool) {
	now := a.now()
	source := SelectBestSourcePR(a.PersonalRecords(), now)
	if source == nil {
		return Predictions{}, false
	}

	vdot := CalculateVDOT(source.Distance, source.MovingTime)
	return Predictions{
		Source:      *source,
		VDOT:        vdot,
		Label:       GetVDOTLabel(vdot),
		Predictions: GeneratePredictions(*source, now),
	}, true
}

// GetTargetLabel returns a human-readable label for a target distance
func GetTargetLabel(targetName string) string {
	labels := map[string]string{
		"5k":       "5K",
		"10k":      "10K",
		"half":     "Half Marathon",
		"marathon": "Marathon",
	}
	if label, ok := labels[targetName]; ok {
		return label
	}
	return targetName
}
