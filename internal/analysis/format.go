package analysis

import (
	"fmt"
	"math"
)

// NoPace is rendered wherever pace is undefined
const NoPace = "--"

// FormatPace renders seconds per mile as "M:SS".
// Seconds are rounded, carrying into the minute (359.6 -> "6:00").
func FormatPace(secondsPerMile float64) string {
	if secondsPerMile <= 0 || math.IsNaN(secondsPerMile) || math.IsInf(secondsPerMile, 0) {
		return NoPace
	}
	total := int(math.Round(secondsPerMile))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatDuration renders seconds as "1h 05m" or "42m"
func FormatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// paceSeconds returns seconds per mile for a total time and distance,
// or 0 when either operand is zero.
func paceSeconds(totalSeconds int, meters float64) float64 {
	if totalSeconds <= 0 || meters <= 0 {
		return 0
	}
	return float64(totalSeconds) / (meters / metersPerMile)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

func floatPtr(v float64) *float64 {
	return &v
}
