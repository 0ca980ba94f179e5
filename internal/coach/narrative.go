package coach

import (
	"fmt"
	"math"
	"time"
)

// LongStreakDays is the streak length past which a rest day is suggested
const LongStreakDays = 14

// Rationale explains why the week has its shape
func Rationale(wt WeekType, state CurrentState, baseWeeklyMiles float64) string {
	switch wt {
	case WeekRecovery:
		return fmt.Sprintf("Given your recent training load and %s fatigue levels, this week focuses on active recovery and rebuilding. "+
			"Reduced volume and intensity will help your body adapt to recent training stress.", state.Fatigue)
	case WeekBuild:
		return "Your current readiness suggests you can handle increased training stress. " +
			"This week includes structured intensity to improve your lactate threshold and running efficiency."
	default:
		return fmt.Sprintf("Continuing with aerobic base building at your current volume of ~%d miles per week. "+
			"Focus on consistent, comfortable efforts to strengthen your aerobic system.", int(math.Round(baseWeeklyMiles)))
	}
}

// FocusPoints lists what to emphasise this week
func FocusPoints(wt WeekType, longRunDay time.Weekday) []string {
	switch wt {
	case WeekRecovery:
		return []string{
			"Prioritize sleep and nutrition for recovery",
			"Keep all runs at truly easy effort",
			"Consider adding gentle stretching or yoga",
		}
	case WeekBuild:
		return []string{
			"Execute tempo work at controlled, sustainable effort",
			"Maintain easy pace discipline on easy days",
			"Focus on running form during quality sessions",
		}
	default:
		return []string{
			"Build aerobic capacity through consistent easy running",
			fmt.Sprintf("Maintain your %s long run tradition", longRunDay),
			"Gradually progress weekly volume when ready",
		}
	}
}

// Cautions lists warnings raised by the athlete's state. There is always at least one.
func Cautions(s Synthesis) []string {
	var cautions []string

	if s.CurrentState.Fatigue == FatigueHigh {
		cautions = append(cautions, "Monitor for signs of overreaching - persistent fatigue, elevated resting HR, or declining performance")
	}
	if s.RecentPerformance.Streaks.Current > LongStreakDays {
		cautions = append(cautions, "Consider taking a planned rest day to prevent overuse injuries from your current streak")
	}
	if s.CurrentState.Readiness == ReadinessHighLoad {
		cautions = append(cautions, "Recent training load is elevated - be conservative with intensity this week")
	}

	if len(cautions) == 0 {
		cautions = append(cautions, "Listen to your body and adjust intensity based on how you feel each day")
	}
	return cautions
}
