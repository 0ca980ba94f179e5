package analysis

import "sort"

// Streaks reports consecutive-day running streaks
type Streaks struct {
	Current          int  `json:"current"`
	Longest          int  `json:"longest"`
	DaysSinceLastRun *int `json:"days_since_last_run"`
}

// RunningStreaks walks distinct local calendar days in ascending order.
// Multiple runs on one day count once. Current is the trailing streak only
// when the last run day is today or yesterday.
func (a *Analyzer) RunningStreaks() Streaks {
	if len(a.activities) == 0 {
		return Streaks{}
	}

	now := a.now()
	loc := now.Location()

	seen := make(map[int64]struct{}, len(a.activities))
	days := make([]int64, 0, len(a.activities))
	for _, act := range a.activities {
		d := civilDay(act.StartDate, loc)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	longest, streak := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i]-days[i-1] == 1 {
			streak++
		} else {
			streak = 1
		}
		if streak > longest {
			longest = streak
		}
	}

	since := int(civilDay(now, loc) - days[len(days)-1])
	s := Streaks{
		Longest:          longest,
		DaysSinceLastRun: &since,
	}
	if since <= 1 {
		s.Current = streak
	}
	return s
}
