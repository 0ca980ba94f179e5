package analysis

import (
	"fmt"
	"math"

	"runcoach/internal/activity"
)

// Mode selects how hard the quick recommendations push
type Mode string

const (
	ModeSteady    Mode = "steady"
	ModeChallenge Mode = "challenge"
)

// ParseMode accepts "steady" or "challenge". Empty means steady.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeSteady:
		return ModeSteady, nil
	case ModeChallenge:
		return ModeChallenge, nil
	}
	return "", fmt.Errorf("unknown mode %q, want steady or challenge", s)
}

// Recommendation kinds
const (
	RecommendPrimary  = "primary"
	RecommendWorkout  = "workout"
	RecommendTempo    = "tempo"
	RecommendRecovery = "recovery"
)

// Recommendation is one piece of advice for the coming days
type Recommendation struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

const (
	// LongRunMinMiles is the distance above which a run counts as a long run
	LongRunMinMiles = 6
	// TempoMaxPace is the slowest pace, in minutes per mile, treated as tempo
	TempoMaxPace = 9.0
	// noTempoDays stands in for the days since a tempo run when there is none
	noTempoDays = 30
	// defaultLongRunMiles is assumed when recent weeks have no runs
	defaultLongRunMiles = 8
	longRunWeeks        = 3
)

// Recommendations gives quick advice for the current week. Steady mode keeps
// volume and adds a long or tempo run when missing. Challenge mode adds intensity.
// Either mode adds a recovery note when the training load is high.
func (a *Analyzer) Recommendations(mode Mode) []Recommendation {
	week := a.ThisWeek()
	hasLongRun := false
	for _, act := range week.Activities {
		if act.Miles() > LongRunMinMiles {
			hasLongRun = true
			break
		}
	}
	sinceTempo := a.DaysSinceTempoRun()

	var recs []Recommendation
	if mode == ModeChallenge {
		recs = append(recs,
			Recommendation{
				Type:    RecommendPrimary,
				Title:   "Challenge Week",
				Content: "Time to push your limits! Add intensity and consider increasing weekly volume by 10-15%.",
			},
			Recommendation{
				Type:    RecommendWorkout,
				Title:   "Structured Workout",
				Content: "Add intervals or fartlek training. Try 6x3 minutes at 5K pace with 2-minute recoveries.",
			},
		)
		if sinceTempo > 7 {
			recs = append(recs, Recommendation{
				Type:    RecommendTempo,
				Title:   "Tempo Run Priority",
				Content: "Include a tempo run this week - 30-40 minutes at comfortably hard pace (marathon to half-marathon effort).",
			})
		}
	} else {
		recs = append(recs, Recommendation{
			Type:    RecommendPrimary,
			Title:   "Steady Week Focus",
			Content: "Maintain consistent mileage with comfortable effort. Focus on building your aerobic base.",
		})
		if !hasLongRun {
			recs = append(recs, Recommendation{
				Type:  RecommendWorkout,
				Title: "Long Run",
				Content: fmt.Sprintf("Plan your long run this week. Aim for %d miles at conversational pace.",
					a.SuggestLongRunMiles()),
			})
		}
		if sinceTempo > 14 {
			recs = append(recs, Recommendation{
				Type:    RecommendTempo,
				Title:   "Add Tempo Work",
				Content: "It's been over 2 weeks since your last tempo run. Consider adding 20-30 minutes at comfortably hard effort.",
			})
		}
	}

	if a.TrainingLoad().Status == LoadHigh {
		recs = append(recs, Recommendation{
			Type:    RecommendRecovery,
			Title:   "Recovery Focus",
			Content: "Your training load is elevated. Prioritize easy runs and consider adding an extra rest day.",
		})
	}
	return recs
}

// SuggestLongRunMiles is 10% over the mean longest run of the three completed
// weeks before this one, rounded, and never under six miles
func (a *Analyzer) SuggestLongRunMiles() int {
	weeks := a.WeeklyBreakdown(longRunWeeks + 1)[1:]

	var sum float64
	var n int
	for _, w := range weeks {
		if w.LongestRunMiles > 0 {
			sum += w.LongestRunMiles
			n++
		}
	}
	avg := float64(defaultLongRunMiles)
	if n > 0 {
		avg = sum / float64(n)
	}
	return max(LongRunMinMiles, int(math.Round(avg*1.1)))
}

// LastTempoRun returns the most recent run faster than TempoMaxPace
func (a *Analyzer) LastTempoRun() (activity.Activity, bool) {
	now := a.now()
	for _, act := range a.Activities() {
		if act.StartDate.After(now) {
			continue
		}
		pace := paceSeconds(act.MovingTime, act.Distance) / 60
		if pace > 0 && pace < TempoMaxPace {
			return act, true
		}
	}
	return activity.Activity{}, false
}

// DaysSinceTempoRun counts whole days since the last tempo run, or 30 without one
func (a *Analyzer) DaysSinceTempoRun() int {
	act, ok := a.LastTempoRun()
	if !ok {
		return noTempoDays
	}
	return int(a.now().Sub(act.StartDate) / day)
}
