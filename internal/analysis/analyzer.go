package analysis

import (
	"sort"
	"time"

	"runcoach/internal/activity"
)

// Analyzer exposes every descriptive statistic over a session's activity store.
// All methods are pure functions of the store and the clock reading taken at
// call time, so week boundaries move with the clock rather than being fixed
// when the store was loaded.
type Analyzer struct {
	activities []activity.Activity
	now        func() time.Time
	zones      HRZones
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithClock overrides the clock used for all windowing. The location of the
// returned time defines local midnight.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// WithHRZones sets the heart rate zones used to estimate load for runs without a suffer score
func WithHRZones(zones HRZones) Option {
	return func(a *Analyzer) {
		a.zones = zones
	}
}

// New creates an Analyzer over the given store
func New(store *activity.Store, opts ...Option) *Analyzer {
	a := &Analyzer{
		activities: store.Activities(),
		now:        time.Now,
		zones:      DefaultZones(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Now returns the analyzer's current clock reading
func (a *Analyzer) Now() time.Time {
	return a.now()
}

// Count returns the number of runs in the store
func (a *Analyzer) Count() int {
	return len(a.activities)
}

// Activities returns a copy of the runs sorted by start date, most recent first
func (a *Analyzer) Activities() []activity.Activity {
	out := make([]activity.Activity, len(a.activities))
	copy(out, a.activities)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out
}

// between returns runs with start in [from, to)
func (a *Analyzer) between(from, to time.Time) []activity.Activity {
	var out []activity.Activity
	for _, act := range a.activities {
		if !act.StartDate.Before(from) && act.StartDate.Before(to) {
			out = append(out, act)
		}
	}
	return out
}

// WeekStart returns local midnight of the most recent Sunday at or before t
func WeekStart(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// civilDay numbers calendar days in loc so that consecutive dates differ by
// exactly one regardless of DST transitions.
func civilDay(t time.Time, loc *time.Location) int64 {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
