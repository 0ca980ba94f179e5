package activity

import "time"

// Store holds the running activities of a single athlete for one session.
// It keeps the order the fetch delivered them in, which callers must treat as
// unordered. A Store is never mutated after construction.
type Store struct {
	activities []Activity
}

// NewStore builds a Store from raw fetch results, admitting only runs.
// Negative distances and durations are clamped to zero.
func NewStore(raw []Activity) *Store {
	runs := make([]Activity, 0, len(raw))
	for _, a := range raw {
		if a.Type != TypeRun {
			continue
		}
		if a.Distance < 0 {
			a.Distance = 0
		}
		if a.MovingTime < 0 {
			a.MovingTime = 0
		}
		if a.TotalElevationGain < 0 {
			a.TotalElevationGain = 0
		}
		runs = append(runs, a)
	}
	return &Store{activities: runs}
}

// Activities returns a copy of the stored runs in insertion order
func (s *Store) Activities() []Activity {
	if s == nil {
		return nil
	}
	out := make([]Activity, len(s.activities))
	copy(out, s.activities)
	return out
}

// Len returns the number of stored runs
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.activities)
}

// Since returns a new Store containing only runs that started at or after cutoff
func (s *Store) Since(cutoff time.Time) *Store {
	var kept []Activity
	for _, a := range s.activities {
		if !a.StartDate.Before(cutoff) {
			kept = append(kept, a)
		}
	}
	return &Store{activities: kept}
}
