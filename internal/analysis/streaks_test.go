package analysis

import (
	"math/rand"
	"testing"
	"time"

	"runcoach/internal/activity"
)

func TestRunningStreaks(t *testing.T) {
	// days 1, 2 and 4 of June with a gap of two between 2 and 4
	runs := []activity.Activity{
		testRun(dayAt(2024, 6, 1, 7), 5, 45, 0, 0),
		testRun(dayAt(2024, 6, 2, 7), 5, 45, 0, 0),
		testRun(dayAt(2024, 6, 4, 18), 3, 27, 0, 0),
	}

	tests := []struct {
		name      string
		now       time.Time
		current   int
		longest   int
		daysSince int
	}{
		// the last run was yesterday, so its single-day streak is still live
		{"today is day 5", dayAt(2024, 6, 5, 9), 1, 2, 1},
		{"today is day 4", dayAt(2024, 6, 4, 20), 1, 2, 0},
		{"today is day 6", dayAt(2024, 6, 6, 9), 0, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestAnalyzer(tt.now, runs...).RunningStreaks()
			if s.Current != tt.current {
				t.Errorf("Current = %d, want %d", s.Current, tt.current)
			}
			if s.Longest != tt.longest {
				t.Errorf("Longest = %d, want %d", s.Longest, tt.longest)
			}
			if s.DaysSinceLastRun == nil || *s.DaysSinceLastRun != tt.daysSince {
				t.Errorf("DaysSinceLastRun = %v, want %d", s.DaysSinceLastRun, tt.daysSince)
			}
		})
	}
}

func TestRunningStreaks_TrailingStreak(t *testing.T) {
	now := dayAt(2024, 6, 12, 20)
	a := newTestAnalyzer(now,
		testRun(dayAt(2024, 6, 1, 7), 3, 30, 0, 0),
		testRun(dayAt(2024, 6, 10, 7), 3, 30, 0, 0),
		testRun(dayAt(2024, 6, 11, 7), 3, 30, 0, 0),
		testRun(dayAt(2024, 6, 11, 19), 2, 20, 0, 0), // double day counts once
		testRun(dayAt(2024, 6, 12, 6), 3, 30, 0, 0),
	)

	s := a.RunningStreaks()
	if s.Current != 3 || s.Longest != 3 {
		t.Errorf("got current=%d longest=%d, want 3/3", s.Current, s.Longest)
	}
	if *s.DaysSinceLastRun != 0 {
		t.Errorf("DaysSinceLastRun = %d, want 0", *s.DaysSinceLastRun)
	}
}

func TestRunningStreaks_LongestBeforeGap(t *testing.T) {
	now := dayAt(2024, 6, 12, 20)
	var runs []activity.Activity
	for d := 1; d <= 5; d++ {
		runs = append(runs, testRun(dayAt(2024, 6, d, 7), 3, 30, 0, 0))
	}
	runs = append(runs, testRun(dayAt(2024, 6, 11, 7), 3, 30, 0, 0))

	s := newTestAnalyzer(now, runs...).RunningStreaks()
	if s.Longest != 5 {
		t.Errorf("Longest = %d, want 5", s.Longest)
	}
	if s.Current != 1 {
		t.Errorf("Current = %d, want 1", s.Current)
	}
}

func TestRunningStreaks_OrderIndependent(t *testing.T) {
	now := dayAt(2024, 6, 12, 20)
	var runs []activity.Activity
	for _, d := range []int{1, 2, 3, 5, 6, 9, 10, 11, 12} {
		runs = append(runs, testRun(dayAt(2024, 6, d, 7), 3, 30, 0, 0))
	}
	want := newTestAnalyzer(now, runs...).RunningStreaks()

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]activity.Activity(nil), runs...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := newTestAnalyzer(now, shuffled...).RunningStreaks()
		if got.Current != want.Current || got.Longest != want.Longest {
			t.Fatalf("shuffle %d: got %d/%d, want %d/%d", i, got.Current, got.Longest, want.Current, want.Longest)
		}
	}
}

func TestRunningStreaks_Empty(t *testing.T) {
	s := newTestAnalyzer(testNow).RunningStreaks()
	if s.Current != 0 || s.Longest != 0 || s.DaysSinceLastRun != nil {
		t.Errorf("got %+v, want zero streaks and nil days since", s)
	}
}

func TestRunningStreaks_LocalDays(t *testing.T) {
	loc := time.FixedZone("PDT", -7*3600)
	now := time.Date(2024, 6, 12, 9, 0, 0, 0, loc)

	// 2024-06-12 03:00 UTC is the evening of June 11 in PDT
	a := newTestAnalyzer(now,
		testRun(time.Date(2024, 6, 12, 3, 0, 0, 0, time.UTC), 3, 30, 0, 0),
		testRun(time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC), 3, 30, 0, 0),
	)

	s := a.RunningStreaks()
	if *s.DaysSinceLastRun != 1 {
		t.Errorf("DaysSinceLastRun = %d, want 1", *s.DaysSinceLastRun)
	}
	if s.Current != 2 {
		t.Errorf("Current = %d, want 2", s.Current)
	}
}
