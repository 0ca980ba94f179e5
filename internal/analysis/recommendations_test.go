package analysis

import (
	"strings"
	"testing"

	"runcoach/internal/activity"
)

// busyWeek is 20 miles this week against about 6 a week before, with a
// tempo-paced 3 miler on June 2
func busyWeek() []activity.Activity {
	return []activity.Activity{
		testRun(dayAt(2024, 6, 10, 7), 10, 100, 0, 0),
		testRun(dayAt(2024, 6, 11, 7), 10, 100, 0, 0),
		testRun(dayAt(2024, 6, 5, 7), 5, 50, 0, 0),
		testRun(dayAt(2024, 6, 2, 7), 3, 24, 0, 0),
		testRun(dayAt(2024, 5, 29, 7), 5, 50, 0, 0),
		testRun(dayAt(2024, 5, 22, 7), 5, 50, 0, 0),
		testRun(dayAt(2024, 5, 15, 7), 5, 50, 0, 0),
	}
}

func TestRecommendations(t *testing.T) {
	tests := []struct {
		name  string
		runs  []activity.Activity
		mode  Mode
		types []string
		text  string
	}{
		{
			name:  "steady without history",
			mode:  ModeSteady,
			types: []string{RecommendPrimary, RecommendWorkout, RecommendTempo},
			text:  "Aim for 9 miles",
		},
		{
			name:  "steady after a fast long run",
			runs:  []activity.Activity{testRun(dayAt(2024, 6, 10, 7), 7, 56, 0, 0)},
			mode:  ModeSteady,
			types: []string{RecommendPrimary},
		},
		{
			name:  "steady under high load",
			runs:  busyWeek(),
			mode:  ModeSteady,
			types: []string{RecommendPrimary, RecommendRecovery},
			text:  "extra rest day",
		},
		{
			name:  "challenge under high load",
			runs:  busyWeek(),
			mode:  ModeChallenge,
			types: []string{RecommendPrimary, RecommendWorkout, RecommendTempo, RecommendRecovery},
			text:  "6x3 minutes",
		},
		{
			name:  "challenge after a recent tempo",
			runs:  []activity.Activity{testRun(dayAt(2024, 6, 10, 7), 4, 32, 0, 0)},
			mode:  ModeChallenge,
			types: []string{RecommendPrimary, RecommendWorkout},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := newTestAnalyzer(testNow, tt.runs...).Recommendations(tt.mode)

			var types []string
			var all strings.Builder
			for _, r := range recs {
				types = append(types, r.Type)
				all.WriteString(r.Content)
			}
			if strings.Join(types, ",") != strings.Join(tt.types, ",") {
				t.Errorf("types = %v, want %v", types, tt.types)
			}
			if tt.text != "" && !strings.Contains(all.String(), tt.text) {
				t.Errorf("content %q does not mention %q", all.String(), tt.text)
			}
		})
	}
}

func TestSuggestLongRunMiles(t *testing.T) {
	tests := []struct {
		name string
		runs []activity.Activity
		want int
	}{
		{"no runs", nil, 9},
		{
			name: "mean of weekly longest plus 10%",
			runs: []activity.Activity{
				testRun(dayAt(2024, 6, 4, 7), 5, 45, 0, 0),
				testRun(dayAt(2024, 6, 5, 7), 3, 27, 0, 0),
				testRun(dayAt(2024, 5, 28, 7), 6, 54, 0, 0),
				testRun(dayAt(2024, 5, 21, 7), 7, 63, 0, 0),
				// this week and four weeks back are ignored
				testRun(dayAt(2024, 6, 10, 7), 20, 180, 0, 0),
				testRun(dayAt(2024, 5, 14, 7), 20, 180, 0, 0),
			},
			want: 7,
		},
		{
			name: "never under six",
			runs: []activity.Activity{testRun(dayAt(2024, 6, 4, 7), 4, 36, 0, 0)},
			want: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newTestAnalyzer(testNow, tt.runs...).SuggestLongRunMiles(); got != tt.want {
				t.Errorf("SuggestLongRunMiles() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLastTempoRun(t *testing.T) {
	a := newTestAnalyzer(testNow,
		testRun(testNow.AddDate(0, 0, -1), 5, 50, 0, 0), // 10:00/mi
		testRun(testNow.AddDate(0, 0, -4), 4, 34, 0, 0), // 8:30/mi
		testRun(testNow.AddDate(0, 0, -9), 3, 24, 0, 0), // 8:00/mi
	)

	act, ok := a.LastTempoRun()
	if !ok {
		t.Fatal("expected a tempo run")
	}
	if !act.StartDate.Equal(testNow.AddDate(0, 0, -4)) {
		t.Errorf("StartDate = %v, want 4 days ago", act.StartDate)
	}
	if got := a.DaysSinceTempoRun(); got != 4 {
		t.Errorf("DaysSinceTempoRun() = %d, want 4", got)
	}

	easy := newTestAnalyzer(testNow, testRun(testNow.AddDate(0, 0, -1), 5, 50, 0, 0))
	if _, ok := easy.LastTempoRun(); ok {
		t.Error("easy runs should not count as tempo")
	}
	if got := easy.DaysSinceTempoRun(); got != 30 {
		t.Errorf("DaysSinceTempoRun() = %d, want 30", got)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeSteady, false},
		{"steady", ModeSteady, false},
		{"challenge", ModeChallenge, false},
		{"hard", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v", tt.in, got, err)
		}
	}
}
