package coach

import (
	"fmt"
	"strings"
)

// BuildPrompt renders a synthesis as instructions for an external coaching model
func BuildPrompt(s Synthesis) string {
	var b strings.Builder

	b.WriteString("You are an expert running coach analyzing an athlete's training data. ")
	b.WriteString("Based on the following comprehensive analysis, provide specific training recommendations for the upcoming week.\n\n")

	p := s.AthleteProfile
	b.WriteString("ATHLETE PROFILE:\n")
	fmt.Fprintf(&b, "- Experience Level: %s\n", p.ExperienceLevel)
	fmt.Fprintf(&b, "- Current Monthly Volume: %.1f miles/month\n", p.MonthlyMiles)
	fmt.Fprintf(&b, "- Consistency: %s\n", p.ConsistencyLevel)
	fmt.Fprintf(&b, "- Preferred Distance: %s\n\n", p.PreferredDistance)

	r := s.RecentPerformance
	b.WriteString("RECENT PERFORMANCE (Last 30 Days):\n")
	fmt.Fprintf(&b, "- Total Runs: %d\n", r.Last30Days.Runs)
	fmt.Fprintf(&b, "- Total Miles: %.1f\n", r.Last30Days.TotalMiles)
	fmt.Fprintf(&b, "- Average Pace: %s\n", r.Last30Days.AvgPace)
	fmt.Fprintf(&b, "- Current Streak: %d days\n\n", r.Streaks.Current)

	tp := s.TrainingPatterns
	types := make([]string, 0, len(tp.RecentWeeks))
	for _, w := range tp.RecentWeeks {
		types = append(types, string(w.Type))
	}
	b.WriteString("TRAINING PATTERNS:\n")
	fmt.Fprintf(&b, "- Recent Weekly Types: %s\n", strings.Join(types, ", "))
	fmt.Fprintf(&b, "- Runs per Week (30d): %.1f\n", tp.Consistency.RunsPerWeek30d)
	if e := tp.EffortDistribution; e != nil {
		fmt.Fprintf(&b, "- Effort Distribution: %d%% easy, %d%% moderate, %d%% hard\n",
			e.Easy.Percentage, e.Moderate.Percentage, e.Hard.Percentage)
	}
	b.WriteString("\n")

	c := s.CurrentState
	b.WriteString("CURRENT STATE:\n")
	fmt.Fprintf(&b, "- Training Phase: %s\n", c.Phase)
	fmt.Fprintf(&b, "- Estimated Fatigue: %s\n", c.Fatigue)
	fmt.Fprintf(&b, "- Readiness: %s\n\n", c.Readiness)

	b.WriteString(`Please provide a structured weekly training plan following this format:

WEEKLY TRAINING PLAN:
[Provide 5-7 days of specific training with exact distances, paces, and workout descriptions]

RATIONALE:
[2-3 sentences explaining the reasoning behind this week's plan]

FOCUS POINTS:
[2-3 key areas to emphasize this week]

CAUTIONS:
[Any warnings or things to watch for]

Base your recommendations on established training principles from coaches like Jack Daniels, Hal Higdon, and modern periodization concepts. `)
	b.WriteString("Consider the athlete's current fitness, recent training load, and appropriate progression.\n")

	return b.String()
}
