// Package report renders analysis results and weekly plans as styled terminal text.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"runcoach/internal/analysis"
	"runcoach/internal/coach"
)

const chartHeight = 8

// Full renders every section followed by the plan
func Full(a *analysis.Analyzer, plan coach.Result) string {
	sections := []string{
		HeaderStyle.Render(fmt.Sprintf("runcoach · %d runs · %s", a.Count(), a.Now().Format("Mon Jan 2, 2006"))),
		Overview(a),
		Weeks(a.WeeklyBreakdown(analysis.DefaultWeekCount)),
		Distributions(a),
		Trends(a),
		Progression(a),
		Recommendations(analysis.ModeSteady, a.Recommendations(analysis.ModeSteady)),
		Plan(plan),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

// Overview renders this week, the standard windows, streaks and training load
func Overview(a *analysis.Analyzer) string {
	week := a.ThisWeek()
	thisWeek := RenderCard("This Week",
		RenderMetric("Runs", fmt.Sprintf("%d", week.Runs)),
		RenderMetric("Distance", miles(week.Miles)),
		RenderMetric("Time", analysis.FormatDuration(week.TotalTime)),
		RenderMetric("Avg pace", pace(week.AvgPace)),
	)

	stats := a.MultiTimeframeStats()
	lines := []string{TableHeaderStyle.Render(fmt.Sprintf("%-6s %5s %9s %9s %10s", "", "Runs", "Miles", "Pace", "Elevation"))}
	for _, days := range analysis.Timeframes {
		s := stats[analysis.TimeframeKey(days)]
		lines = append(lines, fmt.Sprintf("%-6s %5d %9.1f %9s %10s",
			analysis.TimeframeKey(days), s.Runs, s.TotalMiles, s.AvgPace, elevation(s.TotalElevationFeet)))
	}
	windows := RenderCard("Recent Windows", lines...)

	st := a.RunningStreaks()
	load := a.TrainingLoad()
	status := RenderCard("Status",
		RenderMetric("Current streak", days(st.Current)),
		RenderMetric("Longest streak", days(st.Longest)),
		RenderMetric("Last run", lastRun(st.DaysSinceLastRun, a.Now())),
		RenderMetric("Training load", fmt.Sprintf("%s (%.2fx)", load.Status, load.Ratio)),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, thisWeek, windows, status)
}

// Weeks renders the weekly breakdown table and a mileage chart, oldest week on the left
func Weeks(weeks []analysis.WeekSummary) string {
	if len(weeks) == 0 {
		return RenderCard("Weekly Breakdown", MutedStyle.Render("No weeks to show"))
	}

	lines := []string{TableHeaderStyle.Render(fmt.Sprintf("%-8s %4s %7s %8s %7s %6s  %s",
		"Week of", "Runs", "Miles", "Time", "Pace", "Effort", "Type"))}
	for _, w := range weeks {
		lines = append(lines, fmt.Sprintf("%-8s %4d %7.1f %8s %7s %6.0f  %s",
			w.WeekStart.Format("Jan 02"), w.Runs, w.Miles,
			analysis.FormatDuration(w.TotalTime), w.AvgPace, w.SufferScore,
			weekTypeStyle(w.Type).Render(string(w.Type))))
	}

	if chart := WeeklyChart(weeks); chart != "" {
		lines = append(lines, "", chart)
	}
	return RenderCard("Weekly Breakdown", lines...)
}

// WeeklyChart plots weekly miles oldest first. Empty when there is no mileage.
func WeeklyChart(weeks []analysis.WeekSummary) string {
	data := make([]float64, len(weeks))
	var total float64
	for i, w := range weeks {
		data[len(weeks)-1-i] = w.Miles
		total += w.Miles
	}
	if total == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(chartHeight),
		asciigraph.Precision(1),
		asciigraph.Caption("miles per week"),
	)
}

// Distributions renders the pace, effort and distance mixes
func Distributions(a *analysis.Analyzer) string {
	var cards []string

	if p := a.PaceDistribution(); p != nil {
		cards = append(cards, RenderCard("Pace Mix",
			bucket("Easy", p.Easy),
			bucket("Moderate", p.Moderate),
			bucket("Hard", p.Hard),
			RenderMetric("Median pace", pace(p.MedianPace)),
		))
	} else {
		cards = append(cards, RenderCard("Pace Mix", MutedStyle.Render("Not enough runs")))
	}

	if e := a.EffortDistribution(); e != nil {
		cards = append(cards, RenderCard("Effort Mix",
			bucket("Easy", e.Easy),
			bucket("Moderate", e.Moderate),
			bucket("Hard", e.Hard),
			RenderMetric("Avg HR", fmt.Sprintf("%d bpm", e.AverageHR)),
		))
	} else {
		cards = append(cards, RenderCard("Effort Mix", MutedStyle.Render("No heart rate data")))
	}

	d := a.DistanceDistribution()
	cards = append(cards, RenderCard("Distance Mix",
		bucket("Short <4", d.Short),
		bucket("Medium 4-8", d.Medium),
		bucket("Long 8+", d.Long),
		RenderMetric("Favorite", d.FavoriteDistance),
	))

	c := a.ConsistencyMetrics()
	cards = append(cards, RenderCard("Consistency",
		RenderMetric("Runs/week (30d)", fmt.Sprintf("%.1f", c.RunsPerWeek30d)),
		RenderMetric("Runs/week (90d)", fmt.Sprintf("%.1f", c.RunsPerWeek90d)),
		RenderMetric("Pace consistency", c.PaceConsistency),
	))

	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// Trends renders monthly totals, personal records, predictions and form
func Trends(a *analysis.Analyzer) string {
	var cards []string

	months := a.MonthlyTrends()
	lines := []string{TableHeaderStyle.Render(fmt.Sprintf("%-8s %4s %7s %7s %9s", "Month", "Runs", "Miles", "Pace", "Climb"))}
	for _, m := range months {
		lines = append(lines, fmt.Sprintf("%-8s %4d %7.1f %7s %9s", m.Month, m.Runs, m.Miles, m.AvgPace, elevation(m.ElevationFeet)))
	}
	if len(months) == 0 {
		lines = append(lines, MutedStyle.Render("No runs yet"))
	}
	cards = append(cards, RenderCard("Monthly", lines...))

	prs := a.PersonalRecords()
	lines = nil
	for _, pr := range prs {
		lines = append(lines, RenderMetric(pr.Category, fmt.Sprintf("%s/mi  %s", pr.Pace, pr.Date.Format("Jan 2 2006"))))
	}
	if preds, ok := a.RacePredictions(); ok {
		lines = append(lines, "", MutedStyle.Render(fmt.Sprintf("VDOT %.1f (%s)", preds.VDOT, preds.Label)))
		for _, p := range preds.Predictions {
			lines = append(lines, RenderMetric(analysis.GetTargetLabel(p.TargetName),
				fmt.Sprintf("%s  %s", analysis.FormatDuration(p.PredictedSeconds), p.Confidence)))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, MutedStyle.Render("No race-distance runs"))
	}
	cards = append(cards, RenderCard("Records", lines...))

	daily := a.DailyLoad()
	lines = []string{
		RenderMetric("7-day load", loadSeries(daily.Loads)),
		RenderMetric("Daily average", fmt.Sprintf("%d", daily.Average)),
		RenderMetric("Trend", daily.Trend),
	}
	if f, ok := a.CurrentFitness(); ok {
		lines = append(lines,
			RenderMetric("Fitness (CTL)", fmt.Sprintf("%.1f", f.CTL)),
			RenderMetric("Fatigue (ATL)", fmt.Sprintf("%.1f", f.ATL)),
			RenderMetric("Form (TSB)", fmt.Sprintf("%+.1f", f.TSB)),
			MutedStyle.Render(f.Description),
		)
	}
	cards = append(cards, RenderCard("Load", lines...))

	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// Progression renders the week-over-week and volume trends and the recent week mix
func Progression(a *analysis.Analyzer) string {
	load := a.LoadTrend()
	volume := a.VolumeTrend()
	trends := RenderCard("Progression",
		RenderMetric("Load trend", trendStyle(load.Direction).Render(load.Description)),
		RenderMetric("Volume trend", trendStyle(volume.Direction).Render(volume.Description)),
	)

	d := a.LoadDistribution()
	mix := RenderCard("Load Distribution",
		RenderMetric("High intensity", fmt.Sprintf("%d of %d", d.High, d.Weeks)),
		RenderMetric("Recovery", fmt.Sprintf("%d of %d", d.Recovery, d.Weeks)),
		RenderMetric("Base building", fmt.Sprintf("%d of %d", d.Base, d.Weeks)),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, trends, mix)
}

// Recommendations renders quick advice for the given mode
func Recommendations(mode analysis.Mode, recs []analysis.Recommendation) string {
	lines := []string{MutedStyle.Render(string(mode) + " mode")}
	for _, r := range recs {
		title := CardTitleStyle.Render(r.Title)
		if r.Type == analysis.RecommendRecovery {
			title = WarningStyle.Render(r.Title)
		}
		lines = append(lines, "", title, wrap(r.Content, 78))
	}
	return RenderCard("Recommendations", lines...)
}

// Plan renders a generated week, or the failure reason
func Plan(res coach.Result) string {
	if !res.Success || res.Plan == nil {
		return RenderCard("Weekly Plan", ErrorStyle.Render("Could not generate a plan: "+res.ErrorMessage))
	}
	p := res.Plan

	lines := []string{
		MutedStyle.Render(fmt.Sprintf("%s week · target %.0f miles", p.WeekType, p.WeeklyTargetMiles)),
		"",
	}
	for _, d := range p.Days {
		detail := d.Description
		if d.Miles > 0 {
			detail = fmt.Sprintf("%s · %s · %s", d.Distance, d.Pace, d.Duration)
		}
		lines = append(lines, fmt.Sprintf("%-10s %-14s %s", d.DayName, sessionStyle(d.Type).Render(string(d.Type)), detail))
	}

	lines = append(lines, "", CardTitleStyle.Render("Why"), wrap(p.Rationale, 78))
	lines = append(lines, "", CardTitleStyle.Render("Focus"))
	for _, f := range p.FocusPoints {
		lines = append(lines, "• "+f)
	}
	lines = append(lines, "", CardTitleStyle.Render("Watch for"))
	for _, c := range p.Cautions {
		lines = append(lines, WarningStyle.Render("• "+c))
	}
	return RenderCard("Weekly Plan", lines...)
}

func weekTypeStyle(t analysis.WeekType) lipgloss.Style {
	switch t {
	case analysis.WeekHigh:
		return ErrorStyle
	case analysis.WeekModerate:
		return WarningStyle
	case analysis.WeekRecovery, analysis.WeekRest:
		return MutedStyle
	default:
		return SuccessStyle
	}
}

func trendStyle(direction string) lipgloss.Style {
	switch direction {
	case analysis.DirectionUp:
		return WarningStyle
	case analysis.DirectionDown:
		return MutedStyle
	default:
		return SuccessStyle
	}
}

func sessionStyle(t coach.SessionType) lipgloss.Style {
	switch t {
	case coach.SessionLongRun, coach.SessionTempo:
		return WarningStyle
	case coach.SessionRest:
		return MutedStyle
	default:
		return SuccessStyle
	}
}

func bucket(label string, b analysis.Bucket) string {
	return RenderMetric(label, fmt.Sprintf("%s %3d%% (%d)", RenderBar(b.Percentage, 10), b.Percentage, b.Count))
}

func miles(v float64) string {
	return fmt.Sprintf("%.1f mi", v)
}

func pace(p string) string {
	if p == analysis.NoPace {
		return p
	}
	return p + "/mi"
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func elevation(feet int) string {
	return humanize.Comma(int64(feet)) + " ft"
}

func lastRun(daysSince *int, now time.Time) string {
	switch {
	case daysSince == nil:
		return "never"
	case *daysSince == 0:
		return "today"
	case *daysSince == 1:
		return "yesterday"
	default:
		return humanize.RelTime(now.AddDate(0, 0, -*daysSince), now, "ago", "from now")
	}
}

func loadSeries(loads []float64) string {
	parts := make([]string, len(loads))
	for i, l := range loads {
		parts[i] = fmt.Sprintf("%.0f", l)
	}
	return strings.Join(parts, " ")
}

// wrap breaks s into lines of at most width runes on word boundaries
func wrap(s string, width int) string {
	var b strings.Builder
	n := 0
	for i, word := range strings.Fields(s) {
		if i > 0 && n+1+len(word) > width {
			b.WriteByte('\n')
			n = 0
		} else if i > 0 {
			b.WriteByte(' ')
			n++
		}
		b.WriteString(word)
		n += len(word)
	}
	return b.String()
}
