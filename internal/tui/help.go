package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"runcoach/internal/report"
)

type keyHelp struct {
	key  string
	desc string
}

// helpView renders the key bindings and a short glossary
func helpView(canSync bool) string {
	sections := []string{report.CardTitleStyle.Render("Keyboard Shortcuts")}

	nav := []keyHelp{
		{"1", "Overview"},
		{"2", "Weekly breakdown"},
		{"3", "Trends and distributions"},
		{"4", "Weekly plan"},
	}
	if canSync {
		nav = append(nav, keyHelp{"s", "Sync with Strava"})
	}
	nav = append(nav,
		keyHelp{"?", "Help (this screen)"},
		keyHelp{"esc", "Back / close help"},
		keyHelp{"q", "Quit"},
	)
	sections = append(sections, renderSection("Navigation", nav))

	sections = append(sections, renderSection("Pages", []keyHelp{
		{"j / down", "Scroll down"},
		{"k / up", "Scroll up"},
		{"r", "Reload activities"},
	}))
	sections = append(sections, renderSection("Plan", []keyHelp{
		{"r", "Generate a new plan"},
		{"m", "Switch steady / challenge advice"},
	}))
	if canSync {
		sections = append(sections, renderSection("Sync Screen", []keyHelp{
			{"s / enter", "Start sync"},
		}))
	}

	sections = append(sections, renderGlossary())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderSection(title string, keys []keyHelp) string {
	lines := []string{"", sectionStyle.Render(title)}
	for _, k := range keys {
		lines = append(lines, "  "+report.RenderKeyHelp(k.key, k.desc))
	}
	return strings.Join(lines, "\n")
}

func renderGlossary() string {
	lines := []string{"", sectionStyle.Render("Metrics Explained"), ""}

	terms := []struct {
		name string
		desc string
	}{
		{"Suffer score", "Strava's relative effort for a run. Used as training load."},
		{"Load ratio", "This week's miles against the average of the four weeks before."},
		{"Load trend", "This week's miles against last week's. Beyond 10% either way is a trend."},
		{"Volume trend", "The last 7 days against the 30 day weekly average, with a 15% band."},
		{"CTL (Fitness)", "42 day exponential average of daily load."},
		{"ATL (Fatigue)", "7 day exponential average of daily load."},
		{"TSB (Form)", "CTL - ATL. Positive = fresh."},
		{"VDOT", "Aerobic capacity estimated from your best race-distance effort."},
	}
	for _, t := range terms {
		lines = append(lines, "  "+report.HelpKeyStyle.Render(t.name))
		lines = append(lines, "  "+report.MutedStyle.Render(t.desc))
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
