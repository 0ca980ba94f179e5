package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	PrimaryColor   = lipgloss.Color("#FC4C02") // Strava orange
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#EF4444") // Red
	MutedColor     = lipgloss.Color("#6B7280") // Gray
	TextColor      = lipgloss.Color("#F9FAFB") // Light gray
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1)

	CardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Width(18)

	MetricValueStyle = lipgloss.NewStyle().
				Bold(true)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor)

	MutedStyle   = lipgloss.NewStyle().Foreground(MutedColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(SecondaryColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)

	HelpKeyStyle  = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	HelpDescStyle = lipgloss.NewStyle().Foreground(MutedColor)
)

// RenderMetric renders a label and its value on one line
func RenderMetric(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left,
		MetricLabelStyle.Render(label),
		MetricValueStyle.Render(value),
	)
}

// RenderCard boxes a titled block of lines
func RenderCard(title string, lines ...string) string {
	body := append([]string{CardTitleStyle.Render(title)}, lines...)
	return CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

// RenderKeyHelp renders a key binding help item
func RenderKeyHelp(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

// RenderBar renders share (0-100) as a bar of width cells
func RenderBar(share, width int) string {
	filled := min(max(share*width/100, 0), width)
	return SuccessStyle.Render(strings.Repeat("█", filled)) +
		MutedStyle.Render(strings.Repeat("░", width-filled))
}
