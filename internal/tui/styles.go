package tui

import (
	"github.com/charmbracelet/lipgloss"

	"runcoach/internal/report"
)

// Styles
var (
	// App chrome
	headerStyle = report.HeaderStyle.
			MarginBottom(1)

	// Navigation
	navStyle = lipgloss.NewStyle().
			Foreground(report.MutedColor).
			MarginBottom(1)

	navActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(report.PrimaryColor)

	navInactiveStyle = lipgloss.NewStyle().
				Foreground(report.MutedColor)

	// Status
	statusStyle = lipgloss.NewStyle().
			Foreground(report.MutedColor).
			MarginTop(1)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(report.PrimaryColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(report.SecondaryColor)
)
