package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"runcoach/internal/report"
	"runcoach/internal/service"
)

// Syncer refreshes the local snapshot
type Syncer interface {
	Sync(ctx context.Context, progress chan<- service.SyncProgress) (*service.SyncResult, error)
}

// SyncModel is the sync screen model
type SyncModel struct {
	syncer   Syncer
	syncing  bool
	progress service.SyncProgress
	result   *service.SyncResult
	err      error
	done     bool
}

// NewSyncModel creates a new sync model
func NewSyncModel(s Syncer) SyncModel {
	return SyncModel{syncer: s}
}

// SyncDoneMsg is sent when sync finishes
type SyncDoneMsg struct {
	Result *service.SyncResult
	Err    error
}

type syncProgressMsg struct {
	progress service.SyncProgress
	ch       <-chan service.SyncProgress
}

// Update handles messages
func (m SyncModel) Update(ctx context.Context, msg tea.Msg) (SyncModel, tea.Cmd) {
	switch msg := msg.(type) {
	case syncProgressMsg:
		m.progress = msg.progress
		return m, waitForProgress(msg.ch)

	case SyncDoneMsg:
		m.syncing = false
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		if m.syncer == nil || m.syncing {
			return m, nil
		}
		switch msg.String() {
		case "enter", "s":
			m.syncing = true
			m.done = false
			m.err = nil
			m.result = nil
			m.progress = service.SyncProgress{}
			return m, m.start(ctx)
		}
	}
	return m, nil
}

func (m SyncModel) start(ctx context.Context) tea.Cmd {
	ch := make(chan service.SyncProgress, 4)
	run := func() tea.Msg {
		res, err := m.syncer.Sync(ctx, ch)
		return SyncDoneMsg{Result: res, Err: err}
	}
	return tea.Batch(run, waitForProgress(ch))
}

func waitForProgress(ch <-chan service.SyncProgress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return syncProgressMsg{progress: p, ch: ch}
	}
}

// View renders the sync screen
func (m SyncModel) View(spin string) string {
	sections := []string{report.CardTitleStyle.Render("Strava Sync")}

	switch {
	case m.syncer == nil:
		sections = append(sections,
			"",
			"  Sync is unavailable. Add Strava credentials and run `runcoach auth`.")
	case m.err != nil:
		sections = append(sections,
			report.ErrorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)),
			statusStyle.Render("  The previous snapshot is unchanged. Press 's' or Enter to retry"))
	case m.done:
		sections = append(sections,
			report.SuccessStyle.Render("\n  Sync complete!"),
			m.renderSummary(),
			statusStyle.Render("  Press '1' to go to the overview"))
	case m.syncing:
		sections = append(sections, m.renderProgress(spin))
	default:
		sections = append(sections, renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderStartPrompt() string {
	lines := []string{
		"",
		"  This will refresh your local run snapshot:",
		"",
		"  1. Fetch your most recent activities from Strava",
		"  2. Keep the runs and replace the stored snapshot",
		"  3. Reload the analysis",
		"",
		statusStyle.Render("  Press 's' or Enter to start sync"),
	}
	return strings.Join(lines, "\n")
}

func (m SyncModel) renderProgress(spin string) string {
	step := "Fetching activities"
	if m.progress.Phase == service.PhaseStoring {
		step = fmt.Sprintf("Storing runs from %d activities", m.progress.Fetched)
	}
	return "\n  " + spin + " " + step + "..."
}

func (m SyncModel) renderSummary() string {
	if m.result == nil {
		return ""
	}
	r := m.result

	lines := []string{""}
	if r.RunsStored > 0 {
		lines = append(lines, report.SuccessStyle.Render(fmt.Sprintf("  %d runs stored from %d activities", r.RunsStored, r.ActivitiesFetched)))
		lines = append(lines, report.MutedStyle.Render(fmt.Sprintf("  %d with heart rate", r.RunsWithHR)))
	} else {
		lines = append(lines, statusStyle.Render("  No runs found"))
	}
	lines = append(lines, report.MutedStyle.Render("  Synced "+humanize.Time(r.SyncedAt)))
	return strings.Join(lines, "\n")
}
