// Package tui is the interactive terminal front end.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"runcoach/internal/analysis"
	"runcoach/internal/coach"
	"runcoach/internal/report"
	"runcoach/internal/service"
)

// Session is the loaded snapshot the app browses
type Session interface {
	Analyzer() *analysis.Analyzer
	Plan(ctx context.Context) coach.Result
	Reload(ctx context.Context) error
	Source() service.Source
	LoadedAt() time.Time
}

// Screen identifiers
type Screen int

const (
	ScreenOverview Screen = iota
	ScreenWeeks
	ScreenTrends
	ScreenPlan
	ScreenSync
	ScreenHelp
)

// lines taken by header, nav and footer
const chromeHeight = 6

// App is the root Bubble Tea model
type App struct {
	ctx     context.Context
	session Session

	screen     Screen
	prevScreen Screen

	syncScreen SyncModel
	spinner    spinner.Model
	viewport   viewport.Model
	ready      bool

	plan      coach.Result
	planning  bool
	reloading bool
	mode      analysis.Mode

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates the app over a loaded session. syncer may be nil when
// there is no Strava account to sync from.
func NewApp(ctx context.Context, session Session, syncer Syncer) *App {
	return &App{
		ctx:        ctx,
		session:    session,
		screen:     ScreenOverview,
		mode:       analysis.ModeSteady,
		syncScreen: NewSyncModel(syncer),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
	}
}

type planMsg struct {
	res coach.Result
}

type reloadMsg struct {
	err error
}

// Init generates the first plan
func (a *App) Init() tea.Cmd {
	a.planning = true
	return tea.Batch(a.spinner.Tick, a.generatePlan())
}

func (a *App) generatePlan() tea.Cmd {
	ctx, s := a.ctx, a.session
	return func() tea.Msg {
		return planMsg{res: s.Plan(ctx)}
	}
}

func (a *App) reload() tea.Cmd {
	ctx, s := a.ctx, a.session
	return func() tea.Msg {
		return reloadMsg{err: s.Reload(ctx)}
	}
}

func (a *App) busy() bool {
	return a.planning || a.reloading || a.syncScreen.syncing
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		// Global keybindings (unless a sync is running)
		if !a.syncScreen.syncing {
			if cmd, handled := a.handleKey(msg); handled {
				return a, cmd
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		h := max(msg.Height-chromeHeight, 1)
		if !a.ready {
			a.viewport = viewport.New(msg.Width, h)
			a.ready = true
		} else {
			a.viewport.Width = msg.Width
			a.viewport.Height = h
		}
		a.refresh()
		return a, nil

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		if a.screen == ScreenPlan {
			a.refresh()
		}
		return a, cmd

	case planMsg:
		a.planning = false
		a.plan = msg.res
		a.refresh()
		return a, nil

	case reloadMsg:
		a.reloading = false
		if msg.err != nil {
			a.status = fmt.Sprintf("Reload failed, showing the previous snapshot: %v", msg.err)
			a.refresh()
			return a, nil
		}
		a.status = fmt.Sprintf("Loaded %d runs", a.session.Analyzer().Count())
		a.planning = true
		a.refresh()
		return a, tea.Batch(a.spinner.Tick, a.generatePlan())

	case SyncDoneMsg:
		var cmd tea.Cmd
		a.syncScreen, cmd = a.syncScreen.Update(a.ctx, msg)
		if msg.Err != nil {
			return a, cmd
		}
		a.reloading = true
		return a, tea.Batch(cmd, a.spinner.Tick, a.reload())

	case syncProgressMsg:
		var cmd tea.Cmd
		a.syncScreen, cmd = a.syncScreen.Update(a.ctx, msg)
		return a, cmd
	}

	// Delegate to current screen
	var cmd tea.Cmd
	if a.screen == ScreenSync {
		wasSyncing := a.syncScreen.syncing
		a.syncScreen, cmd = a.syncScreen.Update(a.ctx, msg)
		if !wasSyncing && a.syncScreen.syncing {
			cmd = tea.Batch(cmd, a.spinner.Tick)
		}
		return a, cmd
	}
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		return tea.Quit, true
	case "1":
		a.show(ScreenOverview)
		return nil, true
	case "2":
		a.show(ScreenWeeks)
		return nil, true
	case "3":
		a.show(ScreenTrends)
		return nil, true
	case "4":
		a.show(ScreenPlan)
		return nil, true
	case "s":
		// Let 's' fall through to the sync screen when already there
		if a.screen != ScreenSync {
			a.show(ScreenSync)
			return nil, true
		}
	case "?":
		if a.screen != ScreenHelp {
			a.prevScreen = a.screen
			a.show(ScreenHelp)
		}
		return nil, true
	case "esc":
		if a.screen == ScreenHelp {
			a.show(a.prevScreen)
			return nil, true
		}
	case "m":
		if a.screen == ScreenPlan {
			if a.mode == analysis.ModeChallenge {
				a.mode = analysis.ModeSteady
			} else {
				a.mode = analysis.ModeChallenge
			}
			a.refresh()
			return nil, true
		}
	case "r":
		if a.busy() {
			return nil, true
		}
		switch a.screen {
		case ScreenPlan:
			a.planning = true
			a.refresh()
			return tea.Batch(a.spinner.Tick, a.generatePlan()), true
		case ScreenOverview, ScreenWeeks, ScreenTrends:
			a.reloading = true
			a.status = ""
			return tea.Batch(a.spinner.Tick, a.reload()), true
		}
	}
	return nil, false
}

func (a *App) show(s Screen) {
	a.screen = s
	a.refresh()
	a.viewport.GotoTop()
}

// refresh re-renders the current page into the viewport
func (a *App) refresh() {
	if a.ready {
		a.viewport.SetContent(a.page())
	}
}

func (a *App) page() string {
	switch a.screen {
	case ScreenWeeks:
		return report.Weeks(a.session.Analyzer().WeeklyBreakdown(analysis.DefaultWeekCount))
	case ScreenTrends:
		an := a.session.Analyzer()
		return lipgloss.JoinVertical(lipgloss.Left, report.Distributions(an), report.Trends(an), report.Progression(an))
	case ScreenPlan:
		if a.planning {
			return "\n  " + a.spinner.View() + " Building your week..."
		}
		recs := report.Recommendations(a.mode, a.session.Analyzer().Recommendations(a.mode))
		return lipgloss.JoinVertical(lipgloss.Left, report.Plan(a.plan), recs)
	case ScreenHelp:
		return helpView(a.syncScreen.syncer != nil)
	default:
		return report.Overview(a.session.Analyzer())
	}
}

// View renders the app
func (a *App) View() string {
	var content string
	switch {
	case a.screen == ScreenSync:
		content = a.syncScreen.View(a.spinner.View())
	case a.ready:
		content = a.viewport.View()
	default:
		content = a.page()
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), a.renderNav(), content, a.renderFooter())
}

func (a *App) renderHeader() string {
	return headerStyle.Render("runcoach · training analysis and weekly plans")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Overview", ScreenOverview},
		{"2", "Weeks", ScreenWeeks},
		{"3", "Trends", ScreenTrends},
		{"4", "Plan", ScreenPlan},
		{"s", "Sync", ScreenSync},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	if a.reloading {
		return statusStyle.Render(a.spinner.View() + " Reloading activities...")
	}
	if a.status != "" {
		return statusStyle.Render(a.status)
	}
	return statusStyle.Render(fmt.Sprintf("%d runs from %s · loaded %s",
		a.session.Analyzer().Count(), a.session.Source(), humanize.Time(a.session.LoadedAt())))
}
