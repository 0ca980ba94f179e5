package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runcoach/internal/activity"
	"runcoach/internal/analysis"
	"runcoach/internal/coach"
	"runcoach/internal/service"
)

var testNow = time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)

func run(daysAgo int, miles, minutes float64) activity.Activity {
	start := testNow.AddDate(0, 0, -daysAgo).Add(-3 * time.Hour)
	return activity.Activity{
		ID:         start.Unix(),
		Type:       activity.TypeRun,
		StartDate:  start,
		Distance:   miles * activity.MetersPerMile,
		MovingTime: int(minutes * 60),
	}
}

type fakeSession struct {
	analyzer  *analysis.Analyzer
	reloads   int
	reloadErr error
	plans     int
}

func newFakeSession(acts ...activity.Activity) *fakeSession {
	return &fakeSession{analyzer: analysis.New(activity.NewStore(acts), analysis.WithClock(func() time.Time { return testNow }))}
}

func (f *fakeSession) Analyzer() *analysis.Analyzer { return f.analyzer }

func (f *fakeSession) Plan(ctx context.Context) coach.Result {
	f.plans++
	return coach.NewEngine(f.analyzer, coach.WithRandom(coach.NewRandom(uint64(f.plans)))).GenerateWeeklyPlan(ctx)
}

func (f *fakeSession) Reload(context.Context) error {
	f.reloads++
	return f.reloadErr
}

func (f *fakeSession) Source() service.Source { return service.SourceFixture }

func (f *fakeSession) LoadedAt() time.Time { return time.Now() }

type fakeSyncer struct {
	err   error
	calls int
}

func (f *fakeSyncer) Sync(_ context.Context, progress chan<- service.SyncProgress) (*service.SyncResult, error) {
	defer close(progress)
	f.calls++
	progress <- service.SyncProgress{Phase: service.PhaseFetching}
	if f.err != nil {
		return &service.SyncResult{}, f.err
	}
	progress <- service.SyncProgress{Phase: service.PhaseStoring, Fetched: 4}
	progress <- service.SyncProgress{Phase: service.PhaseDone, Fetched: 4, Stored: 3}
	return &service.SyncResult{ActivitiesFetched: 4, RunsStored: 3, RunsWithHR: 2, SyncedAt: time.Now()}, nil
}

// drain runs cmd and feeds every resulting message back into the app,
// skipping spinner ticks so the test never sleeps.
func drain(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			drain(t, app, c)
		}
	default:
		_, next := app.Update(msg)
		drain(t, app, next)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, app *App, s string) tea.Cmd {
	t.Helper()
	_, cmd := app.Update(key(s))
	return cmd
}

func startApp(t *testing.T, session Session, syncer Syncer) *App {
	t.Helper()
	app := NewApp(context.Background(), session, syncer)
	drain(t, app, app.Init())
	app.Update(tea.WindowSizeMsg{Width: 160, Height: 80})
	return app
}

func TestInitGeneratesPlan(t *testing.T) {
	s := newFakeSession(run(1, 5, 45), run(3, 8, 75))
	app := startApp(t, s, nil)

	assert.False(t, app.planning)
	require.True(t, app.plan.Success, app.plan.ErrorMessage)
	assert.Equal(t, 1, s.plans)
	assert.Contains(t, app.View(), "This Week")
	assert.Contains(t, app.View(), "2 runs from fixture")
}

func TestNavigation(t *testing.T) {
	app := startApp(t, newFakeSession(run(1, 5, 45)), nil)

	steps := []struct {
		key    string
		screen Screen
		want   string
	}{
		{"2", ScreenWeeks, "Weekly Breakdown"},
		{"3", ScreenTrends, "Load Distribution"},
		{"4", ScreenPlan, "Weekly Plan"},
		{"?", ScreenHelp, "Keyboard Shortcuts"},
		{"esc", ScreenPlan, "Weekly Plan"},
		{"s", ScreenSync, "Sync is unavailable"},
		{"1", ScreenOverview, "Recent Windows"},
	}
	for _, step := range steps {
		press(t, app, step.key)
		assert.Equal(t, step.screen, app.screen, step.key)
		assert.Contains(t, app.View(), step.want, step.key)
	}
}

func TestQuit(t *testing.T) {
	app := startApp(t, newFakeSession(), nil)

	cmd := press(t, app, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	cmd = press(t, app, "ctrl+c")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRegeneratePlan(t *testing.T) {
	s := newFakeSession(run(1, 5, 45))
	app := startApp(t, s, nil)

	press(t, app, "4")
	cmd := press(t, app, "r")
	assert.True(t, app.planning)
	assert.Contains(t, app.View(), "Building your week")

	drain(t, app, cmd)
	assert.False(t, app.planning)
	assert.Equal(t, 2, s.plans)
	assert.Contains(t, app.View(), "Weekly Plan")
}

func TestToggleRecommendationMode(t *testing.T) {
	app := startApp(t, newFakeSession(run(1, 5, 45)), nil)

	assert.Nil(t, press(t, app, "m"))
	assert.Equal(t, analysis.ModeSteady, app.mode)

	press(t, app, "4")
	assert.Contains(t, app.View(), "Steady Week Focus")

	press(t, app, "m")
	assert.Equal(t, analysis.ModeChallenge, app.mode)
	assert.Contains(t, app.View(), "Challenge Week")

	press(t, app, "m")
	assert.Equal(t, analysis.ModeSteady, app.mode)
}

func TestReload(t *testing.T) {
	s := newFakeSession(run(1, 5, 45))
	app := startApp(t, s, nil)

	drain(t, app, press(t, app, "r"))
	assert.Equal(t, 1, s.reloads)
	assert.Equal(t, 2, s.plans)
	assert.Contains(t, app.View(), "Loaded 1 runs")

	s.reloadErr = errors.New("offline")
	drain(t, app, press(t, app, "r"))
	assert.Contains(t, app.View(), "Reload failed")
	assert.Equal(t, 2, s.plans)
}

func TestSync(t *testing.T) {
	s := newFakeSession(run(1, 5, 45))
	syncer := &fakeSyncer{}
	app := startApp(t, s, syncer)

	press(t, app, "s")
	require.Equal(t, ScreenSync, app.screen)
	assert.Contains(t, app.View(), "Press 's' or Enter")

	drain(t, app, press(t, app, "enter"))
	assert.Equal(t, 1, syncer.calls)
	assert.False(t, app.syncScreen.syncing)
	assert.Equal(t, 1, s.reloads)
	assert.Contains(t, app.View(), "3 runs stored from 4 activities")
}

func TestSyncFailure(t *testing.T) {
	s := newFakeSession()
	syncer := &fakeSyncer{err: errors.New("rate limited")}
	app := startApp(t, s, syncer)

	press(t, app, "s")
	drain(t, app, press(t, app, "s"))
	assert.Contains(t, app.View(), "rate limited")
	assert.Equal(t, 0, s.reloads)
}

func TestKeysIgnoredWhileSyncing(t *testing.T) {
	app := startApp(t, newFakeSession(), &fakeSyncer{})
	press(t, app, "s")
	app.syncScreen.syncing = true

	assert.Nil(t, press(t, app, "q"))
	press(t, app, "1")
	assert.Equal(t, ScreenSync, app.screen)
	assert.Contains(t, app.View(), "Fetching activities")
}
