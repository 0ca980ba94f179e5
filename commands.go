package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"runcoach/internal/activity"
	"runcoach/internal/analysis"
	"runcoach/internal/auth"
	"runcoach/internal/coach"
	"runcoach/internal/config"
	"runcoach/internal/report"
	"runcoach/internal/server"
	"runcoach/internal/service"
	"runcoach/internal/store"
	"runcoach/internal/strava"
	"runcoach/internal/tui"
)

var authCommand = &cli.Command{
	Name:   "auth",
	Usage:  "Connect your Strava account",
	Action: authAction,
}

var syncCommand = &cli.Command{
	Name:   "sync",
	Usage:  "Fetch recent runs into the local snapshot",
	Action: syncAction,
}

var reportCommand = &cli.Command{
	Name:   "report",
	Usage:  "Print the full training report and a weekly plan",
	Action: reportAction,
}

var planCommand = &cli.Command{
	Name:  "plan",
	Usage: "Generate next week's training plan",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "seed",
			Usage: "seed the plan generator for a repeatable week",
		},
		&cli.BoolFlag{
			Name:  "prompt",
			Usage: "print the coaching prompt built from the synthesis",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "print the result as JSON",
		},
	},
	Action: planAction,
}

var recommendCommand = &cli.Command{
	Name:  "recommend",
	Usage: "Print quick advice for the current week",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "mode",
			Usage: "steady or challenge",
			Value: string(analysis.ModeSteady),
		},
	},
	Action: recommendAction,
}

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Serve the analysis and plans as a JSON API",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "address",
			Usage:   "listen address (default from config)",
			EnvVars: []string{"RUNCOACH_ADDRESS"},
		},
	},
	Action: serveAction,
}

var tuiCommand = &cli.Command{
	Name:   "tui",
	Usage:  "Browse your training interactively (default)",
	Action: tuiAction,
}

// commandContext carries the configured logger
func commandContext(c *cli.Context) context.Context {
	return rt(c).logger.WithContext(c.Context)
}

func openDB(c *cli.Context) (*store.DB, error) {
	path := c.String("db")
	if path == "" {
		var err error
		path, err = store.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

func fetcherOptions(c *cli.Context) service.FetcherOptions {
	return service.FetcherOptions{Fixture: c.String("fixture"), Offline: c.Bool("offline")}
}

// newSession loads activities from the fixture, the snapshot or Strava
func newSession(ctx context.Context, c *cli.Context, db *store.DB) (*service.Session, error) {
	r := rt(c)
	coachOpts, err := r.cfg.CoachOptions()
	if err != nil {
		return nil, err
	}

	fetcher, source, err := service.NewFetcher(ctx, r.cfg, db, fetcherOptions(c))
	if err != nil {
		return nil, err
	}

	s, err := service.NewSession(ctx, service.SessionConfig{
		Fetcher: fetcher,
		Source:  source,
		Load: activity.LoadOptions{
			PageSize: r.cfg.Coach.PageSize,
			Lookback: r.cfg.Lookback(),
		},
		Zones: r.cfg.HRZones(),
		Coach: coachOpts,
		Now:   r.now,
	})
	if err != nil {
		if errors.Is(err, store.ErrNoSnapshot) {
			return nil, fmt.Errorf("%w, run `runcoach sync` first", err)
		}
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Str("source", string(source)).Int("runs", s.Runs()).Msg("loaded")
	return s, nil
}

func authAction(c *cli.Context) error {
	r := rt(c)
	ctx := commandContext(c)

	if _, err := os.Stat(r.configPath); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(c.App.Writer, "No config file found. Creating example config...")
		if err := config.CreateExample(r.configPath); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		fmt.Fprintf(c.App.Writer, "\nPlease edit the config file at:\n  %s\n\n", r.configPath)
		fmt.Fprintln(c.App.Writer, "You need to add your Strava API credentials.")
		fmt.Fprintln(c.App.Writer, "Get them from: https://www.strava.com/settings/api")
		return nil
	}
	if err := r.cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", r.configPath, err)
	}

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := auth.Authenticate(ctx, service.OAuthConfig(r.cfg), c.App.Writer)
	if err != nil {
		return fmt.Errorf("authentication: %w", err)
	}

	err = db.SaveAuth(ctx, &store.Auth{
		AthleteID:    result.AthleteID,
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	})
	if err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "\nSuccessfully authenticated as athlete %d!\n", result.AthleteID)
	return nil
}

func syncAction(c *cli.Context) error {
	r := rt(c)
	ctx := commandContext(c)

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var fetcher activity.Fetcher
	var client *strava.Client
	if fixture := c.String("fixture"); fixture != "" {
		fetcher = activity.FileFetcher{Path: fixture}
	} else {
		client, err = service.NewStravaClient(ctx, r.cfg, db)
		if err != nil {
			return err
		}
		fetcher = client
	}

	svc := service.NewSyncService(fetcher, db, r.cfg.Coach.PageSize)
	result, err := svc.Sync(ctx, nil)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Stored %d runs (%d with heart rate) from %d activities\n",
		result.RunsStored, result.RunsWithHR, result.ActivitiesFetched)
	if client != nil {
		short, daily := client.RateLimitStatus()
		fmt.Fprintf(c.App.Writer, "API requests left: %d (15 min), %d (daily)\n", short, daily)
	}
	return nil
}

func reportAction(c *cli.Context) error {
	ctx := commandContext(c)

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := newSession(ctx, c, db)
	if err != nil {
		return err
	}
	fmt.Fprint(c.App.Writer, report.Full(s.Analyzer(), s.Plan(ctx)))
	return nil
}

func planAction(c *cli.Context) error {
	ctx := commandContext(c)

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := newSession(ctx, c, db)
	if err != nil {
		return err
	}

	var res coach.Result
	if c.IsSet("seed") {
		res = s.PlanWithSeed(ctx, c.Uint64("seed"))
	} else {
		res = s.Plan(ctx)
	}

	switch {
	case c.Bool("json"):
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	case c.Bool("prompt") && res.Success:
		fmt.Fprintln(c.App.Writer, coach.BuildPrompt(*res.Synthesis))
	default:
		fmt.Fprintln(c.App.Writer, report.Plan(res))
	}

	if !res.Success {
		return fmt.Errorf("generating plan: %s", res.ErrorMessage)
	}
	return nil
}

func recommendAction(c *cli.Context) error {
	mode, err := analysis.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}
	ctx := commandContext(c)

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := newSession(ctx, c, db)
	if err != nil {
		return err
	}
	a := s.Analyzer()
	fmt.Fprintln(c.App.Writer, report.Progression(a))
	fmt.Fprintln(c.App.Writer, report.Recommendations(mode, a.Recommendations(mode)))
	return nil
}

func serveAction(c *cli.Context) error {
	r := rt(c)
	ctx, stop := signal.NotifyContext(commandContext(c), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := newSession(ctx, c, db)
	if err != nil {
		return err
	}

	address := r.cfg.Server.Address
	if c.IsSet("address") {
		address = c.String("address")
	}
	return server.New(s, r.logger).Start(ctx, address)
}

func tuiAction(c *cli.Context) error {
	r := rt(c)
	ctx := commandContext(c)

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := newSession(ctx, c, db)
	if err != nil {
		return err
	}

	// the sync screen needs a Strava account; without one it says so
	var syncer tui.Syncer
	if c.String("fixture") == "" {
		if client, err := service.NewStravaClient(ctx, r.cfg, db); err == nil {
			syncer = service.NewSyncService(client, db, r.cfg.Coach.PageSize)
		}
	}

	// c.Context carries no logger, so nothing writes over the alt screen
	p := tea.NewProgram(tui.NewApp(c.Context, s, syncer), tea.WithAltScreen(), tea.WithContext(c.Context))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
