package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"runcoach/internal/config"
	"runcoach/internal/logging"
)

const metadataKey = "runcoach"

// runtime is what the Before hook resolves for every command
type runtime struct {
	cfg        *config.Config
	configPath string
	logger     zerolog.Logger
	now        func() time.Time
}

func rt(c *cli.Context) *runtime {
	return c.App.Metadata[metadataKey].(*runtime)
}

// loadConfig reads --config or the default path. A missing file yields the
// defaults so fixture and offline runs work without one.
func loadConfig(c *cli.Context) (*config.Config, string, error) {
	path := c.String("config")
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, "", err
		}
	}

	cfg, err := config.LoadFile(path)
	if errors.Is(err, config.ErrNoConfig) {
		def := config.DefaultConfig()
		return &def, path, nil
	}
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func before(c *cli.Context) error {
	cfg, path, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}

	logger, err := logging.Setup(c.App.ErrWriter, cfg.Log.Level, cfg.Log.Format, c.Bool("no-color"))
	if err != nil {
		return err
	}
	log.Debug().Str("file", path).Msg("config")

	if err := cfg.ValidateCoach(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}

	now := time.Now
	if c.IsSet("now") {
		pinned, err := time.Parse(time.RFC3339, c.String("now"))
		if err != nil {
			return fmt.Errorf("parsing --now: %w", err)
		}
		now = func() time.Time { return pinned }
	}

	c.App.Metadata[metadataKey] = &runtime{cfg: cfg, configPath: path, logger: logger, now: now}
	return nil
}

func main() {
	app := &cli.App{
		Name:     "runcoach",
		HelpName: "runcoach",
		Usage:    "Running training analysis and weekly plans from your Strava runs",
		Metadata: map[string]interface{}{},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "config file (default ~/.runcoach/config.json)",
				EnvVars: []string{"RUNCOACH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "database file (default ~/.runcoach/data.db)",
				EnvVars: []string{"RUNCOACH_DB"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level: debug, info, warn, error",
				EnvVars: []string{"RUNCOACH_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "log format: console or json",
				EnvVars: []string{"RUNCOACH_LOG_FORMAT"},
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "disable colored log output",
				EnvVars: []string{"NO_COLOR"},
			},
			&cli.StringFlag{
				Name:    "fixture",
				Usage:   "read activities from a JSON `FILE` instead of Strava",
				EnvVars: []string{"RUNCOACH_FIXTURE"},
			},
			&cli.BoolFlag{
				Name:    "offline",
				Usage:   "read the last synced snapshot instead of calling Strava",
				EnvVars: []string{"RUNCOACH_OFFLINE"},
			},
			&cli.StringFlag{
				Name:  "now",
				Usage: "pin the clock to an RFC3339 `TIME`",
			},
		},
		Commands: []*cli.Command{
			authCommand,
			syncCommand,
			reportCommand,
			planCommand,
			recommendCommand,
			serveCommand,
			tuiCommand,
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			log.Error().Err(err).Msg(c.App.Name)
		},
		Before: before,
		Action: tuiAction,
	}
	if err := app.RunContext(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
	os.Exit(0)
}
