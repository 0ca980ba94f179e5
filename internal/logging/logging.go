// Package logging configures zerolog for the command line and the server.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Formats accepted by Setup
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Setup sets the global level and replaces the global logger with one
// writing to w. Console output is colorized unless noColor is set.
func Setup(w io.Writer, level, format string, noColor bool) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return log.Logger, fmt.Errorf("parsing log level %q: %w", level, err)
		}
	}

	zerolog.SetGlobalLevel(lvl)
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.DurationFieldInteger = false

	switch format {
	case "", FormatConsole:
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    noColor,
			TimeFormat: time.RFC3339,
		})
	case FormatJSON:
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	default:
		return log.Logger, fmt.Errorf("unknown log format %q", format)
	}
	return log.Logger, nil
}
