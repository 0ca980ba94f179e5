package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restore(t *testing.T) {
	t.Helper()
	logger, level := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = logger
		zerolog.SetGlobalLevel(level)
	})
}

func TestSetupJSON(t *testing.T) {
	restore(t)
	var buf bytes.Buffer

	logger, err := Setup(&buf, "debug", FormatJSON, true)
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	logger.Debug().Int("runs", 3).Msg("loaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "loaded", entry["message"])
	assert.EqualValues(t, 3, entry["runs"])
	assert.Contains(t, entry, "time")
}

func TestSetupConsoleFiltersLevel(t *testing.T) {
	restore(t)
	var buf bytes.Buffer

	_, err := Setup(&buf, "WARN", FormatConsole, true)
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetupErrors(t *testing.T) {
	restore(t)
	var buf bytes.Buffer

	_, err := Setup(&buf, "loud", FormatConsole, true)
	assert.Error(t, err)

	_, err = Setup(&buf, "info", "xml", true)
	assert.Error(t, err)
}
