package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_WritesConsoleAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer

	logger, closer, err := NewLogger(LogOptions{Dir: dir, Level: "info"}, &console)
	require.NoError(t, err)

	logger.Info().Msg("hello file")
	logger.Debug().Msg("hidden debug")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "scrape.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
	assert.NotContains(t, string(data), "hidden debug")
	assert.Contains(t, console.String(), "hello file")
}

func TestNewLogger_QuietConsoleKeepsFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, closer, err := NewLogger(LogOptions{Dir: dir, Level: "info", Quiet: true, JSON: true}, &console)
	require.NoError(t, err)

	logger.Info().Msg("progress note")
	logger.Error().Msg("site failed")
	require.NoError(t, closer.Close())

	assert.NotContains(t, console.String(), "progress note")
	assert.Contains(t, console.String(), "site failed")

	data, err := os.ReadFile(filepath.Join(dir, "scrape.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "progress note")
	assert.Contains(t, string(data), `"level":"error"`)
}

func TestNewLogger_AppendsAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	for _, msg := range []string{"first run", "second run"} {
		logger, closer, err := NewLogger(LogOptions{Dir: dir, JSON: true}, &bytes.Buffer{})
		require.NoError(t, err)
		logger.Info().Msg(msg)
		require.NoError(t, closer.Close())
	}

	data, err := os.ReadFile(filepath.Join(dir, "scrape.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "first run")
	assert.Contains(t, string(data), "second run")
}
