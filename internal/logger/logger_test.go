package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZdruzenieSTROM/faktury/internal/logger"
)

func TestSetup_FileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	require.NoError(t, logger.Setup(logger.LogConfig{
		Level:  "debug",
		Format: "json",
		Output: path,
	}))
	t.Cleanup(func() { _ = logger.Setup(logger.DefaultConfig()) })

	l := logger.WithRunID(logger.WithComponent("test"), "run-1")
	l.Info().Str("customer", "Jan").Msg("created")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Contains(t, string(data), `"run_id":"run-1"`)
	assert.Contains(t, string(data), `"customer":"Jan"`)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestSetup_InvalidLevel(t *testing.T) {
	err := logger.Setup(logger.LogConfig{Level: "loud"})
	require.Error(t, err)
}

func TestSetVerbose(t *testing.T) {
	require.NoError(t, logger.Setup(logger.DefaultConfig()))
	logger.SetVerbose()
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	require.NoError(t, logger.Setup(logger.DefaultConfig()))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
