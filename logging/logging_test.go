package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/shopcheck/artifact"
	"github.com/networkteam/shopcheck/collector"
	"github.com/networkteam/shopcheck/logging"
)

func TestNew_FansOut(t *testing.T) {
	fs := afero.NewMemMapFs()
	var console bytes.Buffer
	day := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	logger, err := logging.New(logging.Options{
		Console: &console,
		Store:   artifact.NewStore(fs, "reports"),
		Now:     func() time.Time { return day },
	})
	require.NoError(t, err)

	logger.Debug("Sent keys to element", "locator", "name=search")
	logger.Info("Searching for product", "name", "MacBook")
	require.NoError(t, logger.Close())

	assert.NotContains(t, console.String(), "Sent keys", "console starts at info")
	assert.Contains(t, console.String(), "Searching for product")

	file, err := afero.ReadFile(fs, "logs/test_20240309.log")
	require.NoError(t, err)
	assert.Contains(t, string(file), "Sent keys to element")
	assert.Contains(t, string(file), "name=MacBook")
}

func TestNew_WithoutStore(t *testing.T) {
	var console bytes.Buffer
	logger, err := logging.New(logging.Options{Console: &console, ConsoleLevel: slog.LevelWarn})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("Config file not found, using defaults")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "Config file not found")
	assert.NoError(t, logger.Close())
}

func TestNew_ReadOnlyStore(t *testing.T) {
	_, err := logging.New(logging.Options{
		Console: &bytes.Buffer{},
		Store:   artifact.NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), ""),
	})
	assert.Error(t, err)
}

func TestTee(t *testing.T) {
	var console bytes.Buffer
	logger, err := logging.New(logging.Options{Console: &console})
	require.NoError(t, err)

	logs := collector.NewLogCollector(5)
	sessionLogger := logging.Tee(logger.Logger, collector.NewHandler(logs, collector.HandlerOptions{}))
	logging.TestStart(sessionLogger, "TestLogin")

	assert.Contains(t, console.String(), "STARTING TEST: TestLogin")
	entries := logs.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "STARTING TEST: TestLogin", entries[1].Message)
}

func TestDiscard(t *testing.T) {
	logger := logging.Discard()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
