package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the env file at a path that does not exist and clears
// every WBSDESK_ variable for the test.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range []string{"WBSDESK_DB", "WBSDESK_USER", "WBSDESK_LOG_LEVEL", "WBSDESK_LOG_CALLS"} {
		t.Setenv(k, "")
	}
	t.Setenv("WBSDESK_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "wbsdesk.db", filepath.Base(cfg.DBPath))
	assert.Empty(t, cfg.User)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.False(t, cfg.LogCalls)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("WBSDESK_DB", "/tmp/other.db")
	t.Setenv("WBSDESK_USER", " alice ")
	t.Setenv("WBSDESK_LOG_LEVEL", "DEBUG")
	t.Setenv("WBSDESK_LOG_CALLS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
	assert.Equal(t, "alice", cfg.User)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.LogCalls)
}

func TestLoad_EnvFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "wbsdesk.env")
	require.NoError(t, os.WriteFile(path, []byte("WBSDESK_USER=bob\nWBSDESK_LOG_LEVEL=info\n"), 0o600))
	t.Setenv("WBSDESK_ENV_FILE", path)
	// godotenv does not override variables that are already set, and
	// t.Setenv("", ...) counts as set, so unset the ones the file provides.
	require.NoError(t, os.Unsetenv("WBSDESK_USER"))
	require.NoError(t, os.Unsetenv("WBSDESK_LOG_LEVEL"))
	t.Cleanup(func() {
		os.Unsetenv("WBSDESK_USER")
		os.Unsetenv("WBSDESK_LOG_LEVEL")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.User)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_BadLevel(t *testing.T) {
	isolate(t)
	t.Setenv("WBSDESK_LOG_LEVEL", "loud")

	_, err := Load()
	assert.ErrorContains(t, err, "unknown log level")
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Config{LogLevel: slog.LevelWarn}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown key=value")
}
