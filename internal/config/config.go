// Package config reads wbsdesk settings from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds process-wide settings. Flags may override DBPath and User.
type Config struct {
	DBPath   string
	User     string
	LogLevel slog.Level
	LogCalls bool
	EnvFile  string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		DBPath:   defaultDBPath(),
		LogLevel: slog.LevelWarn,
		EnvFile:  ".env",
	}
}

// Load applies the env file named by WBSDESK_ENV_FILE (default .env), then
// reads WBSDESK_* variables over the defaults. A missing env file is not
// an error; variables already set in the process win over the file.
func Load() (Config, error) {
	cfg := Default()
	if v := os.Getenv("WBSDESK_ENV_FILE"); v != "" {
		cfg.EnvFile = v
	}
	if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("loading %s: %w", cfg.EnvFile, err)
	}

	if v := os.Getenv("WBSDESK_DB"); v != "" {
		cfg.DBPath = v
	}
	cfg.User = strings.TrimSpace(os.Getenv("WBSDESK_USER"))
	if v := os.Getenv("WBSDESK_LOG_LEVEL"); v != "" {
		lvl, err := ParseLevel(v)
		if err != nil {
			return cfg, err
		}
		cfg.LogLevel = lvl
	}
	if v := os.Getenv("WBSDESK_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	return cfg, nil
}

// ParseLevel accepts debug, info, warn/warning and error in any case.
func ParseLevel(v string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", v)
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".wbsdesk", "wbsdesk.db")
	}
	return filepath.Join(home, ".wbsdesk", "wbsdesk.db")
}
