package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	ferrors "git.home.luguber.info/inful/cvlocalize/internal/foundation/errors"
	"git.home.luguber.info/inful/cvlocalize/internal/logfields"
)

// Environment variables overriding the configuration file.
const (
	EnvRenderCommand = "CVLOCALIZE_RENDER_COMMAND"
	EnvRenderMode    = "CVLOCALIZE_RENDER_MODE"
	EnvJobs          = "CVLOCALIZE_JOBS"
	EnvLogLevel      = "CVLOCALIZE_LOG_LEVEL"
)

// envFiles are loaded in order; the first file to define a variable wins and
// the process environment is never overridden.
var envFiles = []string{".env.local", ".env"}

func loadEnvFiles() {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load environment file", logfields.Path(path), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment file", logfields.Path(path))
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvRenderCommand)); v != "" {
		cfg.Render.Command = strings.Fields(v)
	}
	if v := os.Getenv(EnvRenderMode); v != "" {
		cfg.Render.Mode = RenderMode(v)
	}
	if v := os.Getenv(EnvJobs); v != "" {
		jobs, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return ferrors.ConfigError(fmt.Sprintf("%s must be an integer, got %q", EnvJobs, v)).
				WithCause(err).
				WithContext("field", EnvJobs).
				Build()
		}
		cfg.Render.Jobs = jobs
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = LogLevel(v)
	}
	return nil
}
