package config

import (
	"fmt"

	ferrors "git.home.luguber.info/inful/cvlocalize/internal/foundation/errors"
)

// Validate checks a normalized configuration.
func Validate(cfg *Config) error {
	if cfg.Render.Jobs < 1 {
		return fieldError("render.jobs", fmt.Sprintf("render.jobs must be at least 1, got %d", cfg.Render.Jobs))
	}
	if cfg.Render.Mode == RenderModeAlways && len(cfg.Render.Command) == 0 {
		return fieldError("render.command", "render.command must not be empty when render.mode is always")
	}
	if cfg.Render.Timeout < 0 {
		return fieldError("render.timeout", "render.timeout must not be negative")
	}
	if cfg.Watch.Debounce < 0 {
		return fieldError("watch.debounce", "watch.debounce must not be negative")
	}
	if cfg.Watch.Every < 0 {
		return fieldError("watch.every", "watch.every must not be negative")
	}
	return nil
}

func fieldError(field, msg string) error {
	return ferrors.ConfigError(msg).WithContext("field", field).Build()
}
