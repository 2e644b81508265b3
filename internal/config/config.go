// Package config loads the optional cvlocalize.yaml file, applies environment
// overrides and validates the result.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/cvlocalize/internal/foundation/errors"
	"git.home.luguber.info/inful/cvlocalize/internal/logfields"
)

// DefaultPath is the configuration file looked up when -c is not given.
const DefaultPath = "cvlocalize.yaml"

// Config is the complete runtime configuration.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Resolve ResolveConfig `yaml:"resolve"`
	Locales LocalesConfig `yaml:"locales"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Watch   WatchConfig   `yaml:"watch"`
}

// RenderConfig controls the external renderer.
type RenderConfig struct {
	Mode     RenderMode `yaml:"mode"`      // always|never
	Command  []string   `yaml:"command"`   // argv prefix, the resolved file is appended
	Timeout  Duration   `yaml:"timeout"`   // per render invocation
	Jobs     int        `yaml:"jobs"`      // locales rendered concurrently, 0 means 1
	KeepTemp bool       `yaml:"keep_temp"` // keep the run workspace for inspection
	TempDir  string     `yaml:"temp_dir"`  // parent of the run workspace, defaults to os.TempDir()
}

// ResolveConfig controls locale resolution.
type ResolveConfig struct {
	MissingBranch MissingBranch `yaml:"missing_branch"` // keep_empty|drop_key
}

// LocalesConfig extends the supported locale catalog.
type LocalesConfig struct {
	Extra []string `yaml:"extra"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // node exporter textfile path, empty disables
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce Duration `yaml:"debounce"`
	Every    Duration `yaml:"every"` // periodic re-render, 0 disables
}

// DefaultRenderTimeout is set before the file is decoded so that an explicit
// "timeout: 0" keeps meaning no limit.
const DefaultRenderTimeout = 5 * time.Minute

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := newConfig()
	applyDefaults(cfg)
	return cfg
}

func newConfig() *Config {
	return &Config{
		Render: RenderConfig{Timeout: Duration(DefaultRenderTimeout)},
	}
}

// Load reads the configuration file at path. The file must exist.
func Load(path string) (*Config, error) {
	return load(path, false)
}

// LoadOptional reads the configuration file at path, falling back to the
// defaults when it does not exist. Environment overrides apply either way.
func LoadOptional(path string) (*Config, error) {
	return load(path, true)
}

func load(path string, optional bool) (*Config, error) {
	loadEnvFiles()

	cfg := newConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, cfg); err != nil {
			return nil, ferrors.ConfigError(fmt.Sprintf("invalid configuration file %s", path)).
				WithCause(err).
				WithContext("path", path).
				Build()
		}
		slog.Debug("Loaded configuration", logfields.Path(path))
	case errors.Is(err, fs.ErrNotExist) && optional:
		slog.Debug("No configuration file, using defaults", logfields.Path(path))
	case errors.Is(err, fs.ErrNotExist):
		return nil, ferrors.ConfigError(fmt.Sprintf("configuration file not found: %s", path)).
			WithCause(err).
			WithContext("path", path).
			Build()
	default:
		return nil, ferrors.FileSystemError(fmt.Sprintf("failed to read config file %s", path)).
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := normalize(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode expands environment variables and decodes strictly, so unknown keys
// are reported instead of silently ignored.
func decode(data []byte, cfg *Config) error {
	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyDefaults fills unset fields. Jobs is left alone when set so that
// validation can reject non-positive values. The render timeout is seeded
// by newConfig instead.
func applyDefaults(cfg *Config) {
	if cfg.Render.Mode == "" {
		cfg.Render.Mode = RenderModeAlways
	}
	if len(cfg.Render.Command) == 0 {
		cfg.Render.Command = []string{"rendercv", "render"}
	}
	if cfg.Render.Jobs == 0 {
		cfg.Render.Jobs = 1
	}
	if cfg.Resolve.MissingBranch == "" {
		cfg.Resolve.MissingBranch = MissingBranchKeepEmpty
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = LogLevelInfo
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = LogFormatText
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = Duration(500 * time.Millisecond)
	}
}

// normalize case-folds the enumerations and rejects unknown values.
func normalize(cfg *Config) error {
	var err error
	if cfg.Render.Mode, err = renderModeNormalizer.Parse(string(cfg.Render.Mode)); err != nil {
		return invalidValue("render.mode", err)
	}
	if cfg.Resolve.MissingBranch, err = missingBranchNormalizer.Parse(string(cfg.Resolve.MissingBranch)); err != nil {
		return invalidValue("resolve.missing_branch", err)
	}
	if cfg.Log.Level, err = logLevelNormalizer.Parse(string(cfg.Log.Level)); err != nil {
		return invalidValue("log.level", err)
	}
	if cfg.Log.Format, err = logFormatNormalizer.Parse(string(cfg.Log.Format)); err != nil {
		return invalidValue("log.format", err)
	}
	return nil
}

func invalidValue(field string, err error) error {
	return ferrors.ConfigError(fmt.Sprintf("%s: %v", field, err)).
		WithCause(err).
		WithContext("field", field).
		Build()
}
