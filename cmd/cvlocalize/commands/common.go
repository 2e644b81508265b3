// Package commands implements the cvlocalize command line.
package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/cvlocalize/internal/catalog"
	"git.home.luguber.info/inful/cvlocalize/internal/config"
	ferrors "git.home.luguber.info/inful/cvlocalize/internal/foundation/errors"
	"git.home.luguber.info/inful/cvlocalize/internal/i18n"
	"git.home.luguber.info/inful/cvlocalize/internal/logfields"
	"git.home.luguber.info/inful/cvlocalize/internal/metrics"
	"git.home.luguber.info/inful/cvlocalize/internal/observability"
	"git.home.luguber.info/inful/cvlocalize/internal/pipeline"
	"git.home.luguber.info/inful/cvlocalize/internal/render"
)

// Global holds the process streams shared by every command.
type Global struct {
	Stdout io.Writer
	Stderr io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path" default:"cvlocalize.yaml"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics to this textfile after each run" placeholder:"PATH"`
	UILang      string           `name:"ui-lang" help:"Language of progress messages (defaults to LANG)" placeholder:"LANG"`

	Render  RenderCmd  `cmd:"" default:"withargs" help:"Render one CV per declared locale (default command)"`
	Resolve ResolveCmd `cmd:"" help:"Write the resolved per-locale documents without rendering"`
	Watch   WatchCmd   `cmd:"" help:"Render again whenever the source file changes"`
	Locales LocalesCmd `cmd:"" help:"List supported locale codes"`
}

// AfterApply runs after flag parsing; installs a logger until the
// configuration is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(observability.NewLogger(g.Stderr, level, false))
	return nil
}

// session is the state a command needs once configuration is loaded.
type session struct {
	cfg         *config.Config
	catalog     *catalog.Catalog
	translator  *i18n.Translator
	recorder    *metrics.PrometheusRecorder
	metricsFile string
	stdout      io.Writer
}

// setup loads the configuration, reconfigures logging from it and builds the
// locale catalog. The default configuration file is optional; one named with
// -c must exist.
func (c *CLI) setup(g *Global) (*session, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.Config == config.DefaultPath {
		cfg, err = config.LoadOptional(c.Config)
	} else {
		cfg, err = config.Load(c.Config)
	}
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(observability.NewLogger(g.Stderr, level, cfg.Log.Format == config.LogFormatJSON))

	cat, err := catalog.Load(cfg.Locales.Extra...)
	if err != nil {
		return nil, err
	}

	lang := c.UILang
	if lang == "" {
		lang = i18n.LanguageFromEnv()
	}

	rt := &session{
		cfg:         cfg,
		catalog:     cat,
		translator:  i18n.NewTranslator(lang),
		metricsFile: c.MetricsFile,
		stdout:      g.Stdout,
	}
	if rt.metricsFile == "" {
		rt.metricsFile = cfg.Metrics.Textfile
	}
	if rt.metricsFile != "" {
		rt.recorder = metrics.NewPrometheusRecorder(nil)
	}
	slog.Debug("Configuration loaded",
		logfields.Path(c.Config),
		slog.String("render_mode", string(cfg.Render.Mode)),
		slog.Int("jobs", cfg.Render.Jobs))
	return rt, nil
}

// renderer picks the renderer for the configured mode.
func (rt *session) renderer() render.Renderer {
	if rt.cfg.Render.Mode == config.RenderModeNever {
		return render.NoopRenderer{}
	}
	return render.NewCommandRenderer(rt.cfg.Render.Command, rt.cfg.Render.Timeout.Std())
}

func (rt *session) pipeline() *pipeline.Pipeline {
	opts := []pipeline.Option{pipeline.WithProgress(rt.stdout, rt.translator)}
	if rt.recorder != nil {
		opts = append(opts, pipeline.WithRecorder(rt.recorder))
	}
	return pipeline.New(rt.cfg, rt.renderer(), rt.catalog, opts...)
}

// flushMetrics writes the metrics textfile when one is configured. Write
// failures are logged as warnings and never fail the command.
func (rt *session) flushMetrics(ctx context.Context) {
	if rt.recorder == nil {
		return
	}
	if err := rt.recorder.WriteTextfile(rt.metricsFile); err != nil {
		observability.LogError(ctx, "Failed to write metrics textfile",
			ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot write metrics textfile").
				Warning().
				WithContext("path", rt.metricsFile).
				Build())
	}
}
