package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/cvlocalize/internal/config"
	"git.home.luguber.info/inful/cvlocalize/internal/pipeline"
)

// RenderCmd implements the default 'render' command.
type RenderCmd struct {
	File       string `arg:"" help:"Multi-locale CV file"`
	Jobs       int    `short:"j" help:"Locales rendered concurrently (overrides render.jobs)"`
	RenderMode string `name:"render-mode" help:"Override render.mode (always|never)"`
	KeepTemp   bool   `name:"keep-temp" help:"Keep the per-locale documents after the run"`
}

func (r *RenderCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	rt, err := root.setup(g)
	if err != nil {
		return err
	}
	if err := r.apply(rt.cfg); err != nil {
		return err
	}
	defer rt.flushMetrics(ctx)

	_, err = rt.pipeline().Run(ctx, pipeline.Request{Path: r.File})
	return err
}

// apply layers the command line overrides over the loaded configuration.
func (r *RenderCmd) apply(cfg *config.Config) error {
	if r.RenderMode != "" {
		mode, err := config.ParseRenderMode(r.RenderMode)
		if err != nil {
			return err
		}
		cfg.Render.Mode = mode
		slog.Info("Render mode overridden via CLI flag", "mode", mode)
	}
	if r.Jobs != 0 {
		cfg.Render.Jobs = r.Jobs
	}
	if r.KeepTemp {
		cfg.Render.KeepTemp = true
	}
	return config.Validate(cfg)
}
