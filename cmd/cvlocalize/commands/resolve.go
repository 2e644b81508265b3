package commands

import (
	"context"

	"git.home.luguber.info/inful/cvlocalize/internal/pipeline"
)

// ResolveCmd implements the 'resolve' command.
type ResolveCmd struct {
	File   string `arg:"" help:"Multi-locale CV file"`
	Output string `short:"o" help:"Directory receiving <locale>_CV.yaml files" default:"."`
}

func (r *ResolveCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	rt, err := root.setup(g)
	if err != nil {
		return err
	}
	defer rt.flushMetrics(ctx)

	_, err = rt.pipeline().Run(ctx, pipeline.Request{Path: r.File, OutputDir: r.Output})
	return err
}
