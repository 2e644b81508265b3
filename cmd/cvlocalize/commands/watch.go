package commands

import (
	"context"
	"time"

	"git.home.luguber.info/inful/cvlocalize/internal/pipeline"
	"git.home.luguber.info/inful/cvlocalize/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	RenderCmd `embed:""`

	Every time.Duration `help:"Also render on this interval (overrides watch.every)"`
}

func (w *WatchCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	rt, err := root.setup(g)
	if err != nil {
		return err
	}
	if err := w.apply(rt.cfg); err != nil {
		return err
	}

	every := rt.cfg.Watch.Every.Std()
	if w.Every > 0 {
		every = w.Every
	}

	p := rt.pipeline()
	watcher, err := watch.New(w.File, func(ctx context.Context) error {
		defer rt.flushMetrics(ctx)
		_, err := p.Run(ctx, pipeline.Request{Path: w.File})
		return err
	},
		watch.WithDebounce(rt.cfg.Watch.Debounce.Std()),
		watch.WithInterval(every),
		watch.WithProgress(rt.stdout, rt.translator),
	)
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}
