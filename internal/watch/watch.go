// Package watch re-runs a job when a source file changes and, optionally, on
// a fixed interval.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/cvlocalize/internal/foundation/errors"
	"git.home.luguber.info/inful/cvlocalize/internal/i18n"
	"git.home.luguber.info/inful/cvlocalize/internal/logfields"
)

// DefaultDebounce is used when no debounce interval is configured.
const DefaultDebounce = 500 * time.Millisecond

// RunFunc performs one run. Errors are logged and watching continues.
type RunFunc func(ctx context.Context) error

type reason int

const (
	reasonChange reason = iota
	reasonSchedule
)

// Watcher runs a RunFunc once at start, after every debounced change to the
// watched file and every interval when one is set. Runs never overlap.
type Watcher struct {
	path       string
	run        RunFunc
	debounce   time.Duration
	every      time.Duration
	out        io.Writer
	translator *i18n.Translator

	pending chan reason
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must stay quiet before a run.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithInterval schedules an additional run every d. Zero disables it.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) { w.every = d }
}

// WithProgress sets where status lines go and their language.
func WithProgress(out io.Writer, t *i18n.Translator) Option {
	return func(w *Watcher) {
		if out != nil {
			w.out = out
		}
		if t != nil {
			w.translator = t
		}
	}
}

// New creates a Watcher for path.
func New(path string, run RunFunc, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, ferrors.FileSystemError("failed to resolve watched path").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	w := &Watcher{
		path:       absPath,
		run:        run,
		debounce:   DefaultDebounce,
		out:        io.Discard,
		translator: i18n.NewTranslator("en"),
		pending:    make(chan reason, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run blocks until ctx is done. It returns nil on cancellation and an error
// only when watching cannot start.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.FileSystemError("failed to create file watcher").WithCause(err).Build()
	}
	defer func() {
		if cerr := fsw.Close(); cerr != nil {
			slog.Debug("Error closing file watcher", logfields.Error(cerr))
		}
	}()

	// Watch the directory: editors often replace the file instead of writing it.
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return ferrors.FileSystemError(fmt.Sprintf("failed to watch directory %s", dir)).
			WithCause(err).
			WithContext("path", dir).
			Build()
	}

	if w.every > 0 {
		scheduler, err := w.startScheduler()
		if err != nil {
			return err
		}
		defer func() {
			if serr := scheduler.Shutdown(); serr != nil {
				slog.Debug("Error stopping scheduler", logfields.Error(serr))
			}
		}()
	}

	slog.Info("Starting file watcher", logfields.Path(w.path), slog.Duration("debounce", w.debounce))
	w.execute(ctx)
	w.progress(i18n.MsgWatching, map[string]any{"Path": w.path})

	w.loop(ctx, fsw)
	slog.Info("Stopping file watcher", logfields.Path(w.path))
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	base := filepath.Base(w.path)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				slog.Debug("Source change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(w.debounce, func() { w.trigger(reasonChange) })
			case event.Has(fsnotify.Remove):
				slog.Warn("Watched file removed", logfields.File(event.Name))
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", logfields.Error(err))
		case r := <-w.pending:
			switch r {
			case reasonChange:
				w.progress(i18n.MsgChangeDetected, map[string]any{"Path": w.path})
			case reasonSchedule:
				w.progress(i18n.MsgScheduledRun, map[string]any{"Path": w.path})
			}
			w.execute(ctx)
		}
	}
}

func (w *Watcher) startScheduler() (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.InternalError("failed to create scheduler").WithCause(err).Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.every),
		gocron.NewTask(w.trigger, reasonSchedule),
		gocron.WithName("scheduled-render"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, ferrors.ConfigError("failed to schedule periodic run").
			WithCause(err).
			WithContext("field", "watch.every").
			Build()
	}
	s.Start()
	slog.Info("Scheduled periodic run", slog.Duration("every", w.every))
	return s, nil
}

// trigger queues a run unless one is already pending.
func (w *Watcher) trigger(r reason) {
	select {
	case w.pending <- r:
	default:
	}
}

func (w *Watcher) execute(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := w.run(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("Run failed", logfields.Path(w.path), logfields.Error(err))
	}
}

func (w *Watcher) progress(id string, data map[string]any) {
	if _, err := fmt.Fprintln(w.out, w.translator.T(id, data)); err != nil {
		slog.Debug("Failed to write progress line", logfields.Error(err))
	}
}
