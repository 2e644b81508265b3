// Package pipeline runs one localization pass over a CV document: load,
// resolve every locale, localize paths and headings, then render.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/cvlocalize/internal/catalog"
	"git.home.luguber.info/inful/cvlocalize/internal/config"
	ferrors "git.home.luguber.info/inful/cvlocalize/internal/foundation/errors"
	"git.home.luguber.info/inful/cvlocalize/internal/i18n"
	"git.home.luguber.info/inful/cvlocalize/internal/localize"
	"git.home.luguber.info/inful/cvlocalize/internal/logfields"
	"git.home.luguber.info/inful/cvlocalize/internal/metrics"
	"git.home.luguber.info/inful/cvlocalize/internal/observability"
	"git.home.luguber.info/inful/cvlocalize/internal/render"
	"git.home.luguber.info/inful/cvlocalize/internal/resolve"
	"git.home.luguber.info/inful/cvlocalize/internal/source"
	"git.home.luguber.info/inful/cvlocalize/internal/workspace"
)

// Stage names used for logging and metrics.
const (
	StageLoad        = "load"
	StageResolve     = "resolve"
	StageLocalize    = "localize"
	StageMaterialize = "materialize"
	StageRender      = "render"
)

// Request describes one run.
type Request struct {
	// Path is the multi-locale source document.
	Path string
	// OutputDir switches to resolve-only mode: the resolved documents are
	// written to this directory and nothing is rendered.
	OutputDir string
}

// Result summarizes a successful run.
type Result struct {
	RunID   string
	Locales []string
	// Files maps each locale to its materialized document. Files in an
	// ephemeral workspace are gone once Run returns unless render.keep_temp
	// is set.
	Files    map[string]string
	Rendered []string
	Duration time.Duration
}

// Pipeline executes runs with a fixed configuration and collaborators.
type Pipeline struct {
	cfg              *config.Config
	renderer         render.Renderer
	validator        catalog.Validator
	recorder         metrics.Recorder
	translator       *i18n.Translator
	out              io.Writer
	outMu            sync.Mutex
	workspaceFactory func(runID string) *workspace.Manager
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithProgress sets where progress lines go and the language they are
// written in.
func WithProgress(w io.Writer, t *i18n.Translator) Option {
	return func(p *Pipeline) {
		p.out = w
		if t != nil {
			p.translator = t
		}
	}
}

// WithWorkspaceFactory allows injecting a custom workspace factory (for testing).
func WithWorkspaceFactory(factory func(runID string) *workspace.Manager) Option {
	return func(p *Pipeline) {
		if factory != nil {
			p.workspaceFactory = factory
		}
	}
}

// New creates a Pipeline. A nil renderer disables rendering; a nil validator
// accepts every locale.
func New(cfg *config.Config, renderer render.Renderer, validator catalog.Validator, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = config.Default()
	}
	if renderer == nil {
		renderer = render.NoopRenderer{}
	}
	p := &Pipeline{
		cfg:        cfg,
		renderer:   renderer,
		validator:  validator,
		recorder:   metrics.NoopRecorder{},
		translator: i18n.NewTranslator("en"),
		out:        io.Discard,
		workspaceFactory: func(runID string) *workspace.Manager {
			return workspace.NewManager(cfg.Render.TempDir, runID)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the pipeline once. Every locale is validated, resolved and
// localized before anything is rendered; the first failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = observability.WithRunID(ctx, runID)

	result, err := p.run(ctx, runID, req)
	duration := time.Since(start)
	p.recorder.ObserveRunDuration(duration)

	switch {
	case err == nil:
		p.recorder.IncRunOutcome(metrics.OutcomeSuccess)
		result.Duration = duration
		p.writeLine(p.translator.Plural(i18n.MsgRunDone, len(result.Locales), nil))
		observability.InfoContext(ctx, "Run completed",
			logfields.Locales(result.Locales), logfields.DurationMS(duration))
		return result, nil
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		p.recorder.IncRunOutcome(metrics.OutcomeCanceled)
		observability.WarnContext(ctx, "Run canceled", logfields.Error(err))
		if !ferrors.IsClassified(err) {
			err = ferrors.RuntimeError("run canceled").WithCause(err).Build()
		}
		return nil, err
	default:
		p.recorder.IncRunOutcome(metrics.OutcomeFailed)
		observability.DebugContext(ctx, "Run failed", logfields.Error(err))
		return nil, err
	}
}

func (p *Pipeline) run(ctx context.Context, runID string, req Request) (*Result, error) {
	// Stage 1: load the document and its declared locales
	stageCtx := observability.WithStage(ctx, StageLoad)
	stageStart := time.Now()
	doc, err := source.Load(req.Path)
	if err != nil {
		return nil, err
	}
	p.recorder.ObserveStageDuration(StageLoad, time.Since(stageStart))
	observability.DebugContext(stageCtx, "Loaded document",
		logfields.Path(doc.Path), logfields.Locales(doc.Locales))

	// Stage 2: validate and resolve every locale
	stageStart = time.Now()
	hoisted, err := resolve.Hoist(ctx, doc.Tree, doc.Locales, p.validator,
		resolve.WithMissingBranchPolicy(p.cfg.Resolve.MissingBranch.Policy()))
	if err != nil {
		return nil, err
	}
	p.recorder.ObserveStageDuration(StageResolve, time.Since(stageStart))

	// Stage 3: output paths and section headings
	stageStart = time.Now()
	if hoisted, err = localize.PathsAll(ctx, hoisted); err != nil {
		return nil, err
	}
	if hoisted, err = localize.HeadingsAll(ctx, hoisted); err != nil {
		return nil, err
	}
	p.recorder.ObserveStageDuration(StageLocalize, time.Since(stageStart))

	// Stage 4: materialize into the workspace
	stageCtx = observability.WithStage(ctx, StageMaterialize)
	stageStart = time.Now()
	ws := p.newWorkspace(runID, req)
	if err := ws.Create(); err != nil {
		return nil, err
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			observability.LogError(stageCtx, "Failed to clean up workspace", err)
		}
	}()

	result := &Result{
		RunID:   runID,
		Locales: hoisted.Locales(),
		Files:   make(map[string]string, hoisted.Len()),
	}
	var jobs []render.Job
	for locale, tree := range hoisted.All() {
		file, err := render.Materialize(ws, locale, tree)
		if err != nil {
			return nil, err
		}
		result.Files[locale] = file
		jobs = append(jobs, render.Job{Locale: locale, File: file, Dir: doc.Dir()})
		observability.DebugContext(stageCtx, "Materialized document", logfields.Locale(locale), logfields.File(file))
	}
	p.recorder.ObserveStageDuration(StageMaterialize, time.Since(stageStart))

	if req.OutputDir != "" {
		for _, job := range jobs {
			p.progress(i18n.MsgWroteFile, map[string]any{"File": job.File})
			p.recorder.IncLocaleResult(job.Locale, metrics.ResultSuccess)
		}
		return result, nil
	}
	if p.cfg.Render.Mode == config.RenderModeNever {
		for _, job := range jobs {
			p.progress(i18n.MsgRenderSkipped, map[string]any{"Locale": job.Locale})
			p.recorder.IncLocaleResult(job.Locale, metrics.ResultSkipped)
		}
		return result, nil
	}

	// Stage 5: render
	stageStart = time.Now()
	rendered, err := p.renderAll(observability.WithStage(ctx, StageRender), ws, jobs)
	p.recorder.ObserveStageDuration(StageRender, time.Since(stageStart))
	if err != nil {
		return nil, err
	}
	result.Rendered = rendered
	return result, nil
}

func (p *Pipeline) newWorkspace(runID string, req Request) *workspace.Manager {
	if req.OutputDir != "" {
		return workspace.NewPersistentManager(req.OutputDir)
	}
	ws := p.workspaceFactory(runID)
	ws.SetKeep(p.cfg.Render.KeepTemp)
	return ws
}

// renderAll renders jobs with at most render.jobs in flight. With one job
// slot locales are rendered sequentially in declaration order. Each locale's
// workspace directory is removed once its render returns.
func (p *Pipeline) renderAll(ctx context.Context, ws *workspace.Manager, jobs []render.Job) ([]string, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.cfg.Render.Jobs, 1))

	done := make([]bool, len(jobs))
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				p.recorder.IncLocaleResult(job.Locale, metrics.ResultCanceled)
				return err
			}
			localeCtx := observability.WithLocale(gctx, job.Locale)
			p.progress(i18n.MsgRenderingLocale, map[string]any{"Locale": job.Locale})

			start := time.Now()
			err := p.renderer.Render(localeCtx, job)
			elapsed := time.Since(start)
			if cerr := ws.CleanupLocale(job.Locale); cerr != nil {
				observability.LogError(localeCtx, "Failed to clean up locale directory", cerr)
			}
			p.recorder.ObserveRenderDuration(job.Locale, elapsed, err == nil)
			if err != nil {
				p.recorder.IncLocaleResult(job.Locale, metrics.ResultFailed)
				observability.ErrorContext(localeCtx, "Render failed", logfields.Error(err))
				return err
			}
			p.recorder.IncLocaleResult(job.Locale, metrics.ResultSuccess)
			observability.InfoContext(localeCtx, "Rendered", logfields.DurationMS(elapsed))
			done[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rendered := make([]string, 0, len(jobs))
	for i, job := range jobs {
		if done[i] {
			rendered = append(rendered, job.Locale)
		}
	}
	return rendered, nil
}

// progress writes one translated line to the progress writer.
func (p *Pipeline) progress(id string, data map[string]any) {
	p.writeLine(p.translator.T(id, data))
}

func (p *Pipeline) writeLine(line string) {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	if _, err := fmt.Fprintln(p.out, line); err != nil {
		slog.Debug("Failed to write progress line", logfields.Error(err))
	}
}
