// Package render hands resolved documents to the external CV renderer.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/cvlocalize/internal/foundation/errors"
	"git.home.luguber.info/inful/cvlocalize/internal/logfields"
)

var (
	// ErrRendererNotFound indicates the render command is not on PATH.
	ErrRendererNotFound = errors.New("renderer binary not found")
	// ErrRenderFailed indicates the render command exited unsuccessfully.
	ErrRenderFailed = errors.New("renderer execution failed")
)

const waitDelay = 2 * time.Second

// DefaultCommand is the renderer invoked when none is configured.
var DefaultCommand = []string{"rendercv", "render"}

// Job is one resolved document ready for rendering.
type Job struct {
	Locale string
	// File is the materialized document.
	File string
	// Dir is the working directory for the renderer, normally the directory
	// of the source document so relative paths in it keep working.
	Dir string
}

// Renderer turns a materialized document into its final output. This allows
// swapping the external binary for a no-op in tests or when rendering is
// disabled, without changing the pipeline.
type Renderer interface {
	Render(ctx context.Context, job Job) error
}

// CommandRenderer runs an external command with the document path appended.
type CommandRenderer struct {
	Command []string
	// Timeout bounds each invocation; zero means no limit beyond ctx.
	Timeout time.Duration

	lookPath func(string) (string, error)
}

// NewCommandRenderer builds a CommandRenderer. An empty command falls back to
// DefaultCommand.
func NewCommandRenderer(command []string, timeout time.Duration) *CommandRenderer {
	if len(command) == 0 {
		command = DefaultCommand
	}
	return &CommandRenderer{
		Command:  append([]string(nil), command...),
		Timeout:  timeout,
		lookPath: exec.LookPath,
	}
}

func (r *CommandRenderer) Render(ctx context.Context, job Job) error {
	lookPath := r.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	bin, err := lookPath(r.Command[0])
	if err != nil {
		return ferrors.RenderError(fmt.Sprintf("renderer %q not found, is RenderCV installed?", r.Command[0])).
			WithCause(fmt.Errorf("%w: %w", ErrRendererNotFound, err)).
			WithContext("locale", job.Locale).
			WithContext("command", r.Command[0]).
			Build()
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	args := append(append([]string(nil), r.Command[1:]...), job.File)
	// #nosec G204 -- the command comes from local configuration, not document content
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = job.Dir
	// Children of the renderer may keep the output pipes open after it is killed.
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	argv := append(append([]string(nil), r.Command...), job.File)
	commandLine := strings.Join(argv, " ")
	slog.Debug("Invoking renderer", logfields.Locale(job.Locale), logfields.Command(argv), logfields.Path(job.Dir))
	runErr := cmd.Run()

	outStr := strings.TrimSpace(stdout.String())
	errStr := strings.TrimSpace(stderr.String())
	if outStr != "" {
		slog.Debug("renderer stdout", logfields.Locale(job.Locale), slog.String("output", outStr))
	}
	if errStr != "" {
		slog.Debug("renderer stderr", logfields.Locale(job.Locale), slog.String("error_output", errStr))
	}
	if runErr == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return ferrors.RenderError(fmt.Sprintf("rendering %s timed out after %s", job.Locale, r.Timeout)).
				WithCause(fmt.Errorf("%w: %w", ErrRenderFailed, ctxErr)).
				WithContext("locale", job.Locale).
				Build()
		}
		return ctxErr
	}

	// The renderer may report errors on either stream.
	output := errStr
	if output == "" {
		output = outStr
	} else if outStr != "" {
		output = outStr + "\n" + errStr
	}
	if output != "" {
		slog.Error("Renderer output", logfields.Locale(job.Locale), slog.String("output", output))
	}
	return ferrors.RenderError(fmt.Sprintf("rendering %s failed: %v", job.Locale, runErr)).
		WithCause(fmt.Errorf("%w: %w", ErrRenderFailed, runErr)).
		WithContext("locale", job.Locale).
		WithContext("command", commandLine).
		WithContext("output", output).
		Build()
}

// NoopRenderer performs no rendering; used in tests and when render.mode is never.
type NoopRenderer struct{}

func (NoopRenderer) Render(_ context.Context, job Job) error {
	slog.Debug("NoopRenderer skipping render", logfields.Locale(job.Locale), logfields.File(job.File))
	return nil
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, job Job) error

func (f RendererFunc) Render(ctx context.Context, job Job) error { return f(ctx, job) }
