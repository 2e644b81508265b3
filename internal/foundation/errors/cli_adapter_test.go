package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad").Build(), expected: 2},
		{name: "not found", err: NotFoundError("gone").Build(), expected: 3},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "render", err: RenderError("render failed").Build(), expected: 11},
		{name: "internal", err: InternalError("oops").Build(), expected: 10},
		{name: "unclassified", err: errors.New("unknown error"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	classified := ValidationError("path 'pdf_path' must include 'LOCALE' keyword").
		WithCause(errors.New("missing token")).
		Build()

	if got := quiet.FormatError(classified); got != "Error: path 'pdf_path' must include 'LOCALE' keyword" {
		t.Errorf("unexpected quiet format: %q", got)
	}
	if got := verbose.FormatError(classified); got != "Error: [validation:fatal] path 'pdf_path' must include 'LOCALE' keyword: missing token" {
		t.Errorf("unexpected verbose format: %q", got)
	}
	if got := quiet.FormatError(errors.New("boom")); got != "Error: boom" {
		t.Errorf("unexpected unclassified format: %q", got)
	}
	if got := quiet.FormatError(nil); got != "" {
		t.Errorf("expected empty string for nil, got %q", got)
	}
}

func TestCLIErrorAdapter_ReportWritesOneLine(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.Default())

	code := adapter.Report(&buf, NotFoundError("file not found: cv.yaml").Build())

	if code != 3 {
		t.Errorf("expected exit code 3, got %d", code)
	}
	if buf.String() != "Error: file not found: cv.yaml\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestCLIErrorAdapter_FoldsMultiLineMessages(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.Default())

	code := adapter.Report(&buf, RenderError("rendering en failed:\nline one\nline two").Build())

	if code != 11 {
		t.Errorf("expected exit code 11, got %d", code)
	}
	if buf.String() != "Error: rendering en failed: line one line two\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
	if got := adapter.FormatError(errors.New("first\nsecond")); got != "Error: first second" {
		t.Errorf("unexpected unclassified format: %q", got)
	}
}

func TestLevelFor(t *testing.T) {
	if got := LevelFor(FileSystemError("cleanup").Warning().Build()); got != slog.LevelWarn {
		t.Errorf("expected warn level for warnings, got %v", got)
	}
	if got := LevelFor(RenderError("render").Build()); got != slog.LevelError {
		t.Errorf("expected error level, got %v", got)
	}
	if got := LevelFor(errors.New("plain")); got != slog.LevelError {
		t.Errorf("expected error level for unclassified errors, got %v", got)
	}
}
