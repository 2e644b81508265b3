package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/cvlocalize/internal/foundation/errors"
	"git.home.luguber.info/inful/cvlocalize/internal/logfields"
)

// DirPrefix prefixes ephemeral workspace directory names.
const DirPrefix = "cvlocalize-"

// Manager handles workspace operations (both ephemeral and persistent)
type Manager struct {
	baseDir    string
	runID      string
	dir        string
	persistent bool // If true, use dir directly and never remove it
	keep       bool // Ephemeral workspace survives Cleanup
}

// NewManager creates a workspace manager with an ephemeral directory named
// after runID. An empty runID gets a fresh UUID.
func NewManager(baseDir, runID string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Manager{baseDir: baseDir, runID: runID}
}

// NewPersistentManager creates a workspace manager that uses dir as is. The
// directory is not removed on Cleanup.
func NewPersistentManager(dir string) *Manager {
	return &Manager{
		baseDir:    filepath.Dir(dir),
		dir:        dir,
		persistent: true,
	}
}

// SetKeep makes Cleanup leave an ephemeral workspace on disk.
func (m *Manager) SetKeep(keep bool) { m.keep = keep }

// Create creates the workspace directory.
func (m *Manager) Create() error {
	if m.persistent {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return ferrors.FileSystemError("failed to create output directory").
				WithCause(err).
				WithContext("path", m.dir).
				Build()
		}
		slog.Debug("Using persistent workspace", logfields.Path(m.dir))
		return nil
	}

	dir := filepath.Join(m.baseDir, DirPrefix+m.runID)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return ferrors.FileSystemError("failed to create workspace directory").
			WithCause(err).
			WithContext("path", dir).
			Build()
	}
	m.dir = dir
	slog.Debug("Created workspace", logfields.Path(dir), logfields.RunID(m.runID))
	return nil
}

// Path returns the workspace directory, empty before Create.
func (m *Manager) Path() string {
	return m.dir
}

// Persistent reports whether the workspace is a fixed directory.
func (m *Manager) Persistent() bool { return m.persistent }

// LocaleDir returns the directory for one locale's files, creating it. A
// persistent workspace keeps all locales in its root.
func (m *Manager) LocaleDir(locale string) (string, error) {
	if m.dir == "" {
		return "", ferrors.InternalError("workspace not created").Build()
	}
	if m.persistent {
		return m.dir, nil
	}
	if locale == "" || locale == "." || locale == ".." || strings.ContainsAny(locale, `/\`) {
		return "", ferrors.ValidationError(fmt.Sprintf("invalid locale directory name %q", locale)).
			WithContext("locale", locale).
			Build()
	}
	sub := filepath.Join(m.dir, locale)
	if err := os.MkdirAll(sub, 0o700); err != nil {
		return "", ferrors.FileSystemError("failed to create locale directory").
			WithCause(err).
			WithContext("path", sub).
			Build()
	}
	return sub, nil
}

// CleanupLocale removes one locale's directory from an ephemeral workspace.
// Persistent and kept workspaces are left in place.
func (m *Manager) CleanupLocale(locale string) error {
	if m.dir == "" || m.persistent || m.keep {
		return nil
	}
	if locale == "" || locale == "." || locale == ".." || strings.ContainsAny(locale, `/\`) {
		return nil
	}
	sub := filepath.Join(m.dir, locale)
	if err := os.RemoveAll(sub); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to clean up locale directory").
			Warning().
			WithContext("locale", locale).
			WithContext("path", sub).
			Build()
	}
	slog.Debug("Cleaned up locale directory", logfields.Locale(locale), logfields.Path(sub))
	return nil
}

// Cleanup removes an ephemeral workspace. Persistent and kept workspaces are
// left in place.
func (m *Manager) Cleanup() error {
	if m.dir == "" {
		return nil
	}
	if m.persistent {
		return nil
	}
	if m.keep {
		slog.Info("Keeping workspace", logfields.Path(m.dir))
		return nil
	}

	if err := os.RemoveAll(m.dir); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to clean up workspace").
			Warning().
			WithContext("path", m.dir).
			Build()
	}
	slog.Debug("Cleaned up workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}
