package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManager_EphemeralMode(t *testing.T) {
	tempBase := t.TempDir()
	mgr := NewManager(tempBase, "run-1")

	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	wsPath := mgr.Path()
	if wsPath != filepath.Join(tempBase, "cvlocalize-run-1") {
		t.Errorf("unexpected workspace path: %s", wsPath)
	}
	if _, err := os.Stat(wsPath); os.IsNotExist(err) {
		t.Errorf("Workspace directory does not exist: %s", wsPath)
	}

	dir, err := mgr.LocaleDir("fr")
	if err != nil {
		t.Fatalf("LocaleDir() failed: %v", err)
	}
	if dir != filepath.Join(wsPath, "fr") {
		t.Errorf("unexpected locale dir: %s", dir)
	}

	if err := mgr.Cleanup(); err != nil {
		t.Fatalf("Cleanup() failed: %v", err)
	}
	if _, err := os.Stat(wsPath); !os.IsNotExist(err) {
		t.Errorf("Workspace directory still exists after cleanup: %s", wsPath)
	}
	if mgr.Path() != "" {
		t.Errorf("Path() should be empty after cleanup, got %s", mgr.Path())
	}
}

func TestManager_GeneratesRunID(t *testing.T) {
	a := NewManager(t.TempDir(), "")
	b := NewManager(t.TempDir(), "")
	if a.runID == "" || a.runID == b.runID {
		t.Errorf("expected distinct generated run ids, got %q and %q", a.runID, b.runID)
	}
}

func TestManager_KeepSurvivesCleanup(t *testing.T) {
	mgr := NewManager(t.TempDir(), "keep")
	mgr.SetKeep(true)
	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	wsPath := mgr.Path()

	if err := mgr.Cleanup(); err != nil {
		t.Fatalf("Cleanup() failed: %v", err)
	}
	if _, err := os.Stat(wsPath); os.IsNotExist(err) {
		t.Errorf("Kept workspace was removed: %s", wsPath)
	}
}

func TestManager_PersistentMode(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	mgr := NewPersistentManager(outDir)

	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if mgr.Path() != outDir {
		t.Errorf("Expected path %s, got: %s", outDir, mgr.Path())
	}
	if !mgr.Persistent() {
		t.Error("expected persistent workspace")
	}

	// Locales share the root of a persistent workspace.
	dir, err := mgr.LocaleDir("en")
	if err != nil {
		t.Fatalf("LocaleDir() failed: %v", err)
	}
	if dir != outDir {
		t.Errorf("expected %s, got %s", outDir, dir)
	}

	markerFile := filepath.Join(outDir, "en_CV.yaml")
	if err := os.WriteFile(markerFile, []byte("cv: {}\n"), 0o600); err != nil {
		t.Fatalf("Failed to create marker file: %v", err)
	}
	if err := mgr.Cleanup(); err != nil {
		t.Fatalf("Cleanup() failed: %v", err)
	}
	if _, err := os.Stat(markerFile); os.IsNotExist(err) {
		t.Errorf("Marker file was removed from persistent workspace")
	}
}

func TestManager_LocaleDirErrors(t *testing.T) {
	mgr := NewManager(t.TempDir(), "x")
	if _, err := mgr.LocaleDir("en"); err == nil {
		t.Error("expected error before Create()")
	}
	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Cleanup() })

	for _, bad := range []string{"", "..", "a/b", `a\b`} {
		if _, err := mgr.LocaleDir(bad); err == nil {
			t.Errorf("expected error for locale %q", bad)
		}
	}
}

func TestManager_CleanupBeforeCreate(t *testing.T) {
	if err := NewManager(t.TempDir(), "none").Cleanup(); err != nil {
		t.Errorf("Cleanup() before Create() should be a no-op, got %v", err)
	}
}

func TestManager_CleanupLocale(t *testing.T) {
	mgr := NewManager(t.TempDir(), "locales")
	if err := mgr.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	en, err := mgr.LocaleDir("en")
	if err != nil {
		t.Fatalf("LocaleDir(en) failed: %v", err)
	}
	fr, err := mgr.LocaleDir("fr")
	if err != nil {
		t.Fatalf("LocaleDir(fr) failed: %v", err)
	}

	if err := mgr.CleanupLocale("en"); err != nil {
		t.Fatalf("CleanupLocale() failed: %v", err)
	}
	if _, err := os.Stat(en); !os.IsNotExist(err) {
		t.Errorf("locale directory still exists after cleanup: %s", en)
	}
	if _, err := os.Stat(fr); err != nil {
		t.Errorf("other locale directory was removed: %v", err)
	}
}

func TestManager_CleanupLocaleLeavesKeptAndPersistent(t *testing.T) {
	kept := NewManager(t.TempDir(), "kept")
	kept.SetKeep(true)
	if err := kept.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	dir, err := kept.LocaleDir("en")
	if err != nil {
		t.Fatalf("LocaleDir() failed: %v", err)
	}
	if err := kept.CleanupLocale("en"); err != nil {
		t.Fatalf("CleanupLocale() failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("kept locale directory was removed: %v", err)
	}

	out := filepath.Join(t.TempDir(), "out")
	persistent := NewPersistentManager(out)
	if err := persistent.Create(); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := persistent.CleanupLocale("en"); err != nil {
		t.Fatalf("CleanupLocale() failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("persistent workspace was removed: %v", err)
	}
}
