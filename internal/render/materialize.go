package render

import (
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/cvlocalize/internal/doctree"
	ferrors "git.home.luguber.info/inful/cvlocalize/internal/foundation/errors"
	"git.home.luguber.info/inful/cvlocalize/internal/workspace"
)

// FileName returns the name of the materialized document for locale.
func FileName(locale string) string {
	return locale + "_CV.yaml"
}

// Materialize writes the resolved document for locale into its workspace
// directory and returns the file path.
func Materialize(ws *workspace.Manager, locale string, tree doctree.Node) (string, error) {
	dir, err := ws.LocaleDir(locale)
	if err != nil {
		return "", err
	}
	data, err := doctree.Encode(tree)
	if err != nil {
		return "", ferrors.InternalError(fmt.Sprintf("cannot encode document for %s", locale)).
			WithCause(err).
			WithContext("locale", locale).
			Build()
	}
	path := filepath.Join(dir, FileName(locale))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", ferrors.FileSystemError(fmt.Sprintf("cannot write %s", path)).
			WithCause(err).
			WithContext("locale", locale).
			WithContext("path", path).
			Build()
	}
	return path, nil
}
