// Package source loads a multi-locale CV document and reads the locales it
// declares.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/cvlocalize/internal/doctree"
	ferrors "git.home.luguber.info/inful/cvlocalize/internal/foundation/errors"
	"git.home.luguber.info/inful/cvlocalize/internal/util/sets"
)

// LocaleKey is the top-level key declaring the document's locales.
const LocaleKey = "locale"

var (
	// ErrDocumentNotFound indicates the input path does not exist.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrMissingLocaleDeclaration indicates a document without a usable locale key.
	ErrMissingLocaleDeclaration = errors.New("missing locale declaration")
)

// Document is a loaded input file.
type Document struct {
	// Path is the absolute path of the file, empty for parsed bytes.
	Path string
	Tree doctree.Node
	// Locales lists the declared locale codes in declaration order, without
	// duplicates.
	Locales []string
}

// Dir returns the directory holding the document, or "." when it has no path.
func (d *Document) Dir() string {
	if d.Path == "" {
		return "."
	}
	return filepath.Dir(d.Path)
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ferrors.FileSystemError("cannot resolve document path").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.NotFoundError(fmt.Sprintf("file not found: %s", path)).
				WithCause(ErrDocumentNotFound).
				WithContext("path", path).
				Build()
		}
		return nil, ferrors.FileSystemError(fmt.Sprintf("cannot read %s", path)).
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	doc, err := Parse(data)
	if err != nil {
		if ce, ok := ferrors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	doc.Path = abs
	return doc, nil
}

// Parse decodes YAML bytes into a Document.
func Parse(data []byte) (*Document, error) {
	tree, err := doctree.Decode(data)
	if err != nil {
		return nil, ferrors.ConfigError("the input file is not valid YAML").
			WithCause(err).
			Build()
	}
	locales, err := DeclaredLocales(tree)
	if err != nil {
		return nil, err
	}
	return &Document{Tree: tree, Locales: locales}, nil
}

// DeclaredLocales reads the locale list from the top-level locale key. The
// value is either a sequence of codes or a mapping keyed by code.
func DeclaredLocales(tree doctree.Node) ([]string, error) {
	root, ok := tree.(*doctree.Mapping)
	if !ok {
		return nil, missingDeclaration()
	}
	value, ok := root.Get(LocaleKey)
	if !ok {
		return nil, missingDeclaration()
	}

	var codes []string
	switch v := value.(type) {
	case *doctree.Mapping:
		codes = v.Keys()
	case *doctree.Sequence:
		for i, item := range v.Items() {
			s, ok := item.(*doctree.Scalar)
			if !ok || s.IsNull() || s.Value() == "" {
				return nil, ferrors.ConfigError(fmt.Sprintf("locale entry %d must be a locale code", i)).
					WithCause(ErrMissingLocaleDeclaration).
					Build()
			}
			codes = append(codes, s.Value())
		}
	}
	if len(codes) == 0 {
		return nil, missingDeclaration()
	}
	return sets.Unique(codes), nil
}

func missingDeclaration() error {
	return ferrors.ConfigError("the input file must contain a 'locale' key").
		WithCause(ErrMissingLocaleDeclaration).
		Build()
}
