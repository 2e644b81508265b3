// Package catalog answers which locale codes the renderer supports.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	ferrors "git.home.luguber.info/inful/cvlocalize/internal/foundation/errors"
	"git.home.luguber.info/inful/cvlocalize/internal/util/sets"
)

//go:embed locales.toml
var builtinLocales []byte

// ErrUnsupportedLocale indicates a declared locale the renderer cannot handle.
var ErrUnsupportedLocale = errors.New("unsupported locale")

// Validator answers whether a locale code is supported.
type Validator interface {
	Supported(code string) bool
}

// Entry describes one supported locale.
type Entry struct {
	Code string
	Name string
}

type catalogFile struct {
	Supported []string `toml:"supported"`
}

// Catalog is the set of supported locales, compared in canonical BCP 47 form
// so "EN" and "en" are the same locale while "en-US" is a distinct one.
type Catalog struct {
	codes sets.Set[string]
}

// Load builds the catalog from the embedded list plus extra codes.
func Load(extra ...string) (*Catalog, error) {
	var f catalogFile
	if err := toml.Unmarshal(builtinLocales, &f); err != nil {
		return nil, fmt.Errorf("decode embedded locale catalog: %w", err)
	}
	return New(append(f.Supported, extra...)...)
}

// New builds a catalog from explicit codes. English is always included.
func New(codes ...string) (*Catalog, error) {
	c := &Catalog{codes: sets.New(language.English.String())}
	for _, code := range codes {
		canonical, ok := Canonical(code)
		if !ok {
			return nil, ferrors.ConfigError(fmt.Sprintf("invalid locale code %q in catalog", code)).
				WithContext("locale", code).
				Build()
		}
		c.codes.Add(canonical)
	}
	return c, nil
}

// Canonical returns the canonical BCP 47 form of code.
func Canonical(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	return tag.String(), true
}

// Supported implements Validator.
func (c *Catalog) Supported(code string) bool {
	canonical, ok := Canonical(code)
	return ok && c.codes.Has(canonical)
}

// Entries lists supported locales sorted by code, with English display names.
func (c *Catalog) Entries() []Entry {
	codes := sets.Sorted(c.codes)
	out := make([]Entry, 0, len(codes))
	namer := display.English.Tags()
	for _, code := range codes {
		out = append(out, Entry{Code: code, Name: namer.Name(language.MustParse(code))})
	}
	return out
}

// Check returns ErrUnsupportedLocale for the first locale v rejects.
func Check(v Validator, locales []string) error {
	for _, code := range locales {
		if !v.Supported(code) {
			return ferrors.ValidationError(fmt.Sprintf("locale %s is not available in RenderCV", code)).
				WithCause(ErrUnsupportedLocale).
				WithContext("locale", code).
				Build()
		}
	}
	return nil
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(code string) bool

// Supported implements Validator.
func (f ValidatorFunc) Supported(code string) bool { return f(code) }
