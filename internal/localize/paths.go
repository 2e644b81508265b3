// Package localize post-processes resolved documents: it fills the locale into
// output paths and retargets section headings.
package localize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/cvlocalize/internal/doctree"
	ferrors "git.home.luguber.info/inful/cvlocalize/internal/foundation/errors"
	"git.home.luguber.info/inful/cvlocalize/internal/resolve"
)

// LocaleToken is the placeholder replaced by the locale code in output paths.
const LocaleToken = "LOCALE"

const pathSuffix = "_path"

// ErrMissingLocaleToken indicates an output path setting without LocaleToken.
var ErrMissingLocaleToken = errors.New("missing LOCALE token in path setting")

// Paths returns doc with LocaleToken replaced by locale in every string
// setting under settings.render_command whose key ends in "_path". A path
// without the token fails with ErrMissingLocaleToken. doc is not modified.
func Paths(locale string, doc doctree.Node) (doctree.Node, error) {
	root, ok := doc.(*doctree.Mapping)
	if !ok {
		return doc, nil
	}
	settings, ok := doctree.LookupMapping(root, "settings")
	if !ok {
		return doc, nil
	}
	renderCommand, ok := doctree.LookupMapping(settings, "render_command")
	if !ok {
		return doc, nil
	}

	rebuilt := doctree.NewMapping()
	for _, e := range renderCommand.Entries() {
		s, isScalar := e.Value.(*doctree.Scalar)
		if !strings.HasSuffix(e.Key, pathSuffix) || !isScalar || !s.IsString() {
			rebuilt.Set(e.Key, e.Value)
			continue
		}
		if !strings.Contains(s.Value(), LocaleToken) {
			return nil, ferrors.ValidationError(fmt.Sprintf("path '%s' must include '%s' keyword", e.Key, LocaleToken)).
				WithCause(ErrMissingLocaleToken).
				WithContext("key", e.Key).
				WithContext("locale", locale).
				Build()
		}
		rebuilt.Set(e.Key, s.WithValue(strings.ReplaceAll(s.Value(), LocaleToken, locale)))
	}

	return root.With("settings", settings.With("render_command", rebuilt)), nil
}

// PathsAll applies Paths to every resolved document.
func PathsAll(ctx context.Context, h *resolve.Hoisted) (*resolve.Hoisted, error) {
	return h.Map(ctx, Paths)
}
