package localize

import (
	"context"

	"git.home.luguber.info/inful/cvlocalize/internal/doctree"
	"git.home.luguber.info/inful/cvlocalize/internal/resolve"
)

// HeadingTableKey is the key under the locale settings holding the section
// heading translations.
const HeadingTableKey = "sections"

// Headings consumes locale.sections and renames the keys of cv.sections with
// it. The table is always removed from locale, even when it is empty or
// cv.sections is missing. Section values and order are kept. doc is not
// modified.
func Headings(doc doctree.Node) doctree.Node {
	root, ok := doc.(*doctree.Mapping)
	if !ok {
		return doc
	}
	settings, ok := doctree.LookupMapping(root, "locale")
	if !ok {
		return doc
	}
	table, ok := settings.Get(HeadingTableKey)
	if !ok {
		return doc
	}

	out := root.With("locale", settings.Without(func(key string) bool { return key == HeadingTableKey }))

	tableMapping, ok := table.(*doctree.Mapping)
	if !ok {
		return out
	}
	cv, ok := doctree.LookupMapping(out, "cv")
	if !ok {
		return out
	}
	sections, ok := doctree.LookupMapping(cv, "sections")
	if !ok {
		return out
	}

	return out.With("cv", cv.With("sections", renameKeys(sections, tableMapping)))
}

// renameKeys rebuilds sections with display names from table. When two
// sections map to the same name the later one replaces the earlier value in
// the earlier position.
func renameKeys(sections, table *doctree.Mapping) *doctree.Mapping {
	renamed := doctree.NewMapping()
	for _, e := range sections.Entries() {
		renamed.Set(displayName(e.Key, table), e.Value)
	}
	return renamed
}

func displayName(key string, table *doctree.Mapping) string {
	v, ok := table.Get(key)
	if !ok {
		return key
	}
	s, ok := v.(*doctree.Scalar)
	if !ok || s.IsNull() {
		return key
	}
	return s.Value()
}

// HeadingsAll applies Headings to every resolved document.
func HeadingsAll(ctx context.Context, h *resolve.Hoisted) (*resolve.Hoisted, error) {
	return h.Map(ctx, func(_ string, doc doctree.Node) (doctree.Node, error) {
		return Headings(doc), nil
	})
}
