package resolve

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/cvlocalize/internal/catalog"
	"git.home.luguber.info/inful/cvlocalize/internal/doctree"
	"git.home.luguber.info/inful/cvlocalize/internal/util/sets"
)

// Hoisted holds one resolved document per locale, in declaration order.
type Hoisted struct {
	locales []string
	docs    map[string]doctree.Node
}

// Locales returns the locales in declaration order.
func (h *Hoisted) Locales() []string {
	out := make([]string, len(h.locales))
	copy(out, h.locales)
	return out
}

// Len returns the number of resolved documents.
func (h *Hoisted) Len() int { return len(h.locales) }

// Get returns the document resolved for locale.
func (h *Hoisted) Get(locale string) (doctree.Node, bool) {
	doc, ok := h.docs[locale]
	return doc, ok
}

// All iterates locale/document pairs in declaration order.
func (h *Hoisted) All() iter.Seq2[string, doctree.Node] {
	return func(yield func(string, doctree.Node) bool) {
		for _, locale := range h.locales {
			if !yield(locale, h.docs[locale]) {
				return
			}
		}
	}
}

// Map applies fn to every document concurrently and returns a new Hoisted
// holding the results. When several locales fail, the error of the earliest
// declared locale is returned so failures are reported deterministically.
func (h *Hoisted) Map(ctx context.Context, fn func(locale string, doc doctree.Node) (doctree.Node, error)) (*Hoisted, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := make([]doctree.Node, len(h.locales))
	errs := make([]error, len(h.locales))
	var g errgroup.Group
	for i, locale := range h.locales {
		doc := h.docs[locale]
		g.Go(func() error {
			results[i], errs[i] = fn(locale, doc)
			return nil
		})
	}
	_ = g.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return newHoisted(h.locales, results), nil
}

func newHoisted(locales []string, docs []doctree.Node) *Hoisted {
	h := &Hoisted{
		locales: append([]string(nil), locales...),
		docs:    make(map[string]doctree.Node, len(locales)),
	}
	for i, locale := range locales {
		h.docs[locale] = docs[i]
	}
	return h
}

// Hoist resolves doc once per locale. Every locale is checked with v before
// any document is resolved, so an unsupported locale yields no output at all.
// A nil v skips the check. Duplicate locales are resolved once.
//
// Each resolution reads the shared source tree and locale set and writes only
// its own result, so the per-locale work runs in parallel.
func Hoist(ctx context.Context, doc doctree.Node, locales []string, v catalog.Validator, opts ...Option) (*Hoisted, error) {
	locales = sets.Unique(locales)
	if v != nil {
		if err := catalog.Check(v, locales); err != nil {
			return nil, err
		}
	}

	set := sets.New(locales...)
	results := make([]doctree.Node, len(locales))
	g, gctx := errgroup.WithContext(ctx)
	for i, locale := range locales {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Resolve(doc, locale, set, opts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return newHoisted(locales, results), nil
}
