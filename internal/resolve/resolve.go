// Package resolve turns a multi-locale document tree into locale-specific trees.
//
// A mapping whose keys include any declared locale code is a branch point: its
// non-locale keys are the common content shared by every locale, and the entry
// under the requested locale (if any) is deep-merged over that common content.
// Every other node is walked unchanged. The declared locale set is the full
// list for the document, not just the locale being resolved, so branches for
// other locales are stripped rather than mistaken for content.
package resolve

import (
	"git.home.luguber.info/inful/cvlocalize/internal/doctree"
	"git.home.luguber.info/inful/cvlocalize/internal/util/sets"
)

// MissingBranchPolicy decides what a branch point resolves to when it has no
// common content and no entry for the requested locale.
type MissingBranchPolicy int

const (
	// KeepEmpty resolves the branch point to an empty mapping, so the parent
	// keeps its key with an empty value.
	KeepEmpty MissingBranchPolicy = iota
	// DropKey removes the branch point: its parent mapping omits the key and a
	// parent sequence omits the element.
	DropKey
)

func (p MissingBranchPolicy) String() string {
	if p == DropKey {
		return "drop_key"
	}
	return "keep_empty"
}

// Options tunes resolution.
type Options struct {
	MissingBranch MissingBranchPolicy
}

// Option mutates Options.
type Option func(*Options)

// WithMissingBranchPolicy selects the degenerate branch point behaviour.
func WithMissingBranchPolicy(p MissingBranchPolicy) Option {
	return func(o *Options) { o.MissingBranch = p }
}

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// IsLocaleKey reports whether a mapping key selects a language branch.
func IsLocaleKey(key string, locales sets.Set[string]) bool {
	return locales.Has(key)
}

// Resolve returns the tree for one locale. It never fails and never modifies
// node. Unchanged scalars are shared with the input; containers are new.
func Resolve(node doctree.Node, locale string, locales sets.Set[string], opts ...Option) doctree.Node {
	r := resolver{locale: locale, locales: locales, opts: buildOptions(opts)}
	out, ok := r.node(node)
	if !ok {
		return doctree.NewMapping()
	}
	return out
}

type resolver struct {
	locale  string
	locales sets.Set[string]
	opts    Options
}

// node returns false when the node resolved to nothing under DropKey.
func (r resolver) node(n doctree.Node) (doctree.Node, bool) {
	switch v := n.(type) {
	case *doctree.Mapping:
		return r.mapping(v)
	case *doctree.Sequence:
		items := make([]doctree.Node, 0, v.Len())
		for _, item := range v.Items() {
			if out, ok := r.node(item); ok {
				items = append(items, out)
			}
		}
		return doctree.NewSequence(items...), true
	default:
		return n, true
	}
}

func (r resolver) mapping(m *doctree.Mapping) (doctree.Node, bool) {
	if !r.isBranchPoint(m) {
		return r.plain(m), true
	}

	common := m.Without(func(key string) bool { return IsLocaleKey(key, r.locales) })
	commonResolved := r.plain(common)

	if selected, ok := m.Get(r.locale); ok && !isNull(selected) {
		if selectedResolved, ok := r.node(selected); ok {
			return DeepMerge(commonResolved, selectedResolved), true
		}
	}

	if common.Len() == 0 && r.opts.MissingBranch == DropKey {
		return nil, false
	}
	return commonResolved, true
}

// plain resolves every value of a mapping that is not a branch point itself.
func (r resolver) plain(m *doctree.Mapping) *doctree.Mapping {
	out := doctree.NewMapping()
	for _, e := range m.Entries() {
		if v, ok := r.node(e.Value); ok {
			out.Set(e.Key, v)
		}
	}
	return out
}

func (r resolver) isBranchPoint(m *doctree.Mapping) bool {
	for _, key := range m.Keys() {
		if IsLocaleKey(key, r.locales) {
			return true
		}
	}
	return false
}

// An explicit null under a locale key counts as "no branch for this locale".
func isNull(n doctree.Node) bool {
	s, ok := n.(*doctree.Scalar)
	return ok && s.IsNull()
}
