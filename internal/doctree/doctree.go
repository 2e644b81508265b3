// Package doctree models a YAML document as an explicit tree of mappings,
// sequences and scalars.
//
// The tree is the unit of work for locale resolution. Mappings keep their
// insertion order so a resolved document dumps back out in the same shape the
// author wrote it. Values are treated as immutable once built: every
// transformation in this module returns new containers and shares unchanged
// scalars.
package doctree

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// Kind discriminates the three node shapes.
type Kind int

const (
	KindMapping Kind = iota + 1
	KindSequence
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// Node is one of *Mapping, *Sequence or *Scalar.
type Node interface {
	Kind() Kind
	sealed()
}

// Entry is a single key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value Node
}

// Mapping is an ordered collection of unique string keys.
type Mapping struct {
	entries []Entry
	index   map[string]int
}

// NewMapping builds a mapping from entries. A repeated key replaces the
// earlier value but keeps the earlier position.
func NewMapping(entries ...Entry) *Mapping {
	m := &Mapping{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

func (*Mapping) Kind() Kind { return KindMapping }
func (*Mapping) sealed()    {}

// Set adds or replaces key. It is meant for building a mapping; once a
// mapping has been handed to another component it must not be changed.
func (m *Mapping) Set(key string, value Node) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Node, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Keys returns the keys in order.
func (m *Mapping) Keys() []string {
	keys := make([]string, 0, m.Len())
	for _, e := range m.Entries() {
		keys = append(keys, e.Key)
	}
	return keys
}

// Entries returns a copy of the ordered entries.
func (m *Mapping) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Without returns a new mapping holding every entry for which drop is false.
func (m *Mapping) Without(drop func(key string) bool) *Mapping {
	out := NewMapping()
	for _, e := range m.Entries() {
		if drop(e.Key) {
			continue
		}
		out.Set(e.Key, e.Value)
	}
	return out
}

// With returns a copy of m with key set to value.
func (m *Mapping) With(key string, value Node) *Mapping {
	out := NewMapping(m.Entries()...)
	out.Set(key, value)
	return out
}

// Sequence is an ordered list of nodes.
type Sequence struct {
	items []Node
}

// NewSequence builds a sequence from items.
func NewSequence(items ...Node) *Sequence {
	out := make([]Node, len(items))
	copy(out, items)
	return &Sequence{items: out}
}

func (*Sequence) Kind() Kind { return KindSequence }
func (*Sequence) sealed()    {}

// Len returns the number of items.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// At returns the i-th item.
func (s *Sequence) At(i int) Node { return s.items[i] }

// Items returns a copy of the items.
func (s *Sequence) Items() []Node {
	if s == nil {
		return nil
	}
	out := make([]Node, len(s.items))
	copy(out, s.items)
	return out
}

// Scalar is an opaque YAML scalar. It cannot be changed once built, so
// resolved documents may share scalars with each other and with the source.
type Scalar struct {
	value string
	tag   string
	style yaml.Style
}

// NewScalar builds a scalar from its text and resolved short tag ("!!str",
// "!!int", "!!bool", "!!null", ...).
func NewScalar(value, tag string, style yaml.Style) *Scalar {
	return &Scalar{value: value, tag: tag, style: style}
}

func (*Scalar) Kind() Kind { return KindScalar }
func (*Scalar) sealed()    {}

// Value returns the scalar text.
func (s *Scalar) Value() string { return s.value }

// Tag returns the resolved short tag.
func (s *Scalar) Tag() string { return s.tag }

// Style returns the presentation style used when encoding.
func (s *Scalar) Style() yaml.Style { return s.style }

// IsNull reports whether the scalar is a YAML null.
func (s *Scalar) IsNull() bool { return s == nil || s.tag == "!!null" }

// IsString reports whether the scalar is a string.
func (s *Scalar) IsString() bool { return s != nil && s.tag == "!!str" }

// WithValue returns a copy of s holding a new value text.
func (s *Scalar) WithValue(v string) *Scalar {
	return &Scalar{value: v, tag: s.tag, style: s.style}
}

// String returns a string scalar.
func String(v string) *Scalar { return &Scalar{value: v, tag: "!!str"} }

// Lookup walks nested containers along path. Segments select mapping keys;
// on a sequence a segment is parsed as a zero-based index.
func Lookup(n Node, path ...string) (Node, bool) {
	cur := n
	for _, key := range path {
		switch c := cur.(type) {
		case *Mapping:
			next, ok := c.Get(key)
			if !ok {
				return nil, false
			}
			cur = next
		case *Sequence:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= c.Len() {
				return nil, false
			}
			cur = c.At(i)
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}

// LookupMapping is Lookup restricted to a mapping result.
func LookupMapping(n Node, path ...string) (*Mapping, bool) {
	found, ok := Lookup(n, path...)
	if !ok {
		return nil, false
	}
	m, ok := found.(*Mapping)
	return m, ok
}
