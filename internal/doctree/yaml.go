package doctree

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedKey indicates a mapping key that is not a scalar.
var ErrUnsupportedKey = errors.New("unsupported non-scalar mapping key")

const mergeTag = "!!merge"

// Decode parses YAML bytes into a tree. An empty document yields an empty mapping.
func Decode(data []byte) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return NewMapping(), nil
	}
	return FromYAML(&doc)
}

// FromYAML converts a yaml.v3 node into a tree. Aliases are expanded and
// merge keys ("<<") are folded into the enclosing mapping; explicit keys win.
func FromYAML(n *yaml.Node) (Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NewMapping(), nil
		}
		return FromYAML(n.Content[0])
	case yaml.AliasNode:
		return FromYAML(n.Alias)
	case yaml.SequenceNode:
		items := make([]Node, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := FromYAML(c)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return &Sequence{items: items}, nil
	case yaml.MappingNode:
		return mappingFromYAML(n)
	case yaml.ScalarNode:
		return NewScalar(n.Value, n.ShortTag(), n.Style&^yaml.TaggedStyle), nil
	default:
		return nil, fmt.Errorf("unexpected yaml node kind %d at line %d", n.Kind, n.Line)
	}
}

func mappingFromYAML(n *yaml.Node) (*Mapping, error) {
	out := NewMapping()
	var merged []*Mapping
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]
		if keyNode.Kind == yaml.AliasNode {
			keyNode = keyNode.Alias
		}
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w at line %d", ErrUnsupportedKey, keyNode.Line)
		}
		if keyNode.ShortTag() == mergeTag {
			sources, err := mergeSources(valNode)
			if err != nil {
				return nil, err
			}
			merged = append(merged, sources...)
			continue
		}
		value, err := FromYAML(valNode)
		if err != nil {
			return nil, err
		}
		out.Set(keyNode.Value, value)
	}
	for _, src := range merged {
		for _, e := range src.Entries() {
			if !out.Has(e.Key) {
				out.Set(e.Key, e.Value)
			}
		}
	}
	return out, nil
}

func mergeSources(v *yaml.Node) ([]*Mapping, error) {
	if v.Kind == yaml.SequenceNode {
		var out []*Mapping
		for _, c := range v.Content {
			more, err := mergeSources(c)
			if err != nil {
				return nil, err
			}
			out = append(out, more...)
		}
		return out, nil
	}
	n, err := FromYAML(v)
	if err != nil {
		return nil, err
	}
	m, ok := n.(*Mapping)
	if !ok {
		return nil, fmt.Errorf("merge key value must be a mapping at line %d", v.Line)
	}
	return []*Mapping{m}, nil
}

// ToYAML converts a tree into a yaml.v3 node suitable for encoding.
func ToYAML(n Node) *yaml.Node {
	switch v := n.(type) {
	case *Mapping:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range v.Entries() {
			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				ToYAML(e.Value))
		}
		return out
	case *Sequence:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items() {
			out.Content = append(out.Content, ToYAML(item))
		}
		return out
	case *Scalar:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: v.tag, Value: v.value, Style: v.style}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// Encode serializes a tree as YAML with two-space indentation.
func Encode(n Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ToYAML(n)); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
