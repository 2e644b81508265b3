package doctree

// Clone returns a deep copy of n. Scalars are copied too so the result shares
// nothing with the input.
func Clone(n Node) Node {
	switch v := n.(type) {
	case *Mapping:
		out := NewMapping()
		for _, e := range v.Entries() {
			out.Set(e.Key, Clone(e.Value))
		}
		return out
	case *Sequence:
		items := make([]Node, 0, v.Len())
		for _, item := range v.Items() {
			items = append(items, Clone(item))
		}
		return &Sequence{items: items}
	case *Scalar:
		c := *v
		return &c
	default:
		return nil
	}
}

// Equal reports structural equality. Mapping key order is ignored; sequence
// order is not. Scalars compare by tag and value text.
func Equal(a, b Node) bool {
	switch av := a.(type) {
	case *Mapping:
		bv, ok := b.(*Mapping)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, e := range av.Entries() {
			other, ok := bv.Get(e.Key)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	case *Sequence:
		bv, ok := b.(*Sequence)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for i := range av.items {
			if !Equal(av.items[i], bv.items[i]) {
				return false
			}
		}
		return true
	case *Scalar:
		bv, ok := b.(*Scalar)
		return ok && av.tag == bv.tag && av.value == bv.value
	default:
		return a == nil && b == nil
	}
}
