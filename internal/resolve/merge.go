package resolve

import "git.home.luguber.info/inful/cvlocalize/internal/doctree"

// DeepMerge combines a and b with b taking precedence.
//
// When both are mappings the result holds a's keys in a's order, keys present
// on both sides recurse if both values are mappings and take b's value
// otherwise, and keys only in b are appended in b's order. In every other case
// b replaces a outright; sequences are never spliced. A nil b returns a.
// Neither input is modified.
func DeepMerge(a, b doctree.Node) doctree.Node {
	if b == nil {
		return a
	}
	am, aok := a.(*doctree.Mapping)
	bm, bok := b.(*doctree.Mapping)
	if !aok || !bok {
		return b
	}

	out := doctree.NewMapping(am.Entries()...)
	for _, e := range bm.Entries() {
		if prev, ok := out.Get(e.Key); ok {
			if _, prevIsMapping := prev.(*doctree.Mapping); prevIsMapping {
				if _, nextIsMapping := e.Value.(*doctree.Mapping); nextIsMapping {
					out.Set(e.Key, DeepMerge(prev, e.Value))
					continue
				}
			}
		}
		out.Set(e.Key, e.Value)
	}
	return out
}
