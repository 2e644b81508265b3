package resolve

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/cvlocalize/internal/catalog"
	"git.home.luguber.info/inful/cvlocalize/internal/doctree"
)

const multiLocaleCV = `
locale:
  en:
    language: english
  fr:
    language: french
cv:
  name: Jane Doe
  en:
    label: Engineer
  fr:
    label: Ingénieure
`

func TestHoist_OneDocumentPerLocaleInOrder(t *testing.T) {
	src := tree(t, multiLocaleCV)

	h, err := Hoist(context.Background(), src, []string{"fr", "en"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"fr", "en"}, h.Locales())
	assert.Equal(t, 2, h.Len())

	fr, ok := h.Get("fr")
	require.True(t, ok)
	requireTreeEqual(t, tree(t, "locale:\n  language: french\ncv:\n  name: Jane Doe\n  label: Ingénieure\n"), fr)

	en, ok := h.Get("en")
	require.True(t, ok)
	requireTreeEqual(t, tree(t, "locale:\n  language: english\ncv:\n  name: Jane Doe\n  label: Engineer\n"), en)

	var seen []string
	for locale := range h.All() {
		seen = append(seen, locale)
	}
	assert.Equal(t, []string{"fr", "en"}, seen)
}

func TestHoist_DocumentsAreIndependent(t *testing.T) {
	src := tree(t, multiLocaleCV)
	h, err := Hoist(context.Background(), src, []string{"en", "fr"}, nil)
	require.NoError(t, err)

	en, _ := h.Get("en")
	enCV, ok := doctree.LookupMapping(en, "cv")
	require.True(t, ok)
	enCV.Set("name", doctree.String("Changed"))

	fr, _ := h.Get("fr")
	name, ok := doctree.Lookup(fr, "cv", "name")
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", name.(*doctree.Scalar).Value())

	srcName, _ := doctree.Lookup(src, "cv", "name")
	assert.Equal(t, "Jane Doe", srcName.(*doctree.Scalar).Value())
}

func TestHoist_RewritingSharedScalarLeavesOtherLocales(t *testing.T) {
	src := tree(t, multiLocaleCV)
	h, err := Hoist(context.Background(), src, []string{"en", "fr"}, nil)
	require.NoError(t, err)

	en, _ := h.Get("en")
	enCV, ok := doctree.LookupMapping(en, "cv")
	require.True(t, ok)
	node, ok := enCV.Get("name")
	require.True(t, ok)
	enCV.Set("name", node.(*doctree.Scalar).WithValue("Changed"))

	got, _ := doctree.Lookup(en, "cv", "name")
	assert.Equal(t, "Changed", got.(*doctree.Scalar).Value())

	fr, _ := h.Get("fr")
	frName, _ := doctree.Lookup(fr, "cv", "name")
	assert.Equal(t, "Jane Doe", frName.(*doctree.Scalar).Value())
	srcName, _ := doctree.Lookup(src, "cv", "name")
	assert.Equal(t, "Jane Doe", srcName.(*doctree.Scalar).Value())
}

func TestHoist_UnsupportedLocaleBeforeAnyResolution(t *testing.T) {
	var calls atomic.Int32
	v := catalog.ValidatorFunc(func(code string) bool {
		calls.Add(1)
		return code != "xx"
	})

	h, err := Hoist(context.Background(), tree(t, multiLocaleCV), []string{"en", "xx", "fr"}, v)
	require.ErrorIs(t, err, catalog.ErrUnsupportedLocale)
	assert.Nil(t, h)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHoist_DeduplicatesLocales(t *testing.T) {
	h, err := Hoist(context.Background(), tree(t, multiLocaleCV), []string{"en", "fr", "en"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr"}, h.Locales())
}

func TestHoist_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Hoist(ctx, tree(t, multiLocaleCV), []string{"en"}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestHoist_PassesOptions(t *testing.T) {
	src := tree(t, "title:\n  en: CV\nname: X\n")
	h, err := Hoist(context.Background(), src, []string{"en", "de"}, nil, WithMissingBranchPolicy(DropKey))
	require.NoError(t, err)

	de, _ := h.Get("de")
	requireTreeEqual(t, tree(t, "name: X\n"), de)
}

func TestHoisted_MapStopsOnError(t *testing.T) {
	h, err := Hoist(context.Background(), tree(t, multiLocaleCV), []string{"en", "fr"}, nil)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = h.Map(context.Background(), func(locale string, doc doctree.Node) (doctree.Node, error) {
		if locale == "fr" {
			return nil, boom
		}
		return doc, nil
	})
	require.ErrorIs(t, err, boom)

	mapped, err := h.Map(context.Background(), func(locale string, _ doctree.Node) (doctree.Node, error) {
		return doctree.String(locale), nil
	})
	require.NoError(t, err)
	fr, _ := mapped.Get("fr")
	assert.Equal(t, "fr", fr.(*doctree.Scalar).Value())

	// The receiver is untouched.
	orig, _ := h.Get("fr")
	_, isMapping := orig.(*doctree.Mapping)
	assert.True(t, isMapping)
}
