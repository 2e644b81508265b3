package sets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetMembership(t *testing.T) {
	s := New("en", "fr")
	assert.True(t, s.Has("en"))
	assert.False(t, s.Has("de"))
	assert.Equal(t, 2, s.Len())

	var empty Set[string]
	assert.False(t, empty.Has("en"))
}

func TestCloneIsIndependent(t *testing.T) {
	s := New("en")
	c := s.Clone()
	c.Add("fr")
	assert.False(t, s.Has("fr"))
	assert.True(t, c.Has("fr"))
}

func TestSortedAndUnique(t *testing.T) {
	assert.Equal(t, []string{"de", "en", "fr"}, Sorted(New("fr", "en", "de")))
	assert.Equal(t, []string{"fr", "en", "de"}, Unique([]string{"fr", "en", "fr", "de", "en"}))
	assert.Empty(t, Unique[string](nil))
}
