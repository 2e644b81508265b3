package normalization

import (
	"strings"
	"testing"
)

type testEnum string

const (
	testEnumAlpha testEnum = "alpha"
	testEnumBeta  testEnum = "beta"
)

func newTestNormalizer() *Normalizer[testEnum] {
	return NewNormalizer("test mode", map[string]testEnum{
		"alpha": testEnumAlpha,
		"Beta":  testEnumBeta,
		"b":     testEnumBeta,
	}, testEnumAlpha)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newTestNormalizer()
	tests := []struct {
		name     string
		input    string
		expected testEnum
	}{
		{"exact match", "alpha", testEnumAlpha},
		{"case insensitive", "BETA", testEnumBeta},
		{"with spaces", "  b  ", testEnumBeta},
		{"empty", "", testEnumAlpha},
		{"invalid input", "gamma", testEnumAlpha},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizer_Parse(t *testing.T) {
	n := newTestNormalizer()

	if v, err := n.Parse(" Beta"); err != nil || v != testEnumBeta {
		t.Errorf("Parse(Beta) = %v, %v", v, err)
	}
	if v, err := n.Parse(""); err != nil || v != testEnumAlpha {
		t.Errorf("Parse(\"\") = %v, %v; want default", v, err)
	}

	_, err := n.Parse("gamma")
	if err == nil {
		t.Fatal("expected error for unknown value")
	}
	if !strings.Contains(err.Error(), `invalid test mode "gamma"`) || !strings.Contains(err.Error(), "alpha, b, beta") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestNormalizer_ValidKeysIsCopy(t *testing.T) {
	n := newTestNormalizer()
	keys := n.ValidKeys()
	keys[0] = "changed"
	if n.ValidKeys()[0] != "alpha" {
		t.Error("ValidKeys must return a copy")
	}
}
