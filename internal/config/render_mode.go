package config

import (
	"git.home.luguber.info/inful/cvlocalize/internal/foundation/normalization"
	"git.home.luguber.info/inful/cvlocalize/internal/resolve"
)

// RenderMode selects whether resolved documents are handed to the renderer.
type RenderMode string

const (
	RenderModeAlways RenderMode = "always"
	RenderModeNever  RenderMode = "never"
)

var renderModeNormalizer = normalization.NewNormalizer("render mode", map[string]RenderMode{
	"always": RenderModeAlways,
	"never":  RenderModeNever,
}, RenderModeAlways)

// ParseRenderMode parses a render mode given on the command line.
func ParseRenderMode(raw string) (RenderMode, error) {
	mode, err := renderModeNormalizer.Parse(raw)
	if err != nil {
		return "", invalidValue("render.mode", err)
	}
	return mode, nil
}

// MissingBranch selects what happens to a language-keyed node that has neither
// common content nor a branch for the locale being resolved.
type MissingBranch string

const (
	MissingBranchKeepEmpty MissingBranch = "keep_empty"
	MissingBranchDropKey   MissingBranch = "drop_key"
)

var missingBranchNormalizer = normalization.NewNormalizer("missing branch policy", map[string]MissingBranch{
	"keep_empty": MissingBranchKeepEmpty,
	"drop_key":   MissingBranchDropKey,
}, MissingBranchKeepEmpty)

// Policy converts the setting into the resolver policy.
func (m MissingBranch) Policy() resolve.MissingBranchPolicy {
	if m == MissingBranchDropKey {
		return resolve.DropKey
	}
	return resolve.KeepEmpty
}
