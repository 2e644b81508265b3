// Package workspace manages the directories resolved documents are written to
// before rendering, supporting both ephemeral and persistent modes.
//
// Ephemeral mode creates a run-scoped directory (e.g. cvlocalize-<run id>)
// under the system temp dir and removes it completely on Cleanup, unless the
// workspace was asked to keep its files for inspection.
//
// Persistent mode uses a fixed directory path (e.g. the output directory of the
// resolve command) that is never removed.
package workspace
