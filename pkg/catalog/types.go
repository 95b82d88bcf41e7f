package catalog

import "time"

// Catalog is the scan artifact handed to downstream translation tooling:
// every message id in use, grouped by category, plus the call sites that
// need a human to assign a key.
type Catalog struct {
	// Source is the workspace root the catalog was built from.
	Source string `json:"source,omitempty"`

	// Pattern is the translator call prefix the scan matched.
	Pattern string `json:"pattern,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`

	// Categories maps category name to its message ids, unique,
	// in first-seen order.
	Categories map[string][]string `json:"categories"`

	// Skipped lists call sites that matched the pattern but could not be
	// resolved to a literal message id.
	Skipped []SkippedSite `json:"skipped,omitempty"`
}

// SkippedSite locates one skipped call in the workspace.
type SkippedSite struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Source string `json:"source"`
}

// FileResult pairs a file path with what was extracted from it.
type FileResult struct {
	File       string
	Categories map[string][]string
	Skipped    []SkippedEntry
}

// SkippedEntry is a skipped call before its file path is attached.
type SkippedEntry struct {
	Line   int
	Source string
}

// Diff describes how one catalog's message ids changed relative to another.
type Diff struct {
	// Added maps category to ids present in the new catalog only.
	Added map[string][]string `json:"added,omitempty"`

	// Removed maps category to ids present in the old catalog only.
	Removed map[string][]string `json:"removed,omitempty"`
}

// Empty reports whether the diff contains no changes.
func (d *Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}
