// Package catalog builds, persists and compares translation catalogs — the
// category → message-id mapping produced by scanning a workspace, plus the
// skipped call sites queued for manual review.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Build assembles a catalog from per-file extraction results. Files are
// processed in path order so repeated scans of the same tree produce
// identical catalogs regardless of extraction scheduling. Within a category,
// ids keep first-seen order and duplicates collapse to one entry.
func Build(source, pattern string, files []FileResult) *Catalog {
	sorted := make([]FileResult, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].File < sorted[j].File })

	c := &Catalog{
		Source:      source,
		Pattern:     pattern,
		GeneratedAt: time.Now().UTC(),
		Categories:  make(map[string][]string),
	}

	seen := make(map[string]map[string]bool)
	for _, fr := range sorted {
		for category, ids := range fr.Categories {
			if seen[category] == nil {
				seen[category] = make(map[string]bool)
			}
			for _, id := range ids {
				if seen[category][id] {
					continue
				}
				seen[category][id] = true
				c.Categories[category] = append(c.Categories[category], id)
			}
		}
		for _, sk := range fr.Skipped {
			c.Skipped = append(c.Skipped, SkippedSite{
				File:   fr.File,
				Line:   sk.Line,
				Source: sk.Source,
			})
		}
	}

	return c
}

// MessageCount returns the number of distinct message ids across all
// categories.
func (c *Catalog) MessageCount() int {
	n := 0
	for _, ids := range c.Categories {
		n += len(ids)
	}
	return n
}

// SaveToFile writes the catalog as indented JSON, creating parent
// directories as needed. The write goes through a temp file and rename so a
// crash never leaves a truncated catalog behind.
func (c *Catalog) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp catalog: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close catalog: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace catalog: %w", err)
	}
	return nil
}

// LoadFromFile reads a catalog previously written by SaveToFile.
func LoadFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %q: %w", path, err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %q: %w", path, err)
	}
	if c.Categories == nil {
		c.Categories = make(map[string][]string)
	}
	return &c, nil
}

// Compare reports ids added and removed in new relative to old. Categories
// with no changes are absent from the diff.
func Compare(old, new *Catalog) *Diff {
	d := &Diff{
		Added:   make(map[string][]string),
		Removed: make(map[string][]string),
	}

	for category, ids := range new.Categories {
		oldIDs := toSet(old.Categories[category])
		for _, id := range ids {
			if !oldIDs[id] {
				d.Added[category] = append(d.Added[category], id)
			}
		}
	}
	for category, ids := range old.Categories {
		newIDs := toSet(new.Categories[category])
		for _, id := range ids {
			if !newIDs[id] {
				d.Removed[category] = append(d.Removed[category], id)
			}
		}
	}

	if len(d.Added) == 0 {
		d.Added = nil
	}
	if len(d.Removed) == 0 {
		d.Removed = nil
	}
	return d
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
