package catalog

import "sort"

// QueryService provides read access to a catalog for the MCP tool surface.
type QueryService struct {
	catalog *Catalog
}

// NewQueryService wraps a catalog for querying.
func NewQueryService(c *Catalog) *QueryService {
	return &QueryService{catalog: c}
}

// Catalog returns the underlying catalog.
func (qs *QueryService) Catalog() *Catalog {
	return qs.catalog
}

// Categories returns all category names, sorted, each with its message count.
func (qs *QueryService) Categories() []CategorySummary {
	out := make([]CategorySummary, 0, len(qs.catalog.Categories))
	for name, ids := range qs.catalog.Categories {
		out = append(out, CategorySummary{Name: name, MessageCount: len(ids)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CategorySummary names a category and counts its messages.
type CategorySummary struct {
	Name         string `json:"name"`
	MessageCount int    `json:"message_count"`
}

// Messages returns the ids under a category in first-seen order.
// ok is false when the category does not exist.
func (qs *QueryService) Messages(category string) (ids []string, ok bool) {
	ids, ok = qs.catalog.Categories[category]
	return ids, ok
}

// Skipped returns the call sites queued for manual review.
func (qs *QueryService) Skipped() []SkippedSite {
	return qs.catalog.Skipped
}
