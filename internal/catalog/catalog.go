// Package catalog loads the curated restaurant list and derives the
// category/filter views the picker consumes.
package catalog

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/picker-cli/internal/model"
)

// Categories returns the distinct categories of the given candidates,
// deduplicated and sorted ascending.
func Categories(candidates []model.Candidate) []string {
	seen := make(map[string]struct{}, len(candidates))
	var out []string
	for _, c := range candidates {
		if _, ok := seen[c.Category]; ok {
			continue
		}
		seen[c.Category] = struct{}{}
		out = append(out, c.Category)
	}
	sort.Strings(out)
	return out
}

// Filter returns the candidates whose category is in selected, preserving
// catalog order. An empty selection means "no filter" and returns the full
// set, not an empty one.
func Filter(candidates []model.Candidate, selected []string) []model.Candidate {
	if len(selected) == 0 {
		return candidates
	}
	want := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		want[s] = struct{}{}
	}
	var out []model.Candidate
	for _, c := range candidates {
		if _, ok := want[c.Category]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Validate checks that every candidate has a non-empty name and category.
// Duplicate names are allowed; the catalog is curated, not keyed.
func Validate(candidates []model.Candidate) error {
	for i, c := range candidates {
		if c.Name == "" {
			return eris.Errorf("catalog: entry %d has empty name", i)
		}
		if c.Category == "" {
			return eris.Errorf("catalog: entry %d (%s) has empty category", i, c.Name)
		}
	}
	return nil
}

// CountByCategory returns per-category candidate counts for reporting.
func CountByCategory(candidates []model.Candidate) map[string]int {
	counts := make(map[string]int)
	for _, c := range candidates {
		counts[c.Category]++
	}
	return counts
}
