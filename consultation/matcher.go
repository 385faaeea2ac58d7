package consultation

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/search"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/catalog"
)

// frenchMatcher folds case and diacritics so "fievre" finds "fièvre".
// search.Matcher is not safe for concurrent use, so Match builds patterns
// per call from the shared language tag.
var frenchTag = language.French

// Match returns the catalog items whose name contains the query, preserving
// catalog order. Items whose id appears in exclude are skipped so an already
// selected item is never offered again. An empty query matches everything
// still available.
func Match(query string, exclude map[int]bool, items []catalog.Item) []catalog.Item {
	var out []catalog.Item

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		for _, item := range items {
			if !exclude[item.ID] {
				out = append(out, item)
			}
		}
		return out
	}

	matcher := search.New(frenchTag, search.Loose)
	pattern := matcher.CompileString(trimmed)

	for _, item := range items {
		if exclude[item.ID] {
			continue
		}
		if start, _ := pattern.IndexString(item.Name); start >= 0 {
			out = append(out, item)
		}
	}

	return out
}

// ExactMatch returns the single catalog item whose name equals the query
// under loose folding, or false when none does.
func ExactMatch(query string, items []catalog.Item) (catalog.Item, bool) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return catalog.Item{}, false
	}

	matcher := search.New(frenchTag, search.Loose)
	pattern := matcher.CompileString(trimmed)

	for _, item := range items {
		if start, end := pattern.IndexString(item.Name); start == 0 && end == len(item.Name) {
			return item, true
		}
	}

	return catalog.Item{}, false
}
