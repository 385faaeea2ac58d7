package consultation

import (
	"testing"

	"github.com/Christ-Poyah/e-sante-ENTREPRISE/catalog"
)

func TestMatchIgnoresCaseAndDiacritics(t *testing.T) {
	items := catalog.DefaultCatalogs().Symptoms

	for _, query := range []string{"fievre", "FIÈVRE", "Fievre"} {
		got := Match(query, nil, items)
		if len(got) != 1 || got[0].Name != "fièvre" {
			t.Errorf("Match(%q) = %v, want [fièvre]", query, got)
		}
	}
}

func TestMatchSubstring(t *testing.T) {
	items := catalog.DefaultCatalogs().Symptoms

	got := Match("douleurs", nil, items)
	if len(got) != 2 {
		t.Fatalf("Expected 2 matches for 'douleurs', got %d", len(got))
	}
	// Catalog order is preserved, no re-ranking
	if got[0].Name != "douleurs musculaires" || got[1].Name != "douleurs articulaires" {
		t.Errorf("Matches out of catalog order: %v, %v", got[0].Name, got[1].Name)
	}
}

func TestMatchExcludesSelectedItems(t *testing.T) {
	items := catalog.DefaultCatalogs().Symptoms

	got := Match("douleurs", map[int]bool{8: true}, items)
	if len(got) != 1 || got[0].ID != 9 {
		t.Errorf("Expected only id 9 after excluding 8, got %v", got)
	}
}

func TestMatchEmptyQueryReturnsAllAvailable(t *testing.T) {
	items := catalog.DefaultCatalogs().Analyses

	got := Match("", map[int]bool{1: true, 3: true}, items)
	if len(got) != 3 {
		t.Errorf("Expected 3 available analyses, got %d", len(got))
	}
	for _, item := range got {
		if item.ID == 1 || item.ID == 3 {
			t.Errorf("Excluded item %d returned", item.ID)
		}
	}
}

func TestMatchNoResult(t *testing.T) {
	items := catalog.DefaultCatalogs().Symptoms

	if got := Match("zzz", nil, items); len(got) != 0 {
		t.Errorf("Expected no matches, got %v", got)
	}
}

func TestExactMatch(t *testing.T) {
	items := catalog.DefaultCatalogs().Symptoms

	item, ok := ExactMatch("fievre", items)
	if !ok || item.ID != 1 {
		t.Errorf("ExactMatch(fievre) = %v, %v; want fièvre", item, ok)
	}

	// A prefix is not an exact match
	if _, ok := ExactMatch("fiè", items); ok {
		t.Error("Expected prefix not to match exactly")
	}

	if _, ok := ExactMatch("", items); ok {
		t.Error("Expected empty query not to match")
	}
}
