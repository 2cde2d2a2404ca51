package picker

import (
	"testing"
	"time"

	"github.com/Paintersrp/zortex/internal/index"
	"github.com/Paintersrp/zortex/internal/resolver"
	"github.com/Paintersrp/zortex/internal/search"
)

func TestEntryLabelMarksContext(t *testing.T) {
	e := search.Entry{Name: "recipes", Breadcrumb: "Recipes>Breakfast", Line: 3}
	if got := entryLabel(e); got != "recipes: Recipes>Breakfast (3)" {
		t.Fatalf("unexpected label %q", got)
	}

	e.Context = true
	if got := entryLabel(e); got != "  ↳ recipes: Recipes>Breakfast (3)" {
		t.Fatalf("unexpected context label %q", got)
	}
}

func TestPreviewTextUsesSection(t *testing.T) {
	doc := index.NewDocument("/n/r.zortex", []byte("@@Recipes\n# Breakfast\nEggs\n# Lunch\nSoup\n"), time.Time{})
	e := search.Entry{Line: 2, Text: "# Breakfast", Document: doc}

	if got := previewText(e); got != "# Breakfast\nEggs" {
		t.Fatalf("unexpected preview %q", got)
	}

	e.Document = nil
	if got := previewText(e); got != "# Breakfast" {
		t.Fatalf("expected the entry text without a document, got %q", got)
	}
}

func TestMatchLabelsAreDistinct(t *testing.T) {
	labels := matchLabels([]resolver.Match{
		{Name: "a", Line: 2, Text: "# Steps"},
		{Name: "a", Line: 9, Text: "# Steps"},
	})
	if labels[0] == labels[1] {
		t.Fatalf("expected distinct labels, got %v", labels)
	}
}

func TestMatchReturnsSingleWithoutPrompt(t *testing.T) {
	m, err := Match([]resolver.Match{{Name: "only", Line: 1}})
	if err != nil || m.Name != "only" {
		t.Fatalf("expected the only match, got %+v, %v", m, err)
	}
	if _, err := Match(nil); err == nil {
		t.Fatalf("expected an error for no matches")
	}
}
