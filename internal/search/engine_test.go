package search

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/Paintersrp/zortex/internal/history"
	"github.com/Paintersrp/zortex/internal/index"
	"github.com/Paintersrp/zortex/internal/section"
)

const exampleCorpus = `@@Article
# 1
A label:
B label:
## apple
Label 1:
### Breakfast
Label 2:
## C
### amazing
# 2
## Apple
## 1
another label:
### another`

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type staticCorpus []*index.Document

func (c staticCorpus) Documents() ([]*index.Document, error) {
	return c, nil
}

func corpus(files map[string]string) staticCorpus {
	var docs staticCorpus
	for path, content := range files {
		docs = append(docs, index.NewDocument(path, []byte(content), testNow.Add(-24*time.Hour)))
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs
}

func newTestEngine(c Corpus, scorer Scorer, cfg Config) *Engine {
	e := NewEngine(c, scorer, cfg)
	e.now = func() time.Time { return testNow }
	return e
}

func breadcrumbs(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Breadcrumb
	}
	return out
}

func TestHierarchicalSearchExample(t *testing.T) {
	e := newTestEngine(corpus(map[string]string{"example.zortex": exampleCorpus}), nil, DefaultConfig())

	entries, err := e.Search([]string{"1", "a"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	got := breadcrumbs(entries)
	sort.Strings(got)
	want := []string{
		"1>A label",
		"1>C>amazing",
		"1>apple",
		"1>apple>Breakfast",
		"1>apple>Label 1",
		"2>1>another",
		"2>1>another label",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected entries:\n%s\nexpected:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}

	for _, entry := range entries {
		context := entry.Breadcrumb == "1>apple>Breakfast" || entry.Breadcrumb == "1>apple>Label 1"
		if entry.Context != context {
			t.Fatalf("%s: expected context=%v", entry.Breadcrumb, context)
		}
		if context && entry.Factors.Hierarchical != 0 {
			t.Fatalf("%s: context entries should not get the hierarchical bonus", entry.Breadcrumb)
		}
		if !context && entry.Factors.Hierarchical != 1 {
			t.Fatalf("%s: expected hierarchical bonus", entry.Breadcrumb)
		}
	}
}

func TestHierarchicalSearchBacktracks(t *testing.T) {
	doc := "@@Notes\n# Plan one\nnothing here\n# Plan two\n## Target\n"
	e := newTestEngine(corpus(map[string]string{"n.zortex": doc}), nil, DefaultConfig())

	entries, err := e.Search([]string{"plan", "target"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Breadcrumb != "Plan two>Target" || entries[0].Line != 5 {
		t.Fatalf("expected chain through the second heading, got %+v", breadcrumbs(entries))
	}

	entries, err = e.Search([]string{"nothing", "target"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected text lines not to open a scope, got %v", breadcrumbs(entries))
	}
}

func TestSingleTokenRanksHeadingAboveLabel(t *testing.T) {
	doc := "@@Food\nfruit:\n- pear\n\n# Fruit\nsome fruit text\n"
	e := newTestEngine(corpus(map[string]string{"food.zortex": doc}), nil, DefaultConfig())

	entries, err := e.Search([]string{"fruit"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected label, heading and text matches, got %v", breadcrumbs(entries))
	}
	if entries[0].Kind != section.Heading || entries[1].Kind != section.Label {
		t.Fatalf("expected heading before label, got %s then %s", entries[0].Kind, entries[1].Kind)
	}
	if entries[0].Score <= entries[1].Score {
		t.Fatalf("expected heading to outscore label: %v <= %v", entries[0].Score, entries[1].Score)
	}
	if entries[2].Breadcrumb != "Fruit>some fruit text" {
		t.Fatalf("unexpected text breadcrumb %q", entries[2].Breadcrumb)
	}
}

func TestSingleTokenHeadingPrecedesHigherScoringLabel(t *testing.T) {
	docs := corpus(map[string]string{
		"inside.zortex":  "@@Doc\n# Red apple\napple:\n",
		"before.zortex":  "@@Doc\napple:\n\n# Red apple\n",
		"sibling.zortex": "@@Doc\n# Fruit\napple:\n# Red apple\n",
	})
	e := newTestEngine(docs, nil, DefaultConfig())

	entries, err := e.Search([]string{"apple"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	headingAt := make(map[string]int)
	for i, entry := range entries {
		switch entry.Kind {
		case section.Heading:
			headingAt[entry.Path] = i
		case section.Label:
			at, ok := headingAt[entry.Path]
			if !ok {
				t.Fatalf("label of %s ranked before its heading: %v", entry.Path, breadcrumbs(entries))
			}
			if at > i {
				t.Fatalf("unexpected order in %s", entry.Path)
			}
		}
	}
	if len(headingAt) != 3 {
		t.Fatalf("expected a heading match per document, got %v", breadcrumbs(entries))
	}
}

func TestSingleTokenDoesNotMatchMidWord(t *testing.T) {
	e := newTestEngine(corpus(map[string]string{"fruit.zortex": "@@Fruit\n# Apple\napple pie\n"}), nil, DefaultConfig())

	entries, err := e.Search([]string{"pple"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no mid-word matches, got %v", breadcrumbs(entries))
	}
}

func TestWordPrefixMatching(t *testing.T) {
	tests := []struct {
		text, token   string
		match, atHead bool
	}{
		{"Breakfast", "a", false, false},
		{"A label", "a", true, true},
		{"Label 1", "1", true, false},
		{"another-label", "lab", true, false},
		{"Apple", "APP", true, true},
		{"", "a", false, false},
	}
	for _, tt := range tests {
		match, atHead := wordPrefix(tt.text, tt.token)
		if match != tt.match || atHead != tt.atHead {
			t.Errorf("wordPrefix(%q, %q) = %v, %v; expected %v, %v", tt.text, tt.token, match, atHead, tt.match, tt.atHead)
		}
	}
}

func TestHistoryBoostsSelectedSection(t *testing.T) {
	docs := corpus(map[string]string{
		"a.zortex": "@@A\n# apple",
		"b.zortex": "@@B\n# apple",
	})

	plain := newTestEngine(docs, nil, DefaultConfig())
	entries, err := plain.Search([]string{"apple"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if entries[0].Path != "a.zortex" {
		t.Fatalf("expected path order on ties, got %s first", entries[0].Path)
	}

	h := history.New(history.DefaultConfig(), history.WithClock(func() time.Time { return testNow }))
	if _, err := h.Record(entries[1].Selection([]string{"apple"})); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	boosted := newTestEngine(docs, h, DefaultConfig())
	entries, err = boosted.Search([]string{"apple"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if entries[0].Path != "b.zortex" || entries[0].Factors.History <= 0 {
		t.Fatalf("expected history to lift b.zortex, got %+v", entries[0])
	}
}

func TestEmptyQueryListsDocuments(t *testing.T) {
	docs := corpus(map[string]string{
		"a.zortex": "@@A\ntext",
		"b.zortex": "@@B",
		"c.zortex": "",
	})
	e := newTestEngine(docs, nil, DefaultConfig())

	entries, err := e.Search(Tokenize("   "))
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected one entry per document, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.Factors.Relevance != 0 || entry.Score <= 0 {
			t.Fatalf("expected recency-only ranking, got %+v", entry.Factors)
		}
	}
}

func TestMaxResultsAndFloor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxResults = 2
	e := newTestEngine(corpus(map[string]string{"example.zortex": exampleCorpus}), nil, cfg)

	entries, err := e.Search([]string{"a"})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected results to be capped at 2, got %d", len(entries))
	}

	if got := cfg.withDefaults().total(Factors{Relevance: 1, Section: 1}, 2, false); got != cfg.Floor {
		t.Fatalf("expected floor score %v for unmatched entry, got %v", cfg.Floor, got)
	}
}

func TestTokenize(t *testing.T) {
	if got := Tokenize("  1\ta  apple "); strings.Join(got, ",") != "1,a,apple" {
		t.Fatalf("unexpected tokens %v", got)
	}
}
