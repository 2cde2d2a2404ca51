// Package search ranks sections of the corpus against free-text tokens,
// narrowing each token to the sections matched by the previous one.
package search

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Paintersrp/zortex/internal/history"
	"github.com/Paintersrp/zortex/internal/index"
	"github.com/Paintersrp/zortex/internal/section"
)

// Corpus supplies the documents to search.
type Corpus interface {
	Documents() ([]*index.Document, error)
}

// Scorer supplies selection history. *history.History implements it.
type Scorer interface {
	Score(file string, path []section.Ref, now time.Time) float64
	Frequency(file string, now time.Time) float64
}

// Entry is one ranked result.
type Entry struct {
	Path        string        `json:"path"`
	Name        string        `json:"name"`
	Line        int           `json:"line"`
	Text        string        `json:"text"`
	Kind        section.Kind  `json:"kind"`
	SectionPath []section.Ref `json:"section_path"`
	Breadcrumb  string        `json:"breadcrumb"`
	Factors     Factors       `json:"factors"`
	Score       float64       `json:"score"`
	// Context marks child sections listed under a hierarchical match.
	Context  bool            `json:"context,omitempty"`
	Document *index.Document `json:"-"`

	priority int
}

// Selection converts the entry into a history record for tokens.
func (e Entry) Selection(tokens []string) history.Selection {
	path := e.SectionPath
	if e.Document != nil {
		path = e.Document.Tree.Refs(e.Document.Tree.Owner(e.Line))
	}
	return history.Selection{File: e.Path, SectionPath: path, Tokens: tokens}
}

// Engine runs searches.
type Engine struct {
	corpus  Corpus
	history Scorer
	cfg     Config
	now     func() time.Time
}

// NewEngine returns an engine over corpus. scorer may be nil.
func NewEngine(corpus Corpus, scorer Scorer, cfg Config) *Engine {
	return &Engine{
		corpus:  corpus,
		history: scorer,
		cfg:     cfg.withDefaults(),
		now:     time.Now,
	}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Search returns ranked entries for tokens. A single token yields every
// matching line, a document's coarser sections ahead of its finer ones. Several tokens yield the final line of every chain in which
// each token matches inside the section of the previous one, followed by the
// direct child sections of each such line. No tokens yields one entry per
// document ranked by recency and history.
func (e *Engine) Search(tokens []string) ([]Entry, error) {
	docs, err := e.corpus.Documents()
	if err != nil {
		return nil, fmt.Errorf("search: load corpus: %w", err)
	}

	now := e.now()
	groups := make([][]Entry, 0, len(docs))
	for _, doc := range docs {
		if found := e.searchDocument(doc, tokens, now); len(found) > 0 {
			groups = append(groups, found)
		}
	}

	var entries []Entry
	if len(tokens) == 1 {
		entries = mergeByPriority(groups)
	} else {
		for _, g := range groups {
			entries = append(entries, g...)
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return ranksBefore(entries[i], entries[j])
		})
	}

	if limit := e.cfg.MaxResults; limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func ranksBefore(a, b Entry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	if a.Path != b.Path {
		return a.Path < b.Path
	}
	return a.Line < b.Line
}

// mergeByPriority orders each document's entries by section priority, then
// interleaves the documents by score. Within a document a coarser section
// always precedes a finer one.
func mergeByPriority(groups [][]Entry) []Entry {
	total := 0
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool {
			if g[i].priority != g[j].priority {
				return g[i].priority < g[j].priority
			}
			return ranksBefore(g[i], g[j])
		})
		total += len(g)
	}

	out := make([]Entry, 0, total)
	for len(out) < total {
		best := -1
		for i, g := range groups {
			if len(g) == 0 {
				continue
			}
			if best < 0 || ranksBefore(g[0], groups[best][0]) {
				best = i
			}
		}
		out = append(out, groups[best][0])
		groups[best] = groups[best][1:]
	}
	return out
}

func (e *Engine) searchDocument(doc *index.Document, tokens []string, now time.Time) []Entry {
	if len(tokens) == 0 {
		if len(doc.Lines) == 0 {
			return []Entry{e.entry(doc, 0, tokens, false, now)}
		}
		return []Entry{e.entry(doc, 1, tokens, false, now)}
	}

	var lines []int
	if len(tokens) == 1 {
		lines = candidates(doc, tokens[0], 1, len(doc.Lines))
	} else {
		lines = chainMatches(doc, tokens)
	}
	if len(lines) == 0 {
		return nil
	}

	seen := make(map[int]bool, len(lines))
	entries := make([]Entry, 0, len(lines))
	for _, n := range lines {
		seen[n] = true
		entries = append(entries, e.entry(doc, n, tokens, false, now))
	}

	if len(tokens) > 1 {
		for _, n := range lines {
			for _, child := range expand(doc, n) {
				if seen[child] {
					continue
				}
				seen[child] = true
				entries = append(entries, e.entry(doc, child, tokens, true, now))
			}
		}
	}
	return entries
}

func (e *Engine) entry(doc *index.Document, n int, tokens []string, context bool, now time.Time) Entry {
	ent := Entry{
		Path:     doc.Path,
		Name:     doc.Name,
		Line:     n,
		Kind:     section.Article,
		Context:  context,
		Document: doc,
		priority: section.ArticlePriority,
	}

	var path []section.Ref
	if n > 0 {
		cls := doc.Tree.Classes[n-1]
		ent.Text = doc.Lines[n-1]
		ent.Kind = cls.Kind
		ent.priority = cls.Priority()
		path = sectionPath(doc, n)
		if _, ok := doc.Tree.At(n); !ok && cls.Kind != section.Article && cls.Text != "" {
			path = append(path, section.Ref{Kind: cls.Kind, Text: cls.Text, Line: n})
		}
	}
	ent.SectionPath = path
	ent.Breadcrumb = e.breadcrumb(doc, path)

	f := Factors{
		Richness:  richness(doc),
		Structure: structure(doc),
		Section:   sectionFactor(ent.priority),
	}
	if e.history != nil {
		var owned []section.Ref
		if len(tokens) > 0 {
			owned = doc.Tree.Refs(doc.Tree.Owner(n))
		}
		f.History = 1 - math.Exp(-e.history.Score(doc.Path, owned, now))
		f.Recency = recency(doc, e.history.Frequency(doc.Path, now), now)
	} else {
		f.Recency = recency(doc, 0, now)
	}
	if len(tokens) > 1 && !context {
		f.Hierarchical = 1
	}

	text := ""
	if n > 0 {
		text = lineText(doc, n)
	}
	var matched bool
	f.Relevance, matched = e.cfg.relevance(doc, path, text, tokens)

	ent.Factors = f
	ent.Score = e.cfg.total(f, len(tokens), matched)
	return ent
}

func (e *Engine) breadcrumb(doc *index.Document, path []section.Ref) string {
	if len(path) == 0 {
		return doc.Tree.Root().Text
	}
	parts := make([]string, len(path))
	for i, ref := range path {
		parts[i] = ref.Text
	}
	return strings.Join(parts, e.cfg.BreadcrumbSeparator)
}
