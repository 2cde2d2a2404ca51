// Package resolver turns parsed links into concrete file locations by narrowing
// the candidate files and line ranges one component at a time.
package resolver

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/Paintersrp/zortex/internal/index"
	"github.com/Paintersrp/zortex/internal/link"
	"github.com/Paintersrp/zortex/internal/section"
)

// maxSuggestions bounds the "did you mean" list of a NoMatchError.
const maxSuggestions = 3

// Match is one resolved target. Column is a 0-based byte offset into the line.
type Match struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	End    int    `json:"end"`
	Text   string `json:"text"`
}

// Corpus is the document collection links resolve against.
type Corpus interface {
	Get(path string) (*index.Document, error)
	Documents() ([]*index.Document, error)
}

// Resolver resolves links against a corpus.
type Resolver struct {
	corpus Corpus
}

// New returns a Resolver over corpus.
func New(corpus Corpus) *Resolver {
	return &Resolver{corpus: corpus}
}

// candidate is a document still in play together with the line ranges the
// next component is confined to.
type candidate struct {
	doc   *index.Document
	spans []span
}

// Resolve walks the link's components, narrowing files and line ranges. The
// final component's matches are returned in path and line order. A component
// that matches nothing yields a *NoMatchError.
func (r *Resolver) Resolve(l link.Link, current string) ([]Match, error) {
	if len(l.Components) == 0 {
		return nil, nil
	}

	candidates, err := r.initial(l.Scope, current)
	if err != nil {
		return nil, err
	}

	for i, c := range l.Components {
		last := i == len(l.Components)-1

		var matches []Match
		if c.Kind == link.Article {
			candidates, matches = narrowArticle(candidates, c)
		} else {
			candidates, matches = narrowComponent(candidates, c)
		}

		if len(candidates) == 0 {
			return nil, r.noMatch(i, c)
		}
		if last {
			sortMatches(matches)
			return matches, nil
		}
	}
	return nil, nil
}

func (r *Resolver) initial(scope link.Scope, current string) ([]candidate, error) {
	if scope == link.Local {
		if current == "" {
			return nil, ErrNoCurrentDocument
		}
		doc, err := r.corpus.Get(current)
		if err != nil {
			return nil, fmt.Errorf("resolver: current document: %w", err)
		}
		return []candidate{whole(doc)}, nil
	}

	docs, err := r.corpus.Documents()
	if err != nil {
		return nil, fmt.Errorf("resolver: load corpus: %w", err)
	}
	candidates := make([]candidate, 0, len(docs))
	for _, doc := range docs {
		candidates = append(candidates, whole(doc))
	}
	return candidates, nil
}

func whole(doc *index.Document) candidate {
	return candidate{doc: doc, spans: []span{{1, len(doc.Lines)}}}
}

// narrowArticle keeps documents with an article name starting with the
// component text and resets their range to the whole document.
func narrowArticle(in []candidate, c link.Component) ([]candidate, []Match) {
	var out []candidate
	var matches []Match
	for _, cand := range in {
		line, name, ok := articleLine(cand.doc, c.Text)
		if !ok {
			continue
		}
		out = append(out, whole(cand.doc))
		matches = append(matches, Match{
			Path: cand.doc.Path,
			Name: cand.doc.Name,
			Line: line,
			End:  len(cand.doc.Lines),
			Text: name,
		})
	}
	return out, matches
}

// narrowComponent scans every range of every candidate and replaces the ranges
// with the scopes of the lines that matched.
func narrowComponent(in []candidate, c link.Component) ([]candidate, []Match) {
	match := newMatcher(c)

	var out []candidate
	var matches []Match
	for _, cand := range in {
		doc := cand.doc
		seen := make(map[int]bool)
		var next []span
		for _, sp := range cand.spans {
			for n := sp.start; n <= sp.end && n <= len(doc.Lines); n++ {
				if seen[n] {
					continue
				}
				col, ok := match(doc, n)
				if !ok {
					continue
				}
				seen[n] = true
				scope := scopeAfter(doc, n, c.Kind)
				next = append(next, scope)
				matches = append(matches, Match{
					Path:   doc.Path,
					Name:   doc.Name,
					Line:   n,
					Column: col,
					End:    max(scope.end, n),
					Text:   doc.Lines[n-1],
				})
			}
		}
		if len(next) > 0 {
			out = append(out, candidate{doc: doc, spans: next})
		}
	}
	return out, matches
}

func (r *Resolver) noMatch(i int, c link.Component) error {
	err := &NoMatchError{Index: i, Component: c}
	if c.Kind != link.Article {
		return err
	}

	docs, loadErr := r.corpus.Documents()
	if loadErr != nil {
		return errors.Join(err, loadErr)
	}

	var names []string
	seen := make(map[string]bool)
	for _, doc := range docs {
		for _, name := range doc.ArticleNames {
			if name != section.Untitled && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	for _, m := range fuzzy.Find(c.Text, names) {
		err.Suggestions = append(err.Suggestions, m.Str)
		if len(err.Suggestions) == maxSuggestions {
			break
		}
	}
	return err
}

func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Path != matches[j].Path {
			return matches[i].Path < matches[j].Path
		}
		return matches[i].Line < matches[j].Line
	})
}
