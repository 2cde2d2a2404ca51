package index

import (
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/Paintersrp/zortex/internal/link"
	"github.com/Paintersrp/zortex/internal/pathutil"
	"github.com/Paintersrp/zortex/internal/section"
)

// Header is a heading line of a document.
type Header struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
	Line  int    `json:"line"`
}

// Meta holds figures derived from a document's content, used for ranking.
type Meta struct {
	Headers   []Header `json:"headers"`
	WordCount int      `json:"word_count"`
	HasCode   bool     `json:"has_code"`
	HasLinks  bool     `json:"has_links"`
	HasLists  bool     `json:"has_lists"`
	ListItems int      `json:"list_items"`
	// Line length distribution over non-blank lines: under 20, 20 to 120,
	// and over 120 characters.
	ShortLines  int `json:"short_lines"`
	MediumLines int `json:"medium_lines"`
	LongLines   int `json:"long_lines"`
}

// Document is one parsed corpus file. Documents are immutable after
// construction; a change on disk produces a new Document.
type Document struct {
	Path         string        `json:"path"`
	Name         string        `json:"name"`
	ArticleNames []string      `json:"article_names"`
	Tags         []string      `json:"tags"`
	Lines        []string      `json:"-"`
	Tree         *section.Tree `json:"-"`
	ModifiedAt   time.Time     `json:"modified_at"`
	Meta         Meta          `json:"meta"`
}

// NewDocument parses content into a Document.
func NewDocument(path string, content []byte, modifiedAt time.Time) *Document {
	raw := strings.ReplaceAll(string(content), "\r\n", "\n")
	raw = strings.TrimSuffix(raw, "\n")
	var lines []string
	if raw != "" {
		lines = strings.Split(raw, "\n")
	}

	tree := section.Build(lines)
	doc := &Document{
		Path:       path,
		Name:       pathutil.DisplayName(path),
		Lines:      lines,
		Tree:       tree,
		ModifiedAt: modifiedAt,
	}

	doc.ArticleNames = append([]string(nil), tree.Aliases...)
	if len(doc.ArticleNames) == 0 {
		doc.ArticleNames = []string{section.Untitled}
	}

	seen := make(map[string]struct{})
	for _, s := range tree.Sections {
		switch s.Kind {
		case section.Tag:
			key := strings.ToLower(s.Text)
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				doc.Tags = append(doc.Tags, s.Text)
			}
		case section.Heading:
			doc.Meta.Headers = append(doc.Meta.Headers, Header{Text: s.Text, Level: s.Level, Line: s.Start})
		}
	}

	doc.measure([]byte(raw))
	return doc
}

// Title is the primary article name.
func (d *Document) Title() string {
	return d.ArticleNames[0]
}

// Line returns a 1-indexed line, or "" when out of range.
func (d *Document) Line(n int) string {
	if n < 1 || n > len(d.Lines) {
		return ""
	}
	return d.Lines[n-1]
}

func (d *Document) measure(source []byte) {
	for _, line := range d.Lines {
		d.Meta.WordCount += len(strings.Fields(line))

		switch n := len(strings.TrimSpace(line)); {
		case n == 0:
		case n < 20:
			d.Meta.ShortLines++
		case n <= 120:
			d.Meta.MediumLines++
		default:
			d.Meta.LongLines++
		}

		if !d.Meta.HasLinks && len(link.Find(line)) > 0 {
			d.Meta.HasLinks = true
		}
	}

	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.CodeSpan:
			d.Meta.HasCode = true
		case *ast.Link, *ast.AutoLink:
			d.Meta.HasLinks = true
		case *ast.List:
			d.Meta.HasLists = true
		case *ast.ListItem:
			d.Meta.ListItems++
		}
		return ast.WalkContinue, nil
	})
}
