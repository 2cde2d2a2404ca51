package resolver

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Paintersrp/zortex/internal/index"
	"github.com/Paintersrp/zortex/internal/link"
	"github.com/Paintersrp/zortex/internal/section"
)

// span is an inclusive line range.
type span struct {
	start, end int
}

// matcher reports whether line n of doc matches a component.
type matcher func(doc *index.Document, n int) (int, bool)

func newMatcher(c link.Component) matcher {
	prefix := strings.ToLower(c.Text)

	structural := func(kind section.Kind) matcher {
		return func(doc *index.Document, n int) (int, bool) {
			cls := doc.Tree.Classes[n-1]
			if cls.Kind != kind || !hasPrefixFold(cls.Text, prefix) {
				return 0, false
			}
			return max(strings.Index(doc.Lines[n-1], cls.Text), 0), true
		}
	}

	switch c.Kind {
	case link.Tag:
		return structural(section.Tag)
	case link.Heading:
		return structural(section.Heading)
	case link.Label:
		return structural(section.Label)
	case link.Highlight:
		emphasis := regexp.MustCompile(`(?i)(\*\*|\*|__|_)` + regexp.QuoteMeta(c.Text))
		bold := structural(section.BoldHeading)
		return func(doc *index.Document, n int) (int, bool) {
			if col, ok := bold(doc, n); ok {
				return col, true
			}
			if doc.Tree.Classes[n-1].Code {
				return 0, false
			}
			if loc := emphasis.FindStringIndex(doc.Lines[n-1]); loc != nil {
				return loc[0], true
			}
			return 0, false
		}
	case link.ListItem:
		return func(doc *index.Document, n int) (int, bool) {
			if doc.Tree.Classes[n-1].Code {
				return 0, false
			}
			m := link.ListItemRe.FindStringSubmatchIndex(doc.Lines[n-1])
			if m == nil || !hasPrefixFold(doc.Lines[n-1][m[6]:m[7]], prefix) {
				return 0, false
			}
			return m[6], true
		}
	case link.Query:
		needle, fold := c.Text, !hasUpper(c.Text)
		if fold {
			needle = strings.ToLower(needle)
		}
		return func(doc *index.Document, n int) (int, bool) {
			line := doc.Lines[n-1]
			if fold {
				line = strings.ToLower(line)
			}
			col := strings.Index(line, needle)
			return col, col >= 0
		}
	default:
		return func(*index.Document, int) (int, bool) { return 0, false }
	}
}

// articleLine returns the alias line naming the document with the given prefix.
func articleLine(doc *index.Document, prefix string) (int, string, bool) {
	prefix = strings.ToLower(prefix)
	for i, cls := range doc.Tree.Classes {
		if cls.Kind == section.Article && hasPrefixFold(cls.Text, prefix) {
			return i + 1, cls.Text, true
		}
	}
	for _, name := range doc.ArticleNames {
		if hasPrefixFold(name, prefix) {
			return 1, name, true
		}
	}
	return 0, "", false
}

// scopeAfter returns the lines a following component may match in once line n
// matched: the section the line opens, the nested block of a list item, or the
// rest of the innermost enclosing section.
func scopeAfter(doc *index.Document, n int, kind link.ComponentKind) span {
	tree := doc.Tree
	owner := tree.Sections[tree.Owner(n)]

	if idx, ok := tree.At(n); ok {
		s := tree.Sections[idx]
		if s.Kind == section.Tag {
			return span{n + 1, tree.Sections[s.Parent].End}
		}
		return span{n + 1, s.End}
	}

	if kind == link.ListItem {
		return span{n + 1, listEnd(doc.Lines, n, owner.End)}
	}
	return span{n + 1, owner.End}
}

// listEnd returns the last line nested under the list item at n.
func listEnd(lines []string, n, limit int) int {
	own := indent(lines[n-1])
	end := n
	for i := n + 1; i <= limit; i++ {
		line := lines[i-1]
		if strings.TrimSpace(line) == "" {
			continue
		}
		if indent(line) <= own {
			break
		}
		end = i
	}
	return end
}

func indent(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width
		}
	}
	return width
}

func hasPrefixFold(text, lowerPrefix string) bool {
	return strings.HasPrefix(strings.ToLower(text), lowerPrefix)
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
