package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/Paintersrp/zortex/internal/index"
	"github.com/Paintersrp/zortex/internal/section"
)

// Tokenize splits a query on whitespace.
func Tokenize(query string) []string {
	return strings.Fields(query)
}

// wordPrefix reports whether token starts a word of text, ignoring case, and
// whether that word is the first of the text.
func wordPrefix(text, token string) (matched, atStart bool) {
	if token == "" || text == "" {
		return false, false
	}
	text, token = strings.ToLower(text), strings.ToLower(token)

	prev := ' '
	for i, r := range text {
		if !isWordRune(prev) && strings.HasPrefix(text[i:], token) {
			return true, i == 0
		}
		prev = r
	}
	return false, false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// lineText is the searchable text of line n: the section text for structural
// and tag lines, the trimmed line otherwise.
func lineText(doc *index.Document, n int) string {
	return doc.Tree.Classes[n-1].Text
}

// chainScope returns the lines a following token may match in once line n
// matched: the body of the section n opens, or nothing for lines that do not
// open a section.
func chainScope(doc *index.Document, n int) (start, end int) {
	idx, ok := doc.Tree.At(n)
	if !ok {
		return n + 1, n
	}
	s := doc.Tree.Sections[idx]
	return n + 1, s.End
}

// candidates returns the lines in [start, end] matching token, ordered by the
// priority of the line's kind and then by position.
func candidates(doc *index.Document, token string, start, end int) []int {
	var lines []int
	for n := max(start, 1); n <= end && n <= len(doc.Lines); n++ {
		if ok, _ := wordPrefix(lineText(doc, n), token); ok {
			lines = append(lines, n)
		}
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return doc.Tree.Classes[lines[i]-1].Priority() < doc.Tree.Classes[lines[j]-1].Priority()
	})
	return lines
}

// chainMatches returns the final lines of every chain of tokens, each token
// matching inside the section of the previous token's line. Every candidate
// is tried, so a failed chain backtracks to the next candidate.
func chainMatches(doc *index.Document, tokens []string) []int {
	found := make(map[int]bool)
	var walk func(k, start, end int)
	walk = func(k, start, end int) {
		for _, n := range candidates(doc, tokens[k], start, end) {
			if k == len(tokens)-1 {
				found[n] = true
				continue
			}
			s, e := chainScope(doc, n)
			if s <= e {
				walk(k+1, s, e)
			}
		}
	}
	walk(0, 1, len(doc.Lines))

	lines := make([]int, 0, len(found))
	for n := range found {
		lines = append(lines, n)
	}
	sort.Ints(lines)
	return lines
}

// expand returns the lines opening the direct child sections of the section
// at line n.
func expand(doc *index.Document, n int) []int {
	idx, ok := doc.Tree.At(n)
	if !ok {
		return nil
	}
	children := doc.Tree.Sections[idx].Children
	lines := make([]int, 0, len(children))
	for _, child := range children {
		lines = append(lines, doc.Tree.Sections[child].Start)
	}
	return lines
}

// sectionPath returns the refs enclosing line n, innermost last, without the
// article root.
func sectionPath(doc *index.Document, n int) []section.Ref {
	refs := doc.Tree.Refs(doc.Tree.Owner(n))
	return refs[1:]
}
