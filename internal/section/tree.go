package section

import "fmt"

// Untitled names articles without an alias line.
const Untitled = "Untitled"

// Section is one node of a document tree. Parent and Children are indices
// into the owning Tree's arena.
type Section struct {
	Kind     Kind
	Level    int
	Priority int
	Text     string
	Start    int
	End      int
	Parent   int
	Children []int
}

// Ref identifies a section independently of any tree.
type Ref struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
	Line int    `json:"line"`
}

// Ref returns the section's identity.
func (s Section) Ref() Ref {
	return Ref{Kind: s.Kind, Text: s.Text, Line: s.Start}
}

// Contains reports whether a line lies in the section's range.
func (s Section) Contains(line int) bool {
	return line >= s.Start && line <= s.End
}

// Tree is the arena holding a document's sections. Index 0 is the article
// root. A Tree is never mutated after Build returns.
type Tree struct {
	Sections []Section
	Classes  []Line
	Aliases  []string

	owner []int
}

// Span is a run of lines owned by one section.
type Span struct {
	Section int
	Start   int
	End     int
}

// Build parses a document into its section tree.
func Build(lines []string) *Tree {
	return BuildClassified(ClassifyAll(lines))
}

// BuildClassified builds a tree from classified lines.
func BuildClassified(classes []Line) *Tree {
	n := len(classes)
	t := &Tree{
		Classes: classes,
		owner:   make([]int, n),
	}
	t.Sections = append(t.Sections, Section{
		Kind:     Article,
		Priority: ArticlePriority,
		Text:     Untitled,
		Start:    1,
		End:      n,
		Parent:   -1,
	})

	stack := []int{0}
	for i, c := range classes {
		line := i + 1
		for len(stack) > 1 && t.Sections[stack[len(stack)-1]].End < line {
			stack = stack[:len(stack)-1]
		}

		switch {
		case c.Kind == Article:
			if c.Text != "" {
				t.Aliases = append(t.Aliases, c.Text)
			}
			t.owner[i] = stack[len(stack)-1]
		case c.Kind == Tag:
			t.owner[i] = t.add(stack[len(stack)-1], Section{
				Kind:     Tag,
				Priority: TagPriority,
				Text:     c.Text,
				Start:    line,
				End:      line,
			})
		case c.Kind.Structural():
			p := c.Priority()
			for len(stack) > 1 && t.Sections[stack[len(stack)-1]].Priority >= p {
				stack = stack[:len(stack)-1]
			}
			idx := t.add(stack[len(stack)-1], Section{
				Kind:     c.Kind,
				Level:    c.Level,
				Priority: p,
				Text:     c.Text,
				Start:    line,
				End:      EndOf(classes, line),
			})
			stack = append(stack, idx)
			t.owner[i] = idx
		default:
			t.owner[i] = stack[len(stack)-1]
		}
	}

	if len(t.Aliases) > 0 {
		t.Sections[0].Text = t.Aliases[0]
	}
	return t
}

func (t *Tree) add(parent int, s Section) int {
	mustContain(t.Sections[parent], s)
	s.Parent = parent
	idx := len(t.Sections)
	t.Sections = append(t.Sections, s)
	t.Sections[parent].Children = append(t.Sections[parent].Children, idx)
	return idx
}

func mustContain(parent, child Section) {
	if child.Priority <= parent.Priority || parent.Kind == Tag {
		panic(fmt.Sprintf(
			"section: %s %q (priority %d) cannot contain %s %q (priority %d)",
			parent.Kind, parent.Text, parent.Priority,
			child.Kind, child.Text, child.Priority,
		))
	}
	if !parent.Contains(child.Start) || !parent.Contains(child.End) {
		panic(fmt.Sprintf(
			"section: %q [%d,%d] does not enclose %q [%d,%d]",
			parent.Text, parent.Start, parent.End,
			child.Text, child.Start, child.End,
		))
	}
}

// Root returns the article section.
func (t *Tree) Root() Section {
	return t.Sections[0]
}

// Len returns the number of lines the tree was built from.
func (t *Tree) Len() int {
	return len(t.Classes)
}

// Owner returns the index of the innermost section containing line.
func (t *Tree) Owner(line int) int {
	if line < 1 || line > len(t.owner) {
		return 0
	}
	return t.owner[line-1]
}

// At returns the index of the section opened at line, if any.
func (t *Tree) At(line int) (int, bool) {
	idx := t.Owner(line)
	if idx > 0 && t.Sections[idx].Start == line {
		return idx, true
	}
	return 0, false
}

// Path returns the section indices from the root down to idx.
func (t *Tree) Path(idx int) []int {
	var path []int
	for idx >= 0 {
		path = append(path, idx)
		idx = t.Sections[idx].Parent
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Refs returns the identities of the sections along Path(idx).
func (t *Tree) Refs(idx int) []Ref {
	path := t.Path(idx)
	refs := make([]Ref, len(path))
	for i, p := range path {
		refs[i] = t.Sections[p].Ref()
	}
	return refs
}

// Walk visits sections depth first in document order. Returning false from fn
// skips the section's children.
func (t *Tree) Walk(fn func(idx, depth int) bool) {
	var visit func(idx, depth int)
	visit = func(idx, depth int) {
		if !fn(idx, depth) {
			return
		}
		for _, child := range t.Sections[idx].Children {
			visit(child, depth+1)
		}
	}
	visit(0, 0)
}

// OwnedSpans partitions the document into disjoint runs of lines, each owned
// by the innermost section covering them, in document order.
func (t *Tree) OwnedSpans() []Span {
	if t.Len() == 0 {
		return nil
	}

	var spans []Span
	var visit func(idx int)
	visit = func(idx int) {
		s := t.Sections[idx]
		cursor := s.Start
		for _, child := range s.Children {
			c := t.Sections[child]
			if c.Start > cursor {
				spans = append(spans, Span{Section: idx, Start: cursor, End: c.Start - 1})
			}
			visit(child)
			cursor = c.End + 1
		}
		if cursor <= s.End {
			spans = append(spans, Span{Section: idx, Start: cursor, End: s.End})
		}
	}
	visit(0)
	return spans
}
