package section

import (
	"strings"
	"testing"
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

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

func TestBuildExampleCorpus(t *testing.T) {
	tree := Build(splitLines(exampleCorpus))

	root := tree.Root()
	if root.Kind != Article || root.Text != "Article" || root.Start != 1 || root.End != 15 {
		t.Fatalf("unexpected root: %+v", root)
	}

	var got []string
	tree.Walk(func(idx, depth int) bool {
		s := tree.Sections[idx]
		got = append(got, strings.Repeat(" ", depth)+s.Text)
		return true
	})

	want := []string{
		"Article",
		" 1",
		"  A label",
		"  B label",
		"  apple",
		"   Label 1",
		"   Breakfast",
		"    Label 2",
		"  C",
		"   amazing",
		" 2",
		"  Apple",
		"  1",
		"   another label",
		"   another",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected tree:\n%s\nexpected:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}

	ranges := map[string][2]int{}
	for _, s := range tree.Sections[1:] {
		ranges[s.Text] = [2]int{s.Start, s.End}
	}
	if first := tree.Sections[1]; first.Text != "1" || first.Start != 2 || first.End != 10 {
		t.Errorf("expected first heading to span [2,10], got %+v", first)
	}
	checks := map[string][2]int{
		"A label":   {3, 3},
		"apple":     {5, 8},
		"Breakfast": {7, 8},
		"C":         {9, 10},
		"2":         {11, 15},
		"Apple":     {12, 12},
		"another":   {15, 15},
	}
	for text, want := range checks {
		if ranges[text] != want {
			t.Errorf("range of %q = %v, expected %v", text, ranges[text], want)
		}
	}
}

func TestChildrenHaveGreaterPriority(t *testing.T) {
	docs := []string{
		exampleCorpus,
		"@@Doc\n@tag\n**Bold**\nLabel:\n@inner\ntext\n\n# H\n@t2\n## H2\n**B2**:\nL2:\n- item",
		"no article line\n### deep first\n# shallow\n## mid\nLabel:\n\nafter blank",
	}

	for _, doc := range docs {
		tree := Build(splitLines(doc))
		for idx, s := range tree.Sections {
			if s.Kind == Tag && len(s.Children) > 0 {
				t.Fatalf("tag section %q has children", s.Text)
			}
			for _, child := range s.Children {
				c := tree.Sections[child]
				if c.Priority <= s.Priority {
					t.Fatalf("section %d %q (priority %d) contains %q (priority %d)",
						idx, s.Text, s.Priority, c.Text, c.Priority)
				}
				if c.Parent != idx {
					t.Fatalf("child %q has parent %d, expected %d", c.Text, c.Parent, idx)
				}
			}
		}
	}
}

func TestOwnedSpansPartitionDocument(t *testing.T) {
	docs := []string{
		exampleCorpus,
		"@@Doc\n@tag\n**Bold**\nLabel:\n@inner\ntext\n\n# H\n```\n# fenced\n\n```\n## H2\nL2:\n- item\n",
		"plain\ntext\nonly",
		"",
	}

	for _, doc := range docs {
		lines := splitLines(doc)
		tree := Build(lines)
		next := 1
		for _, span := range tree.OwnedSpans() {
			if span.Start != next {
				t.Fatalf("gap or overlap at line %d (span starts %d) in %q", next, span.Start, doc)
			}
			if span.End < span.Start {
				t.Fatalf("empty span %+v", span)
			}
			next = span.End + 1
		}
		if next-1 != len(lines) {
			t.Fatalf("spans cover %d lines, expected %d", next-1, len(lines))
		}
	}
}

func TestArticleAliasesAndTags(t *testing.T) {
	tree := Build(splitLines("@@Calculus\n@@Calc\n@math\n# Limits\n@analysis"))

	if got := strings.Join(tree.Aliases, ","); got != "Calculus,Calc" {
		t.Fatalf("expected aliases Calculus,Calc, got %s", got)
	}
	if tree.Root().Text != "Calculus" {
		t.Fatalf("expected root text Calculus, got %q", tree.Root().Text)
	}

	idx, ok := tree.At(5)
	if !ok {
		t.Fatalf("expected tag section at line 5")
	}
	tag := tree.Sections[idx]
	if tag.Kind != Tag || tree.Sections[tag.Parent].Text != "Limits" {
		t.Fatalf("expected tag under Limits, got %+v", tag)
	}
}

func TestUntitledRootAndPath(t *testing.T) {
	tree := Build(splitLines("# A\n## B\nLabel:\nbody"))
	if tree.Root().Text != Untitled {
		t.Fatalf("expected untitled root, got %q", tree.Root().Text)
	}

	owner := tree.Owner(4)
	var texts []string
	for _, ref := range tree.Refs(owner) {
		texts = append(texts, ref.Text)
	}
	if got := strings.Join(texts, ">"); got != "Untitled>A>B>Label" {
		t.Fatalf("expected path Untitled>A>B>Label for body line, got %s", got)
	}
}
