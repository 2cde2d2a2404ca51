package link

import (
	"strings"
	"testing"

	"github.com/Paintersrp/zortex/internal/section"
)

func TestParseComponents(t *testing.T) {
	l, ok := Parse("[Calculus/#Limits/:Definition]")
	if !ok {
		t.Fatalf("expected link to parse")
	}
	if l.Scope != Global {
		t.Fatalf("expected global scope, got %s", l.Scope)
	}

	want := []Component{
		{Kind: Article, Text: "Calculus"},
		{Kind: Heading, Text: "Limits"},
		{Kind: Label, Text: "Definition"},
	}
	if len(l.Components) != len(want) {
		t.Fatalf("expected %d components, got %+v", len(want), l.Components)
	}
	for i := range want {
		if l.Components[i] != want[i] {
			t.Fatalf("component %d: expected %+v, got %+v", i, want[i], l.Components[i])
		}
	}
}

func TestParseSigils(t *testing.T) {
	l, ok := Parse("/ @math / *Important / - milk / %free text ")
	if !ok {
		t.Fatalf("expected link to parse")
	}
	if l.Scope != Local {
		t.Fatalf("expected local scope")
	}

	kinds := []ComponentKind{Tag, Highlight, ListItem, Query}
	texts := []string{"math", "Important", "milk", "free text"}
	for i, c := range l.Components {
		if c.Kind != kinds[i] || c.Text != texts[i] {
			t.Fatalf("component %d: expected %s %q, got %s %q", i, kinds[i], texts[i], c.Kind, c.Text)
		}
	}
}

func TestParseRejectsNonLinks(t *testing.T) {
	for _, raw := range []string{"", "[]", "[  ]", "[/]", "[open", "close]", "[a [b] c]"} {
		if l, ok := Parse(raw); ok {
			t.Fatalf("expected %q to be prose, got %+v", raw, l)
		}
	}
}

func TestParseDegeneratesToArticle(t *testing.T) {
	l, ok := Parse("[#/:]")
	if !ok {
		t.Fatalf("expected degenerate link to parse")
	}
	if len(l.Components) != 1 || l.Components[0].Kind != Article || l.Components[0].Text != "#/:" {
		t.Fatalf("expected single article component, got %+v", l.Components)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, raw := range []string{"[Calculus/#Limits/:Definition]", "[/@math/-milk]", "[A/*B/%c d]"} {
		l, ok := Parse(raw)
		if !ok {
			t.Fatalf("expected %q to parse", raw)
		}
		if got := l.String(); got != raw {
			t.Fatalf("expected %q, got %q", raw, got)
		}
	}
}

func TestFindSkipsCheckboxesAndMarkdownLinks(t *testing.T) {
	line := "- [ ] read [Calculus/#Limits] and [docs](http://x) [x] [Other]"
	spans := Find(line)

	var got []string
	for _, s := range spans {
		got = append(got, s.Text)
		if line[s.Start:s.End] != s.Text {
			t.Fatalf("span offsets do not match text: %+v", s)
		}
	}
	if strings.Join(got, ",") != "[Calculus/#Limits],[Other]" {
		t.Fatalf("unexpected spans: %v", got)
	}

	span, ok := At(line, strings.Index(line, "Limits"))
	if !ok || span.Text != "[Calculus/#Limits]" {
		t.Fatalf("expected link under cursor, got %+v (ok=%v)", span, ok)
	}
	if _, ok := At(line, 0); ok {
		t.Fatalf("expected no link at column 0")
	}
}

func TestBuildLinkForLines(t *testing.T) {
	lines := strings.Split("@@Recipes\n# Breakfast\n**Eggs**\nSteps:\n- [ ] crack two eggs\nwhisk/beat well\n@quick", "\n")
	tree := section.Build(lines)

	tests := []struct {
		line int
		want string
	}{
		{1, "[Recipes]"},
		{2, "[Recipes/#Breakfast]"},
		{4, "[Recipes/#Breakfast/*Eggs/:Steps]"},
		{5, "[Recipes/#Breakfast/*Eggs/:Steps/-crack two eggs]"},
		{6, "[Recipes/#Breakfast/*Eggs/:Steps/%whisk]"},
		{7, "[Recipes/#Breakfast/*Eggs/:Steps/@quick]"},
	}
	for _, tt := range tests {
		if got := Build(tree, lines, tt.line).String(); got != tt.want {
			t.Errorf("Build(line %d) = %s, expected %s", tt.line, got, tt.want)
		}
	}
}
