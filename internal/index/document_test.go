package index

import (
	"strings"
	"testing"
	"time"

	"github.com/Paintersrp/zortex/internal/section"
)

func TestNewDocumentMetadata(t *testing.T) {
	content := strings.Join([]string{
		"@@Calculus",
		"@@Calc",
		"@math",
		"# Limits",
		"A limit describes the value a function approaches as the input approaches some value.",
		"@math",
		"## Examples",
		"- first [Algebra/#Fields]",
		"- second",
		"```",
		"lim x->0",
		"```",
		"",
	}, "\n")

	doc := NewDocument("/notes/2024153094512.zortex", []byte(content), time.Unix(0, 0))

	if strings.Join(doc.ArticleNames, ",") != "Calculus,Calc" {
		t.Fatalf("unexpected article names %v", doc.ArticleNames)
	}
	if strings.Join(doc.Tags, ",") != "math" {
		t.Fatalf("expected de-duplicated tags, got %v", doc.Tags)
	}
	if doc.Name != "2024-15-3 09:45:12" {
		t.Fatalf("unexpected display name %q", doc.Name)
	}
	if len(doc.Lines) != 12 {
		t.Fatalf("expected trailing newline to be dropped, got %d lines", len(doc.Lines))
	}

	m := doc.Meta
	if len(m.Headers) != 2 || m.Headers[1] != (Header{Text: "Examples", Level: 2, Line: 7}) {
		t.Fatalf("unexpected headers %+v", m.Headers)
	}
	if !m.HasCode || !m.HasLinks || !m.HasLists || m.ListItems != 2 {
		t.Fatalf("unexpected content flags %+v", m)
	}
	if m.MediumLines != 2 || m.LongLines != 0 || m.WordCount == 0 {
		t.Fatalf("unexpected line statistics %+v", m)
	}
}

func TestNewDocumentUntitled(t *testing.T) {
	doc := NewDocument("plain.zortex", []byte("just text"), time.Time{})
	if doc.Title() != section.Untitled {
		t.Fatalf("expected untitled document, got %q", doc.Title())
	}
	if doc.Line(1) != "just text" || doc.Line(2) != "" {
		t.Fatalf("unexpected line access")
	}

	empty := NewDocument("empty.zortex", nil, time.Time{})
	if len(empty.Lines) != 0 || empty.Tree.Root().Text != section.Untitled {
		t.Fatalf("expected empty untitled document, got %+v", empty)
	}
}
