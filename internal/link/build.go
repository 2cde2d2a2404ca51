package link

import (
	"regexp"
	"strings"

	"github.com/Paintersrp/zortex/internal/section"
)

// ListItemRe matches a list marker with an optional task checkbox. The third
// group is the item text.
var ListItemRe = regexp.MustCompile(`^\s*([-*+]|\d+[.)])\s+(\[.\]\s+)?(.*)$`)

// Build returns the canonical link to a line: the article name followed by
// each enclosing section and, for a plain line, a list item or query
// component.
func Build(tree *section.Tree, lines []string, line int) Link {
	l := Link{Components: []Component{{Kind: Article, Text: clean(tree.Root().Text)}}}
	if line < 1 || line > len(lines) {
		return l
	}

	owner := tree.Owner(line)
	for _, idx := range tree.Path(owner)[1:] {
		s := tree.Sections[idx]
		kind, ok := sectionKinds[s.Kind]
		if !ok {
			continue
		}
		if text := clean(s.Text); text != "" {
			l.Components = append(l.Components, Component{Kind: kind, Text: text})
		}
	}

	if _, ok := tree.At(line); ok {
		return l
	}
	if tree.Classes[line-1].Kind == section.Article || tree.Classes[line-1].Code {
		return l
	}

	raw := lines[line-1]
	if m := ListItemRe.FindStringSubmatch(raw); m != nil {
		if text := clean(m[3]); text != "" {
			l.Components = append(l.Components, Component{Kind: ListItem, Text: text})
		}
		return l
	}
	if text := clean(raw); text != "" {
		l.Components = append(l.Components, Component{Kind: Query, Text: text})
	}
	return l
}

var sectionKinds = map[section.Kind]ComponentKind{
	section.Heading:     Heading,
	section.BoldHeading: Highlight,
	section.Label:       Label,
	section.Tag:         Tag,
}

// clean cuts text at the first character that would break the link syntax.
func clean(text string) string {
	if i := strings.IndexAny(text, "/[]"); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
