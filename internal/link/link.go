// Package link parses, extracts and builds bracketed section links such as
// [Calculus/#Limits/:Definition].
package link

import (
	"strings"
)

// Scope selects where a link is resolved.
type Scope int

const (
	// Global links search every document in the corpus.
	Global Scope = iota
	// Local links, written with a leading slash, stay in the current document.
	Local
)

func (s Scope) String() string {
	if s == Local {
		return "local"
	}
	return "global"
}

// ComponentKind is the type of one path segment, chosen by its sigil.
type ComponentKind int

const (
	Article ComponentKind = iota
	Tag
	Heading
	Label
	Highlight
	ListItem
	Query
)

var sigils = map[byte]ComponentKind{
	'@': Tag,
	'#': Heading,
	':': Label,
	'*': Highlight,
	'-': ListItem,
	'%': Query,
}

var kindNames = [...]string{
	Article:   "article",
	Tag:       "tag",
	Heading:   "heading",
	Label:     "label",
	Highlight: "highlight",
	ListItem:  "list_item",
	Query:     "query",
}

func (k ComponentKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Sigil returns the prefix character for the kind, or "" for articles.
func (k ComponentKind) Sigil() string {
	for s, kind := range sigils {
		if kind == k {
			return string(s)
		}
	}
	return ""
}

// Component is one typed segment of a link path.
type Component struct {
	Kind ComponentKind `json:"kind"`
	Text string        `json:"text"`
}

func (c Component) String() string {
	return c.Kind.Sigil() + c.Text
}

// Link is a parsed link.
type Link struct {
	Scope      Scope       `json:"scope"`
	Components []Component `json:"components"`
}

// String renders the link in its bracketed form.
func (l Link) String() string {
	var b strings.Builder
	b.WriteByte('[')
	if l.Scope == Local {
		b.WriteByte('/')
	}
	for i, c := range l.Components {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(c.String())
	}
	b.WriteByte(']')
	return b.String()
}

// First returns the leading component.
func (l Link) First() (Component, bool) {
	if len(l.Components) == 0 {
		return Component{}, false
	}
	return l.Components[0], true
}

// Parse parses raw link text, with or without the surrounding brackets. The
// boolean is false when the text is not a link at all; callers treat such text
// as prose.
func Parse(raw string) (Link, bool) {
	content := strings.TrimSpace(raw)
	open := strings.HasPrefix(content, "[")
	closed := strings.HasSuffix(content, "]")
	if open != closed {
		return Link{}, false
	}
	if open {
		content = strings.TrimSpace(content[1 : len(content)-1])
	}
	if content == "" || strings.ContainsAny(content, "[]\n") {
		return Link{}, false
	}

	var l Link
	if strings.HasPrefix(content, "/") {
		l.Scope = Local
		content = strings.TrimSpace(content[1:])
		if content == "" {
			return Link{}, false
		}
	}

	for _, segment := range strings.Split(content, "/") {
		if c, ok := parseComponent(segment); ok {
			l.Components = append(l.Components, c)
		}
	}

	if len(l.Components) == 0 {
		l.Components = []Component{{Kind: Article, Text: content}}
	}
	return l, true
}

func parseComponent(segment string) (Component, bool) {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return Component{}, false
	}

	kind, ok := sigils[segment[0]]
	if !ok {
		return Component{Kind: Article, Text: segment}, true
	}

	text := strings.TrimSpace(segment[1:])
	if text == "" {
		return Component{}, false
	}
	return Component{Kind: kind, Text: text}, true
}
