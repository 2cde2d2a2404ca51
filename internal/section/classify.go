package section

import (
	"regexp"
	"strings"
)

var (
	headingRe     = regexp.MustCompile(`^(#{1,6}) +(.*)$`)
	boldHeadingRe = regexp.MustCompile(`^\*\*([^*]+?):?\*\*:?$`)
	labelRe       = regexp.MustCompile(`^([^:]+):$`)
	listMarkerRe  = regexp.MustCompile(`^([-*+]|\d+[.)])\s`)
)

// Line is the classification of a single line.
type Line struct {
	Kind  Kind
	Level int
	Text  string
	// Code is set for lines inside a fenced block, fence markers included.
	Code bool
}

// Priority returns the containment rank of the classified line.
func (l Line) Priority() int {
	return Priority(l.Kind, l.Level)
}

// Classify returns the kind of a line. Lines inside a fenced code block are
// always Text. Checks run in a fixed order; Label is last because its pattern
// would otherwise shadow bold headings.
func Classify(line string, inCodeBlock bool) Line {
	line = strings.TrimRight(line, " \t\r")
	if inCodeBlock {
		return Line{Kind: Text, Text: strings.TrimSpace(line), Code: true}
	}
	if line == "" {
		return Line{Kind: Text}
	}

	if strings.HasPrefix(line, "@@") {
		return Line{Kind: Article, Text: strings.TrimSpace(strings.TrimLeft(line, "@"))}
	}

	if strings.HasPrefix(line, "@") {
		if text := strings.TrimSpace(line[1:]); text != "" {
			return Line{Kind: Tag, Text: text}
		}
		return Line{Kind: Text, Text: line}
	}

	if m := headingRe.FindStringSubmatch(line); m != nil {
		return Line{Kind: Heading, Level: len(m[1]), Text: strings.TrimSpace(m[2])}
	}

	if m := boldHeadingRe.FindStringSubmatch(line); m != nil {
		return Line{Kind: BoldHeading, Text: strings.TrimSpace(m[1])}
	}

	if m := labelRe.FindStringSubmatch(line); m != nil && isLabelText(m[1]) {
		return Line{Kind: Label, Text: strings.TrimSpace(m[1])}
	}

	return Line{Kind: Text, Text: strings.TrimSpace(line)}
}

// isLabelText rejects abbreviated sentences, indented text and list items that
// merely end with a colon.
func isLabelText(text string) bool {
	if strings.Contains(text, ". ") {
		return false
	}
	if text[0] == ' ' || text[0] == '\t' {
		return false
	}
	return !listMarkerRe.MatchString(text)
}

// ClassifyAll classifies every line of a document while tracking code fences.
func ClassifyAll(lines []string) []Line {
	out := make([]Line, len(lines))
	var fence Fence
	for i, line := range lines {
		out[i] = Classify(line, fence.Observe(line))
	}
	return out
}
