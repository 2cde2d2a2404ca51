package link

import "strings"

// Span locates a bracketed link in a line. Start and End are byte offsets of
// the brackets, End exclusive.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Find returns the link spans in a line. Task checkboxes and markdown links
// ("[text](url)") are skipped, as are unbalanced brackets.
func Find(line string) []Span {
	var spans []Span
	for i := 0; i < len(line); i++ {
		if line[i] != '[' {
			continue
		}

		end := matchBracket(line, i)
		if end < 0 {
			break
		}

		inner := line[i+1 : end]
		next := end + 1
		switch {
		case isCheckbox(inner):
		case next < len(line) && line[next] == '(':
		case strings.TrimSpace(inner) == "":
		default:
			spans = append(spans, Span{Start: i, End: end + 1, Text: line[i : end+1]})
		}
		i = end
	}
	return spans
}

// At returns the link under a byte column.
func At(line string, col int) (Span, bool) {
	for _, s := range Find(line) {
		if col >= s.Start && col < s.End {
			return s, true
		}
	}
	return Span{}, false
}

// matchBracket returns the index of the bracket closing the one at open, or -1.
func matchBracket(line string, open int) int {
	depth := 0
	for i := open; i < len(line); i++ {
		switch line[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isCheckbox(inner string) bool {
	switch inner {
	case " ", "x", "X", "-", "~":
		return true
	}
	return false
}
