package section

// End returns the last line (1-indexed, inclusive) of the section opened at
// start. Kind and level describe the opening line. Lines inside fenced code
// blocks never close a section.
func End(lines []string, start int, kind Kind, level int) int {
	if start < 1 || start > len(lines) {
		return start
	}

	switch kind {
	case Article:
		return len(lines)
	case Tag, Text:
		return start
	}

	own := Priority(kind, level)
	var fence Fence
	for i := start; i < len(lines); i++ {
		c := Classify(lines[i], fence.Observe(lines[i]))
		if closes(c, kind, own) {
			return i
		}
	}
	return len(lines)
}

// EndOf is End over an already classified document.
func EndOf(classes []Line, start int) int {
	if start < 1 || start > len(classes) {
		return start
	}

	open := classes[start-1]
	switch open.Kind {
	case Article:
		return len(classes)
	case Tag, Text:
		return start
	}

	own := open.Priority()
	for i := start; i < len(classes); i++ {
		if closes(classes[i], open.Kind, own) {
			return i
		}
	}
	return len(classes)
}

// closes reports whether c terminates a section of the given kind and
// priority. Article alias lines only ever extend the root and are ignored.
func closes(c Line, kind Kind, own int) bool {
	if c.Code || c.Kind == Article {
		return false
	}
	if c.Kind.Structural() && c.Priority() <= own {
		return true
	}
	return kind == Label && c.Kind == Text && c.Text == ""
}
