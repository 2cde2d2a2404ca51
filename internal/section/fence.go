package section

import "strings"

// Fence tracks whether a scan is inside a fenced code block. The zero value is
// outside any block.
type Fence struct {
	marker byte
}

// Observe feeds the next line and reports whether that line belongs to a code
// block, counting the opening and closing fence lines themselves.
func (f *Fence) Observe(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	marker := fenceMarker(trimmed)

	if f.marker != 0 {
		if marker == f.marker {
			f.marker = 0
		}
		return true
	}

	if marker != 0 {
		f.marker = marker
		return true
	}
	return false
}

// Open reports whether the scan is currently inside a block.
func (f *Fence) Open() bool {
	return f.marker != 0
}

func fenceMarker(trimmed string) byte {
	switch {
	case strings.HasPrefix(trimmed, "```"):
		return '`'
	case strings.HasPrefix(trimmed, "~~~"):
		return '~'
	default:
		return 0
	}
}
