package section

import "fmt"

// Kind identifies the structural role of a line or section.
type Kind int

const (
	Text Kind = iota
	Article
	Heading
	BoldHeading
	Label
	Tag
)

// Fixed priorities. Lower values are coarser sections.
const (
	ArticlePriority     = 10
	BoldHeadingPriority = 80
	LabelPriority       = 90
	TagPriority         = 100
	TextPriority        = 999
)

var kindNames = map[Kind]string{
	Text:        "text",
	Article:     "article",
	Heading:     "heading",
	BoldHeading: "bold_heading",
	Label:       "label",
	Tag:         "tag",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return Text, false
}

// Structural reports whether lines of this kind open or close sections.
func (k Kind) Structural() bool {
	switch k {
	case Article, Heading, BoldHeading, Label:
		return true
	default:
		return false
	}
}

// Priority returns the containment rank for a kind. Level is only consulted for
// headings (1-6).
func Priority(k Kind, level int) int {
	switch k {
	case Article:
		return ArticlePriority
	case Heading:
		return 10 + 10*level
	case BoldHeading:
		return BoldHeadingPriority
	case Label:
		return LabelPriority
	case Tag:
		return TagPriority
	default:
		return TextPriority
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("section: unknown kind %q", b)
	}
	*k = parsed
	return nil
}
