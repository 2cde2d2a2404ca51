package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Paintersrp/zortex/internal/link"
)

// ErrNoMatch is wrapped by every NoMatchError.
var ErrNoMatch = errors.New("no match")

// ErrNoCurrentDocument is returned when a local link is resolved without a
// current document.
var ErrNoCurrentDocument = errors.New("local link requires a current document")

// NoMatchError reports the component at which resolution stopped.
type NoMatchError struct {
	Index       int
	Component   link.Component
	Suggestions []string
}

func (e *NoMatchError) Error() string {
	msg := fmt.Sprintf("no match for %s %q", e.Component.Kind, e.Component.Text)
	if e.Index > 0 {
		msg += fmt.Sprintf(" (component %d)", e.Index+1)
	}
	if len(e.Suggestions) > 0 {
		msg += "; did you mean " + strings.Join(e.Suggestions, ", ") + "?"
	}
	return msg
}

func (e *NoMatchError) Unwrap() error {
	return ErrNoMatch
}
