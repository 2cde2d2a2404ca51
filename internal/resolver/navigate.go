package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Paintersrp/zortex/internal/link"
)

// Policy is what a caller should do with a resolution result.
type Policy int

const (
	// None means nothing to show: the text was not a link or nothing matched.
	None Policy = iota
	// Jump means navigate straight to the single match.
	Jump
	// List means present every match for the user to choose from.
	List
)

func (p Policy) String() string {
	switch p {
	case Jump:
		return "jump"
	case List:
		return "list"
	default:
		return "none"
	}
}

// Decide applies the navigation rules: only a link starting with an article
// name that resolved to exactly one target jumps directly.
func Decide(l link.Link, matches []Match) Policy {
	if len(matches) == 0 {
		return None
	}
	first, _ := l.First()
	if first.Kind == link.Article && len(matches) == 1 {
		return Jump
	}
	return List
}

// Notifier receives informational messages such as "no match".
type Notifier interface {
	Notify(msg string)
}

// Presenter shows resolution results.
type Presenter interface {
	Jump(m Match) error
	List(ms []Match) error
}

// Navigator follows links through a Resolver and hands the outcome to its
// collaborators.
type Navigator struct {
	Resolver  *Resolver
	Notifier  Notifier
	Presenter Presenter
}

// Follow parses and resolves raw link text relative to the current document.
// Text that is not a link and links that match nothing are not errors.
func (n *Navigator) Follow(raw, current string) (Policy, error) {
	l, ok := link.Parse(raw)
	if !ok {
		return None, nil
	}

	matches, err := n.Resolver.Resolve(l, current)
	if err != nil {
		var nm *NoMatchError
		if errors.As(err, &nm) {
			n.notify(nm.Error())
			return None, nil
		}
		return None, err
	}

	policy := Decide(l, matches)
	switch policy {
	case Jump:
		return policy, n.Presenter.Jump(matches[0])
	case List:
		if len(matches) > 1 {
			n.notify(fmt.Sprintf("%s is ambiguous: %d matches", l, len(matches)))
		}
		return policy, n.Presenter.List(matches)
	}
	return policy, nil
}

// FollowAt follows the link under a byte column of line.
func (n *Navigator) FollowAt(line string, col int, current string) (Policy, error) {
	span, ok := link.At(line, col)
	if !ok {
		return None, nil
	}
	return n.Follow(span.Text, current)
}

func (n *Navigator) notify(msg string) {
	if n.Notifier != nil {
		n.Notifier.Notify(strings.TrimSpace(msg))
	}
}
