// Package picker offers interactive selection of search results and link
// targets when running in a terminal.
package picker

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/erikgeiser/promptkit"
	"github.com/erikgeiser/promptkit/selection"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/Paintersrp/zortex/internal/render"
	"github.com/Paintersrp/zortex/internal/resolver"
	"github.com/Paintersrp/zortex/internal/search"
)

// ErrAborted is returned when the user dismisses a picker.
var ErrAborted = errors.New("picker: aborted")

const pageSize = 10

// Interactive reports whether both stdin and stdout are terminals.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Entry lets the user fuzzy-find one of entries, previewing its section.
func Entry(entries []search.Entry, query string) (search.Entry, error) {
	if len(entries) == 0 {
		return search.Entry{}, errors.New("picker: nothing to pick from")
	}

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return preview(entries[i])
		}),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithHeader("search: "+query))
	}

	idx, err := fuzzyfinder.Find(entries, func(i int) string {
		return entryLabel(entries[i])
	}, options...)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return search.Entry{}, ErrAborted
		}
		return search.Entry{}, fmt.Errorf("picker: %w", err)
	}
	return entries[idx], nil
}

func entryLabel(e search.Entry) string {
	label := render.EntryLabel(e)
	if e.Context {
		label = "  ↳ " + label
	}
	return fmt.Sprintf("%s (%d)", label, e.Line)
}

func previewText(e search.Entry) string {
	if e.Document == nil {
		return e.Text
	}
	return strings.Join(e.Document.Excerpt(e.Line), "\n")
}

func preview(e search.Entry) string {
	content := previewText(e)
	out, err := render.Markdown(content, termenv.ANSI256)
	if err != nil {
		return content
	}
	return out
}

// Match asks the user to choose one of several link targets.
func Match(matches []resolver.Match) (resolver.Match, error) {
	switch len(matches) {
	case 0:
		return resolver.Match{}, errors.New("picker: nothing to pick from")
	case 1:
		return matches[0], nil
	}

	labels := matchLabels(matches)
	sel := selection.New("Several targets match. Pick one:", labels)
	sel.PageSize = pageSize

	choice, err := sel.RunPrompt()
	if err != nil {
		if errors.Is(err, promptkit.ErrAborted) {
			return resolver.Match{}, ErrAborted
		}
		return resolver.Match{}, fmt.Errorf("picker: %w", err)
	}

	for i, label := range labels {
		if label == choice {
			return matches[i], nil
		}
	}
	return resolver.Match{}, ErrAborted
}

// matchLabels returns distinct display labels, one per match.
func matchLabels(matches []resolver.Match) []string {
	labels := make([]string, len(matches))
	for i, m := range matches {
		labels[i] = fmt.Sprintf("%d) %s:%d  %s", i+1, m.Name, m.Line, strings.TrimSpace(m.Text))
	}
	return labels
}
