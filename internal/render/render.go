// Package render formats search results, link matches and notes for the
// terminal. Output written to a non-terminal carries no escape sequences.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Paintersrp/zortex/internal/history"
	"github.com/Paintersrp/zortex/internal/index"
	"github.com/Paintersrp/zortex/internal/pathutil"
	"github.com/Paintersrp/zortex/internal/resolver"
	"github.com/Paintersrp/zortex/internal/search"
)

const wordWrap = 100

type Printer struct {
	w      io.Writer
	r      *lipgloss.Renderer
	styles styles
	// Notes shortens displayed paths when set.
	Notes string
}

func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{w: w, r: r, styles: newStyles(r)}
}

// Colorful reports whether output carries colour.
func (p *Printer) Colorful() bool {
	return p.r.ColorProfile() != termenv.Ascii
}

func (p *Printer) location(path string, line int) string {
	shown := path
	if p.Notes != "" {
		if rel, err := pathutil.Relative(p.Notes, path); err == nil && !strings.HasPrefix(rel, "..") {
			shown = rel
		}
	}
	return fmt.Sprintf("%s:%d", shown, line)
}

// EntryLabel is the single-line form of a search entry.
func EntryLabel(e search.Entry) string {
	if e.Breadcrumb == "" {
		return e.Name
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Breadcrumb)
}

func (p *Printer) Results(entries []search.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(p.w, p.styles.muted.Render("no results"))
		return err
	}

	var b strings.Builder
	for _, e := range entries {
		if e.Context {
			b.WriteString(p.styles.context.Render("↳ " + e.Breadcrumb))
			b.WriteString("  ")
			b.WriteString(p.styles.location.Render(p.location(e.Path, e.Line)))
			b.WriteString("\n")
			continue
		}
		b.WriteString(p.styles.score.Render(fmt.Sprintf("%.2f", e.Score)))
		b.WriteString("  ")
		b.WriteString(p.styles.title.Render(e.Name))
		if e.Breadcrumb != "" {
			b.WriteString(" ")
			b.WriteString(p.styles.breadcrumb.Render(e.Breadcrumb))
		}
		b.WriteString("  ")
		b.WriteString(p.styles.location.Render(p.location(e.Path, e.Line)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(p.w, b.String())
	return err
}

// Matches prints one grep-style "path:line:column" row per match.
func (p *Printer) Matches(matches []resolver.Match) error {
	var b strings.Builder
	for _, m := range matches {
		b.WriteString(p.styles.location.Render(fmt.Sprintf("%s:%d", p.location(m.Path, m.Line), m.Column+1)))
		b.WriteString("  ")
		b.WriteString(p.styles.title.Render(m.Name))
		b.WriteString("  ")
		b.WriteString(strings.TrimSpace(m.Text))
		b.WriteString("\n")
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

// NoMatch prints a resolution failure, suggestions included.
func (p *Printer) NoMatch(err *resolver.NoMatchError) error {
	_, werr := fmt.Fprintln(p.w, p.styles.err.Render(err.Error()))
	return werr
}

func (p *Printer) History(entries []history.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(p.w, p.styles.muted.Render("history is empty"))
		return err
	}

	var b strings.Builder
	for _, e := range entries {
		parts := make([]string, 0, len(e.Selection.SectionPath))
		for _, ref := range e.Selection.SectionPath {
			parts = append(parts, ref.Text)
		}
		b.WriteString(p.styles.muted.Render(e.Timestamp.Format(time.DateTime)))
		b.WriteString("  ")
		b.WriteString(p.styles.title.Render(pathutil.DisplayName(e.Selection.File)))
		if len(parts) > 0 {
			b.WriteString(" ")
			b.WriteString(p.styles.breadcrumb.Render(strings.Join(parts, ">")))
		}
		if len(e.Selection.Tokens) > 0 {
			b.WriteString("  ")
			b.WriteString(p.styles.location.Render("[" + strings.Join(e.Selection.Tokens, " ") + "]"))
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *Printer) Line(s string) error {
	_, err := fmt.Fprintln(p.w, s)
	return err
}

// Markdown renders note content with glamour. Plain output is returned
// unchanged for non-terminal writers.
func (p *Printer) Markdown(content string) error {
	if !p.Colorful() {
		_, err := io.WriteString(p.w, ensureNewline(content))
		return err
	}
	out, err := Markdown(content, p.r.ColorProfile())
	if err != nil {
		return err
	}
	_, err = io.WriteString(p.w, out)
	return err
}

// Markdown renders content with the dracula style.
func Markdown(content string, profile termenv.Profile) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(wordWrap),
		glamour.WithColorProfile(profile),
	)
	if err != nil {
		return "", fmt.Errorf("render: markdown: %w", err)
	}
	return r.Render(content)
}

// Excerpt renders the section of doc opened at line.
func (p *Printer) Excerpt(doc *index.Document, line int) error {
	lines := doc.Excerpt(line)
	header := p.styles.title.Render(doc.Title()) + "  " + p.styles.location.Render(p.location(doc.Path, line))
	if _, err := fmt.Fprintln(p.w, header); err != nil {
		return err
	}
	return p.Markdown(strings.Join(lines, "\n"))
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
