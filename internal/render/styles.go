package render

import (
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title      lipgloss.Style
	breadcrumb lipgloss.Style
	location   lipgloss.Style
	score      lipgloss.Style
	context    lipgloss.Style
	muted      lipgloss.Style
	err        lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0AF")),
		breadcrumb: r.NewStyle().
			Foreground(lipgloss.Color("#EE6FF8")),
		location: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555", Dark: "#999"}),
		score: r.NewStyle().
			Foreground(lipgloss.Color("#0AF")).
			Width(7).
			Align(lipgloss.Right),
		context: r.NewStyle().
			PaddingLeft(9).
			Foreground(lipgloss.Color("#CCC")),
		muted: r.NewStyle().
			Foreground(lipgloss.Color("240")),
		err: r.NewStyle().
			Foreground(lipgloss.Color("#F55")),
	}
}
