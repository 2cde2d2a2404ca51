package render

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/zortex/internal/index"
)

const tableHeight = 20

// TagTable builds a table of tag counts.
func TagTable(counts []index.TagCount, focused bool) table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Tag", Width: 25},
		{Title: "Count", Width: 10},
	}

	rows := make([]table.Row, 0, len(counts))
	for id, tc := range counts {
		rows = append(rows, table.Row{fmt.Sprintf("%d", id), tc.Tag, fmt.Sprintf("%d", tc.Count)})
	}

	height := len(rows) + 1
	if height > tableHeight {
		height = tableHeight
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(focused),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	if focused {
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("#FFF")).
			Background(lipgloss.Color("#0AF")).
			Bold(false)
	} else {
		s.Selected = lipgloss.NewStyle()
	}
	t.SetStyles(s)
	return t
}

// Tags prints the tag table once.
func (p *Printer) Tags(counts []index.TagCount) error {
	if len(counts) == 0 {
		_, err := fmt.Fprintln(p.w, p.styles.muted.Render("no tags"))
		return err
	}
	_, err := fmt.Fprintln(p.w, TagTable(counts, false).View())
	return err
}

type tableModel struct {
	table table.Model
}

func (m tableModel) Init() tea.Cmd { return nil }

func (m tableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "esc", "ctrl+c", "enter":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m tableModel) View() string {
	return baseTableStyle.Render(m.table.View()) + "\n"
}

var baseTableStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

// BrowseTags shows an interactive, scrollable tag table.
func BrowseTags(counts []index.TagCount) error {
	_, err := tea.NewProgram(tableModel{table: TagTable(counts, true)}).Run()
	return err
}
