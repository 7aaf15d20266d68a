package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorAccent = lipgloss.Color("#7D56F4")
	colorMuted  = lipgloss.Color("#6C6C6C")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = cellStyle.Foreground(colorMuted)
)

// renderTable lays rows out under headers. Columns listed in muted are
// dimmed.
func renderTable(headers []string, rows [][]string, muted ...int) string {
	dim := make(map[int]bool, len(muted))
	for _, c := range muted {
		dim[c] = true
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case dim[col]:
				return mutedStyle
			default:
				return cellStyle
			}
		})
	return t.Render()
}
