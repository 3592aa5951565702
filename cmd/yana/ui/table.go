package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders small static datasets (evaluation scores, similarity
// hits). Columns size to content; numeric columns can be right-aligned.
type Table struct {
	Title      string
	Headers    []string
	Rows       [][]string
	RightAlign map[int]bool
}

// NewTable creates a table with the given title and headers.
func NewTable(title string, headers ...string) *Table {
	return &Table{
		Title:      title,
		Headers:    headers,
		Rows:       make([][]string, 0),
		RightAlign: make(map[int]bool),
	}
}

// AddRow appends a row.
func (t *Table) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// AlignRight marks a column as right-aligned (scores, counts).
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		t.RightAlign[c] = true
	}
	return t
}

// View renders the table using the provided styles.
func (t *Table) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				if w := lipgloss.Width(cell); w > colWidths[i] {
					colWidths[i] = w
				}
			}
		}
	}
	for i := range colWidths {
		colWidths[i] += 2 // cell padding
	}

	headerStyle := styles.Bold.Padding(0, 1)
	sepStyle := styles.Muted

	for i, h := range t.Headers {
		sb.WriteString(headerStyle.Width(colWidths[i]).Render(h))
		if i < len(t.Headers)-1 {
			sb.WriteString(sepStyle.Render("│"))
		}
	}
	sb.WriteString("\n")

	totalWidth := len(t.Headers) - 1
	for _, w := range colWidths {
		totalWidth += w
	}
	sb.WriteString(sepStyle.Render(strings.Repeat("─", totalWidth)) + "\n")

	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= len(colWidths) {
				break
			}
			cellStyle := styles.Body.Padding(0, 1)
			if t.RightAlign[i] {
				cellStyle = cellStyle.Align(lipgloss.Right)
			}
			sb.WriteString(cellStyle.Width(colWidths[i]).Render(cell))
			if i < len(row)-1 && i < len(t.Headers)-1 {
				sb.WriteString(sepStyle.Render("│"))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
