package report

import (
	"fmt"
	"strings"
)

type Column struct {
	Title string
	Width int
}

// Table renders to fixed-width rows in the style of the terminal export
// surface. Cells longer than their column are truncated with an ellipsis.
type Table struct {
	Columns []Column
	Rows    [][]string
}

func (t Table) separator() string {
	var b strings.Builder
	b.WriteByte('+')
	for _, col := range t.Columns {
		b.WriteString(strings.Repeat("-", col.Width+2))
		b.WriteByte('+')
	}
	return b.String()
}

func (t Table) headerLines() []string {
	titles := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		titles[i] = col.Title
	}
	return []string{t.separator(), t.rowLine(titles), t.separator()}
}

func (t Table) rowLine(cells []string) string {
	var b strings.Builder
	b.WriteByte('|')
	for i, col := range t.Columns {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if len(cell) > col.Width && col.Width > 3 {
			cell = cell[:col.Width-3] + "..."
		}
		b.WriteString(fmt.Sprintf(" %-*s |", col.Width, cell))
	}
	return b.String()
}
