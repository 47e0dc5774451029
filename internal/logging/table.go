// Package logging handles generation of analysis reports for detection runs.
// This file contains the aligned-column table infrastructure the reports
// are built from.
package logging

import (
	"fmt"
	"strings"
)

// Table formats aligned columns for report output. Header cells are
// left-aligned; data cells are right-aligned, which suits the numeric
// columns the segment reports use.
type Table struct {
	Headers []string
	Rows    [][]string
}

// AddRow appends one data row. Short rows are padded with "-" at render
// time, extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// String renders the table with aligned columns and a separator line under
// the header.
func (t *Table) String() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder
	for i, h := range t.Headers {
		sb.WriteString(fmt.Sprintf("%-*s", widths[i], h))
		if i < len(t.Headers)-1 {
			sb.WriteString("  ")
		}
	}
	sb.WriteString("\n")

	total := 0
	for _, w := range widths {
		total += w
	}
	sb.WriteString(strings.Repeat("-", total+2*(len(widths)-1)))
	sb.WriteString("\n")

	for _, row := range t.Rows {
		for i := range t.Headers {
			cell := "-"
			if i < len(row) && row[i] != "" {
				cell = row[i]
			}
			sb.WriteString(fmt.Sprintf("%*s", widths[i], cell))
			if i < len(t.Headers)-1 {
				sb.WriteString("  ")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
