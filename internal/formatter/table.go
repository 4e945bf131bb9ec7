// Package formatter renders diagnostics as aligned markdown tables.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// minColumnWidth keeps separator rows at least "---".
const minColumnWidth = 3

// Table renders header and rows as a markdown table with columns padded to equal display width.
// Short rows are padded with empty cells; cells are trimmed and pipes escaped.
func Table(header []string, rows [][]string) string {
	colCount := len(header)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	if colCount == 0 {
		return ""
	}

	table := make([][]string, 0, len(rows)+1)
	table = append(table, normalizeRow(header, colCount))

	for _, row := range rows {
		table = append(table, normalizeRow(row, colCount))
	}

	// Column widths by display width, so accented and wide characters line up
	colWidths := make([]int, colCount)
	for i := range colWidths {
		colWidths[i] = minColumnWidth
	}

	for _, row := range table {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	var sb strings.Builder

	writeRow(&sb, table[0], colWidths)

	sb.WriteString("|")

	for _, w := range colWidths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", w))
		sb.WriteString(" |")
	}

	sb.WriteString("\n")

	for _, row := range table[1:] {
		writeRow(&sb, row, colWidths)
	}

	return sb.String()
}

func normalizeRow(row []string, colCount int) []string {
	cells := make([]string, colCount)
	for i := 0; i < len(row) && i < colCount; i++ {
		cells[i] = strings.ReplaceAll(strings.TrimSpace(row[i]), "|", `\|`)
	}

	return cells
}

func writeRow(sb *strings.Builder, row []string, colWidths []int) {
	sb.WriteString("|")

	for i, cell := range row {
		sb.WriteString(" ")
		sb.WriteString(cell)

		// Pad with spaces based on display width
		if padding := colWidths[i] - runewidth.StringWidth(cell); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	sb.WriteString("\n")
}
