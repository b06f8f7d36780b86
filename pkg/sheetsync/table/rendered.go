package table

import (
	"strconv"
	"strings"
)

// Box-drawing markers used by dataframe-style table renderings.
const (
	cellBoundary  = '│' // outer cell boundary
	cellDelimiter = '┆' // inner column delimiter
	dataRuleMark  = '╞' // rule separating header block from data
	truncationDot = '…' // truncation marker; poisons the whole text
)

// parseRenderedTable parses a box-drawing table rendering, the defensive
// fallback for tables serialized to plain text. The header line is the
// first line carrying both boundary and delimiter markers; data rows start
// after the header/data rule line. A truncation marker anywhere makes the
// whole text unusable and fails hard.
func parseRenderedTable(text string) (*Frame, error) {
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if strings.ContainsRune(line, truncationDot) {
			return nil, &TruncatedInputError{Line: i + 1}
		}
	}

	headerIdx := -1
	for i, line := range lines {
		if isRuleLine(line) {
			continue
		}
		if strings.ContainsRune(line, cellBoundary) && strings.ContainsRune(line, cellDelimiter) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, &TextParseError{Reason: "no header line found"}
	}

	dataIdx := -1
	for i := headerIdx + 1; i < len(lines); i++ {
		if strings.ContainsRune(lines[i], dataRuleMark) {
			dataIdx = i
			break
		}
	}
	if dataIdx < 0 {
		return nil, &TextParseError{Reason: "no header/data rule line found"}
	}

	headers := splitRenderedCells(lines[headerIdx])
	var rows [][]any
	for _, line := range lines[dataIdx+1:] {
		if isRuleLine(line) || !strings.ContainsRune(line, cellDelimiter) {
			continue
		}
		cells := splitRenderedCells(line)
		row := make([]any, len(cells))
		for i, c := range cells {
			row[i] = coerceValue(c)
		}
		rows = append(rows, row)
	}

	return NewFrame(headers, rows), nil
}

// isRuleLine reports border/rule lines that carry no cell content.
func isRuleLine(line string) bool {
	return strings.ContainsAny(line, "┌┬┐╞╪╡└┴┘─═")
}

// splitRenderedCells strips the outer boundaries and splits a table line on
// the inner delimiter, trimming each cell.
func splitRenderedCells(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.Trim(line, string(cellBoundary))
	parts := strings.Split(line, string(cellDelimiter))
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// coerceValue applies the text-fallback type ladder: empty and "null"
// become nil, integer-looking text int64, float-looking text float64,
// anything else stays a string.
func coerceValue(s string) any {
	if s == "" || s == "null" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
