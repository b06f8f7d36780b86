// Package addr implements A1-style spreadsheet addressing: column letter
// arithmetic, range parsing, and canonical range rendering.
package addr

import (
	"strconv"
	"strings"
)

// Cell is a single parsed cell reference.
//
// Col is the 0-based column index; -1 marks a full-row reference with no
// column component. Row is the 1-based row number; 0 marks a full-column
// reference with no row component.
type Cell struct {
	// Col is the 0-based column index (-1 for full-row references).
	Col int `json:"col"`
	// Row is the 1-based row number (0 for full-column references).
	Row int `json:"row"`
	// ColAbs marks the column component as absolute ($A1).
	ColAbs bool `json:"col_abs,omitempty"`
	// RowAbs marks the row component as absolute (A$1).
	RowAbs bool `json:"row_abs,omitempty"`
}

// HasCol reports whether the reference carries a column component.
func (c Cell) HasCol() bool { return c.Col >= 0 }

// HasRow reports whether the reference carries a row component.
func (c Cell) HasRow() bool { return c.Row >= 1 }

// Range is a parsed range reference. End is nil for single-cell or single
// open-ended references such as "A1" or "B".
type Range struct {
	// Sheet is the resolved sheet name ("" when none applies).
	Sheet string `json:"sheet,omitempty"`
	// Start is the first cell of the range.
	Start Cell `json:"start"`
	// End is the last cell of the range, nil when the text named one cell.
	End *Cell `json:"end,omitempty"`
}

// ColumnIndex converts a column letter run (A, B, ..., Z, AA, ...) to a
// 0-based index. Input is uppercased first.
func ColumnIndex(letter string) (int, error) {
	if letter == "" {
		return 0, &InvalidAddressError{Input: letter}
	}
	letter = strings.ToUpper(letter)
	index := 0
	for _, ch := range letter {
		if ch < 'A' || ch > 'Z' {
			return 0, &InvalidAddressError{Input: letter}
		}
		index = index*26 + int(ch-'A') + 1
	}
	return index - 1, nil
}

// ColumnLetter converts a 0-based column index to its letter form. It is
// the inverse of ColumnIndex for every index >= 0.
func ColumnLetter(index int) string {
	var b []byte
	for index >= 0 {
		b = append([]byte{byte(index%26) + 'A'}, b...)
		index = index/26 - 1
	}
	return string(b)
}

// Width returns the number of columns the range spans, or 0 when the range
// has no column component.
func (r Range) Width() int {
	if !r.Start.HasCol() {
		return 0
	}
	if r.End == nil {
		return 1
	}
	return r.End.Col - r.Start.Col + 1
}

// Height returns the number of rows the range spans, or 0 when the range
// has no row component.
func (r Range) Height() int {
	if !r.Start.HasRow() {
		return 0
	}
	if r.End == nil {
		return 1
	}
	return r.End.Row - r.Start.Row + 1
}

// ExpandForData grows a single-cell range so it covers rows x cols values
// anchored at the start cell. Ranges that already name an end cell, and
// zero-sized data, are returned unchanged.
func (r Range) ExpandForData(rows, cols int) Range {
	if r.End != nil || rows == 0 || cols == 0 {
		return r
	}
	if !r.Start.HasCol() || !r.Start.HasRow() {
		return r
	}
	end := Cell{
		Col: r.Start.Col + cols - 1,
		Row: r.Start.Row + rows - 1,
	}
	return Range{Sheet: r.Sheet, Start: r.Start, End: &end}
}

// String renders the range in canonical A1 notation. Sheet names containing
// a space, quote, or '!' are quoted with doubled-quote escaping.
func (r Range) String() string {
	var b strings.Builder
	if r.Sheet != "" {
		b.WriteString(quoteSheet(r.Sheet))
		b.WriteByte('!')
	}
	b.WriteString(formatCell(r.Start))
	if r.End != nil {
		b.WriteByte(':')
		b.WriteString(formatCell(*r.End))
	}
	return b.String()
}

func formatCell(c Cell) string {
	var b strings.Builder
	if c.HasCol() {
		if c.ColAbs {
			b.WriteByte('$')
		}
		b.WriteString(ColumnLetter(c.Col))
	}
	if c.HasRow() {
		if c.RowAbs {
			b.WriteByte('$')
		}
		b.WriteString(strconv.Itoa(c.Row))
	}
	return b.String()
}

func quoteSheet(name string) string {
	if !strings.ContainsAny(name, " '!") {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
