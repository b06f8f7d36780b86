package addr

import (
	"strconv"
	"strings"
)

// ParseRange parses A1-style range text into a Range. Accepted forms
// include "A1", "A1:B10", "B", "B:B", "2:1000", "Sheet1!A1:B2" and
// "'Sheet Name'!A1:B2" (single quotes escaped by doubling). The sheet
// qualifier, when absent, falls back to defaultSheet. Start and end are
// reordered so that start <= end component-wise.
func ParseRange(text, defaultSheet string) (Range, error) {
	sheet, rest, err := splitSheet(text)
	if err != nil {
		return Range{}, err
	}
	if sheet == "" {
		sheet = defaultSheet
	}
	if rest == "" {
		return Range{}, &ParseError{Text: text, Reason: "empty range"}
	}

	parts := strings.Split(rest, ":")
	if len(parts) > 2 {
		return Range{}, &ParseError{Text: text, Reason: "too many ':' separators"}
	}

	start, err := parseCell(parts[0])
	if err != nil {
		return Range{}, &ParseError{Text: text, Reason: err.Error()}
	}

	r := Range{Sheet: sheet, Start: start}
	if len(parts) == 2 {
		end, err := parseCell(parts[1])
		if err != nil {
			return Range{}, &ParseError{Text: text, Reason: err.Error()}
		}
		r.End = &end
		r.normalize()
	}
	return r, nil
}

// IsSingleColumn reports whether text addresses exactly one column, such as
// "B", "B:B" or "J5:J8". Malformed text reports false.
func IsSingleColumn(text string) bool {
	r, err := ParseRange(text, "")
	if err != nil {
		return false
	}
	if !r.Start.HasCol() {
		return false
	}
	if r.End == nil {
		// "B" is one whole column; "B1" is one cell.
		return !r.Start.HasRow()
	}
	return r.End.Col == r.Start.Col
}

// normalize swaps start/end components so start <= end holds.
func (r *Range) normalize() {
	if r.End == nil {
		return
	}
	if r.Start.HasCol() && r.End.HasCol() && r.End.Col < r.Start.Col {
		r.Start.Col, r.End.Col = r.End.Col, r.Start.Col
		r.Start.ColAbs, r.End.ColAbs = r.End.ColAbs, r.Start.ColAbs
	}
	if r.Start.HasRow() && r.End.HasRow() && r.End.Row < r.Start.Row {
		r.Start.Row, r.End.Row = r.End.Row, r.Start.Row
		r.Start.RowAbs, r.End.RowAbs = r.End.RowAbs, r.Start.RowAbs
	}
}

// splitSheet strips an optional sheet qualifier and returns (sheet, rest).
// Quoted sheet names use doubled single quotes as an escape.
func splitSheet(text string) (string, string, error) {
	if strings.HasPrefix(text, "'") {
		var name strings.Builder
		i := 1
		for i < len(text) {
			if text[i] != '\'' {
				name.WriteByte(text[i])
				i++
				continue
			}
			if i+1 < len(text) && text[i+1] == '\'' {
				name.WriteByte('\'')
				i += 2
				continue
			}
			// closing quote must be followed by '!'
			if i+1 >= len(text) || text[i+1] != '!' {
				return "", "", &ParseError{Text: text, Reason: "quoted sheet name not followed by '!'"}
			}
			return name.String(), text[i+2:], nil
		}
		return "", "", &ParseError{Text: text, Reason: "unterminated sheet name quote"}
	}

	if i := strings.IndexByte(text, '!'); i >= 0 {
		return text[:i], text[i+1:], nil
	}
	return "", text, nil
}

// parseCell parses one range endpoint: a cell ("A1", "$A$1"), a bare
// column ("B", "$B") or a bare row ("2", "$2").
func parseCell(s string) (Cell, error) {
	if s == "" {
		return Cell{}, &InvalidAddressError{Input: s}
	}

	c := Cell{Col: -1, Row: 0}
	i := 0

	if s[i] == '$' {
		c.ColAbs = true
		i++
	}
	letterStart := i
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	if i > letterStart {
		col, err := ColumnIndex(s[letterStart:i])
		if err != nil {
			return Cell{}, err
		}
		c.Col = col
	} else if c.ColAbs {
		// "$" belonged to the row component after all.
		c.ColAbs = false
		i = 0
	}

	if i < len(s) && s[i] == '$' {
		c.RowAbs = true
		i++
	}
	digitStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i > digitStart {
		row, err := strconv.Atoi(s[digitStart:i])
		if err != nil || row < 1 {
			return Cell{}, &InvalidAddressError{Input: s}
		}
		c.Row = row
	} else if c.RowAbs {
		return Cell{}, &InvalidAddressError{Input: s}
	}

	if i != len(s) || (!c.HasCol() && !c.HasRow()) {
		return Cell{}, &InvalidAddressError{Input: s}
	}
	return c, nil
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
