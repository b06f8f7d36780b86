package formula

import (
	"strconv"
	"strings"

	"github.com/fastestai/sheetsync-go/pkg/sheetsync/addr"
)

// Translate rewrites every reference in formula for a copy shifted by
// rowOffset rows and colOffset columns. Components marked absolute with '$'
// do not move; sheet qualifiers and literal text are copied verbatim.
// Shifted columns clamp at A and shifted rows clamp at 1.
func Translate(formula string, rowOffset, colOffset int) (string, error) {
	if formula == "" || (rowOffset == 0 && colOffset == 0) {
		return formula, nil
	}

	tokens, err := Tokenize(formula)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(formula))
	for _, tok := range tokens {
		if tok.Kind == Literal {
			b.WriteString(tok.Text)
			continue
		}
		b.WriteString(tok.Sheet)
		b.WriteString(shiftRef(tok.Ref, rowOffset, colOffset))
	}
	return b.String(), nil
}

// shiftRef rewrites one reference body. The body was produced by the
// tokenizer, so it is one of the three recognized forms.
func shiftRef(ref string, rowOffset, colOffset int) string {
	if i := strings.IndexByte(ref, ':'); i >= 0 {
		first, second := ref[:i], ref[i+1:]
		if isDigit(first[len(first)-1]) && !hasLetters(first) {
			return shiftRowEdge(first, rowOffset) + ":" + shiftRowEdge(second, rowOffset)
		}
		return shiftColEdge(first, colOffset) + ":" + shiftColEdge(second, colOffset)
	}
	return shiftCell(ref, rowOffset, colOffset)
}

func shiftCell(ref string, rowOffset, colOffset int) string {
	i := 0
	colAbs := ref[i] == '$'
	if colAbs {
		i++
	}
	letterStart := i
	for i < len(ref) && isLetter(ref[i]) {
		i++
	}
	letters := ref[letterStart:i]
	rowAbs := ref[i] == '$'
	if rowAbs {
		i++
	}
	row, _ := strconv.Atoi(ref[i:])

	col, _ := addr.ColumnIndex(letters)
	if !colAbs {
		col = max(0, col+colOffset)
	}
	if !rowAbs {
		row = max(1, row+rowOffset)
	}

	var b strings.Builder
	if colAbs {
		b.WriteByte('$')
	}
	b.WriteString(addr.ColumnLetter(col))
	if rowAbs {
		b.WriteByte('$')
	}
	b.WriteString(strconv.Itoa(row))
	return b.String()
}

// shiftColEdge rewrites one side of a full-column reference ("$A" or "A").
func shiftColEdge(edge string, colOffset int) string {
	abs := edge[0] == '$'
	letters := edge
	if abs {
		letters = edge[1:]
	}
	col, _ := addr.ColumnIndex(letters)
	if !abs {
		col = max(0, col+colOffset)
	}
	if abs {
		return "$" + addr.ColumnLetter(col)
	}
	return addr.ColumnLetter(col)
}

// shiftRowEdge rewrites one side of a full-row reference ("$2" or "2").
func shiftRowEdge(edge string, rowOffset int) string {
	abs := edge[0] == '$'
	digits := edge
	if abs {
		digits = edge[1:]
	}
	row, _ := strconv.Atoi(digits)
	if !abs {
		row = max(1, row+rowOffset)
	}
	if abs {
		return "$" + strconv.Itoa(row)
	}
	return strconv.Itoa(row)
}

func hasLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if isLetter(s[i]) {
			return true
		}
	}
	return false
}
