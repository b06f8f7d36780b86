// Package planner turns a copy request into concrete write operations,
// translating formula references for each destination offset.
package planner

import (
	"strings"

	"github.com/fastestai/sheetsync-go/pkg/sheetsync/addr"
	"github.com/fastestai/sheetsync-go/pkg/sheetsync/formula"
	"github.com/fastestai/sheetsync-go/pkg/sheetsync/table"
)

// Operation is one planned range write. Values already carry translated
// formulas; the caller applies the operation with a single write.
type Operation struct {
	// Destination is the range the values land in.
	Destination addr.Range `json:"destination"`
	// RowOffset is the row shift from the source start.
	RowOffset int `json:"row_offset"`
	// ColOffset is the column shift from the source start.
	ColOffset int `json:"col_offset"`
	// Values is the 2D array to write.
	Values [][]any `json:"values"`
}

// Snapshot is a read-only 0-based view of current sheet values, built by
// the caller from one read round trip.
type Snapshot [][]any

// At returns the value at (row, col), nil outside the snapshot.
func (s Snapshot) At(row, col int) any {
	if row < 0 || row >= len(s) {
		return nil
	}
	if col < 0 || col >= len(s[row]) {
		return nil
	}
	return s[row][col]
}

// PlanSingle plans a copy of values (read from source) into dest. A bare
// destination cell expands to the source's shape; otherwise the two ranges
// must agree in both dimensions, with one exception: a single source row
// may broadcast into a destination spanning several rows of the same width,
// each destination row receiving its own formula translation.
func PlanSingle(source addr.Range, values [][]any, dest addr.Range) (*Operation, error) {
	if !hasContent(values) {
		return nil, &EmptySourceError{Source: source}
	}

	srcRows := len(values)
	srcCols := 0
	for _, row := range values {
		if len(row) > srcCols {
			srcCols = len(row)
		}
	}

	// a bare destination anchor takes the source's shape
	if dest.End == nil {
		dest = dest.ExpandForData(srcRows, srcCols)
	}
	destRows, destCols := dest.Height(), dest.Width()
	if destRows == 0 {
		destRows = srcRows
	}
	if destCols == 0 {
		destCols = srcCols
	}

	rowOffset := dest.Start.Row - source.Start.Row
	colOffset := dest.Start.Col - source.Start.Col

	switch {
	case srcRows == destRows && srcCols == destCols:
		out, err := translateBlock(values, rowOffset, colOffset)
		if err != nil {
			return nil, err
		}
		return &Operation{
			Destination: dest,
			RowOffset:   rowOffset,
			ColOffset:   colOffset,
			Values:      out,
		}, nil

	case srcRows == 1 && destRows > 1 && srcCols == destCols:
		// broadcast one source row across every destination row
		out := make([][]any, destRows)
		for i := 0; i < destRows; i++ {
			row, err := translateRow(values[0], rowOffset+i, colOffset)
			if err != nil {
				return nil, err
			}
			out[i] = row
		}
		return &Operation{
			Destination: dest,
			RowOffset:   rowOffset,
			ColOffset:   colOffset,
			Values:      out,
		}, nil

	default:
		return nil, &DimensionMismatchError{
			Source:     source,
			Dest:       dest,
			SourceRows: srcRows,
			SourceCols: srcCols,
			DestRows:   destRows,
			DestCols:   destCols,
		}
	}
}

// PlanAutofill plans fill-down copies of a single source row. Starting one
// row below the source, a destination row is planned for every consecutive
// row whose lookup-column cell is non-empty in the snapshot; the scan stops
// at the first empty lookup cell. With skipIfExists set, rows whose first
// destination cell already holds a value are skipped but scanning
// continues.
func PlanAutofill(source addr.Range, values [][]any, sheet Snapshot, lookupColumn string, skipIfExists bool) ([]Operation, error) {
	if !hasContent(values) {
		return nil, &EmptySourceError{Source: source}
	}

	lookupCol, err := addr.ColumnIndex(lookupColumn)
	if err != nil {
		return nil, err
	}

	srcRow := values[0]
	width := len(srcRow)
	startRow := source.Start.Row
	destCol := source.Start.Col

	var ops []Operation
	for row := startRow + 1; ; row++ {
		if table.ValueString(sheet.At(row-1, lookupCol)) == "" {
			break
		}
		if skipIfExists && table.ValueString(sheet.At(row-1, destCol)) != "" {
			continue
		}

		rowOffset := row - startRow
		out, err := translateRow(srcRow, rowOffset, 0)
		if err != nil {
			return nil, err
		}
		end := addr.Cell{Col: destCol + width - 1, Row: row}
		ops = append(ops, Operation{
			Destination: addr.Range{
				Sheet: source.Sheet,
				Start: addr.Cell{Col: destCol, Row: row},
				End:   &end,
			},
			RowOffset: rowOffset,
			Values:    [][]any{out},
		})
	}
	return ops, nil
}

func translateBlock(values [][]any, rowOffset, colOffset int) ([][]any, error) {
	out := make([][]any, len(values))
	for i, row := range values {
		translated, err := translateRow(row, rowOffset, colOffset)
		if err != nil {
			return nil, err
		}
		out[i] = translated
	}
	return out, nil
}

// translateRow copies one row, passing formula-looking cells through the
// reference translator. Literal values copy as-is.
func translateRow(row []any, rowOffset, colOffset int) ([]any, error) {
	out := make([]any, len(row))
	for i, v := range row {
		s, ok := v.(string)
		if !ok || !strings.HasPrefix(s, "=") {
			out[i] = v
			continue
		}
		translated, err := formula.Translate(s, rowOffset, colOffset)
		if err != nil {
			return nil, err
		}
		out[i] = translated
	}
	return out, nil
}

// hasContent reports whether any cell holds a value or formula.
func hasContent(values [][]any) bool {
	for _, row := range values {
		for _, v := range row {
			if table.ValueString(v) != "" {
				return true
			}
		}
	}
	return false
}
