// Package localsheet backs the synchronization gateway with a named sheet
// of a local .xlsx workbook.
package localsheet

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fastestai/sheetsync-go/pkg/sheetsync/addr"
)

// Store is an excelize-backed gateway bound to one sheet of a local
// workbook. Opening creates the workbook and sheet when absent; every
// write saves the file, so external readers always see the last write.
type Store struct {
	path  string
	sheet string
	file  *excelize.File
}

// Open opens the workbook at path bound to the named sheet, creating both
// when missing.
func Open(path, sheet string) (*Store, error) {
	var f *excelize.File
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f = excelize.NewFile()
	} else {
		f, err = excelize.OpenFile(path)
		if err != nil {
			return nil, err
		}
	}

	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	if idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, err
		}
	}

	slog.Debug("workbook opened", "path", path, "sheet", sheet)
	return &Store{path: path, sheet: sheet, file: f}, nil
}

// Close releases the underlying workbook without saving.
func (s *Store) Close() error {
	return s.file.Close()
}

// ReadRange returns the range's cells as a row-major grid. Formula cells
// come back in "=..." form; plain cells are coerced to int64, float64, or
// string the way they would parse from the sheet.
func (s *Store) ReadRange(ctx context.Context, rng addr.Range) ([][]any, error) {
	r1, c1, r2, c2, err := s.span(ctx, rng)
	if err != nil {
		return nil, err
	}

	out := make([][]any, 0, r2-r1+1)
	for r := r1; r <= r2; r++ {
		row := make([]any, 0, c2-c1+1)
		for c := c1; c <= c2; c++ {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			v, err := s.readCell(cell)
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		out = append(out, row)
	}
	return out, nil
}

// WriteRange writes the grid anchored at the range's start cell. Values
// beginning with "=" are written as formulas. The workbook is saved before
// returning.
func (s *Store) WriteRange(ctx context.Context, rng addr.Range, values [][]any) error {
	startRow := 1
	if rng.Start.HasRow() {
		startRow = rng.Start.Row
	}
	startCol := 0
	if rng.Start.HasCol() {
		startCol = rng.Start.Col
	}

	for i, row := range values {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(startCol+j+1, startRow+i)
			if err != nil {
				return err
			}
			if formula, ok := asFormula(v); ok {
				if err := s.file.SetCellFormula(s.sheet, cell, formula); err != nil {
					return err
				}
				continue
			}
			if err := s.file.SetCellValue(s.sheet, cell, v); err != nil {
				return err
			}
		}
	}

	slog.DebugContext(ctx, "range written",
		"path", s.path, "sheet", s.sheet, "range", rng.String(), "rows", len(values))
	return s.file.SaveAs(s.path)
}

// SheetBounds reports the used extent of the bound sheet.
func (s *Store) SheetBounds(context.Context) (int, int, error) {
	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return 0, 0, err
	}
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return len(rows), cols, nil
}

// span resolves a range to 0-based grid coordinates, filling open ends
// from the sheet bounds.
func (s *Store) span(ctx context.Context, rng addr.Range) (r1, c1, r2, c2 int, err error) {
	rows, cols, err := s.SheetBounds(ctx)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if rng.Start.HasRow() {
		r1 = rng.Start.Row - 1
	}
	if rng.Start.HasCol() {
		c1 = rng.Start.Col
	}
	end := rng.Start
	if rng.End != nil {
		end = *rng.End
	}
	r2, c2 = r1, c1
	if end.HasRow() {
		r2 = end.Row - 1
	} else if rows > 0 {
		r2 = rows - 1
	}
	if end.HasCol() {
		c2 = end.Col
	} else if cols > 0 {
		c2 = cols - 1
	}
	return r1, c1, r2, c2, nil
}

// readCell reads one cell, preferring its formula over its cached value.
func (s *Store) readCell(cell string) (any, error) {
	formula, err := s.file.GetCellFormula(s.sheet, cell)
	if err != nil {
		return nil, err
	}
	if formula != "" {
		return "=" + formula, nil
	}
	value, err := s.file.GetCellValue(s.sheet, cell)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, nil
	}
	return parseValue(value), nil
}

// asFormula reports whether a value is formula text, returning it without
// the leading "=".
func asFormula(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(s, "=") {
		return "", false
	}
	return strings.TrimPrefix(s, "="), true
}

// parseValue coerces a cell's string form to int64, float64, or string.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
