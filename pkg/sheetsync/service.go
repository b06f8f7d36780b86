package sheetsync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fastestai/sheetsync-go/pkg/sheetsync/addr"
	"github.com/fastestai/sheetsync-go/pkg/sheetsync/lookup"
	"github.com/fastestai/sheetsync-go/pkg/sheetsync/planner"
	"github.com/fastestai/sheetsync-go/pkg/sheetsync/table"
)

// CopyRange copies the source range onto the destination, translating
// relative formula references by the move offsets. A bare destination cell
// expands to the source's shape; a one-row source broadcasts down a
// same-width destination.
func CopyRange(ctx context.Context, gw Gateway, source, dest string) (*CopyReport, error) {
	src, err := addr.ParseRange(source, "")
	if err != nil {
		return nil, err
	}
	dst, err := addr.ParseRange(dest, "")
	if err != nil {
		return nil, err
	}

	values, err := gw.ReadRange(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src, err)
	}

	op, err := planner.PlanSingle(src, values, dst)
	if err != nil {
		return nil, err
	}
	if err := gw.WriteRange(ctx, op.Destination, op.Values); err != nil {
		return nil, fmt.Errorf("write %s: %w", op.Destination, err)
	}

	rows, cols := gridShape(op.Values)
	slog.InfoContext(ctx, "range copied",
		"source", src.String(), "destination", op.Destination.String(),
		"rows", rows, "cols", cols)
	return &CopyReport{
		Source:       src.String(),
		Destination:  op.Destination.String(),
		Rows:         rows,
		Cols:         cols,
		CellsWritten: rows * cols,
		Operations:   1,
	}, nil
}

// AutoFillDown fills the source row's values and formulas down every
// consecutive row whose lookup-column cell is populated, stopping at the
// first empty one. With skipIfExists set, rows already holding a value in
// the source's column are left alone.
func AutoFillDown(ctx context.Context, gw Gateway, source, lookupColumn string, skipIfExists bool) (*CopyReport, error) {
	src, err := addr.ParseRange(source, "")
	if err != nil {
		return nil, err
	}

	snapshot, err := readSnapshot(ctx, gw)
	if err != nil {
		return nil, err
	}

	values := sourceBlock(snapshot, src)
	ops, err := planner.PlanAutofill(src, values, snapshot, lookupColumn, skipIfExists)
	if err != nil {
		return nil, err
	}

	cells := 0
	for _, op := range ops {
		if err := gw.WriteRange(ctx, op.Destination, op.Values); err != nil {
			return nil, fmt.Errorf("write %s: %w", op.Destination, err)
		}
		r, c := gridShape(op.Values)
		cells += r * c
	}

	report := &CopyReport{
		Source:       src.String(),
		Rows:         len(ops),
		CellsWritten: cells,
		Operations:   len(ops),
	}
	if len(ops) > 0 {
		first, last := ops[0].Destination, ops[len(ops)-1].Destination
		span := addr.Range{Sheet: first.Sheet, Start: first.Start, End: last.End}
		report.Destination = span.String()
		_, report.Cols = gridShape(ops[0].Values)
	}
	slog.InfoContext(ctx, "autofill complete",
		"source", report.Source, "destination", report.Destination,
		"rows_filled", report.Rows)
	return report, nil
}

// MergeByLookup merges incoming partial records into the sheet's rows,
// matched by the composite of keyColumns against the sheet's first-row
// headers, and writes the whole merged table back in one shot.
func MergeByLookup(ctx context.Context, gw Gateway, data any, keyColumns []string, opts lookup.Options) (*MergeReport, error) {
	snapshot, err := readSnapshot(ctx, gw)
	if err != nil {
		return nil, err
	}
	existing := frameFromGrid(snapshot)

	incoming, err := toIncoming(data)
	if err != nil {
		return nil, err
	}

	res, err := lookup.Merge(existing, incoming, keyColumns, opts)
	if err != nil {
		return nil, err
	}

	values := res.Updated.Values()
	rows, cols := gridShape(values)
	target := origin().ExpandForData(rows, cols)
	if err := gw.WriteRange(ctx, target, values); err != nil {
		return nil, fmt.Errorf("write %s: %w", target, err)
	}

	slog.InfoContext(ctx, "lookup merge complete",
		"range", target.String(), "matched_rows", res.MatchedRows,
		"unmatched_records", res.UnmatchedRecords, "new_columns", len(res.NewColumns))
	return &MergeReport{
		UpdatedRange:     target.String(),
		MatchedRows:      res.MatchedRows,
		UnmatchedRecords: res.UnmatchedRecords,
		NewColumns:       res.NewColumns,
		RowsWritten:      rows,
	}, nil
}

// WriteTable normalizes data of any supported shape and writes it at the
// given range, expanding a bare anchor cell to the data's dimensions.
// Header-less 2D input runs through the cell-length heuristic so an
// embedded header row is recognized in the report.
func WriteTable(ctx context.Context, gw Gateway, data any, rangeText string) (*WriteReport, error) {
	rng, err := addr.ParseRange(rangeText, "")
	if err != nil {
		return nil, err
	}

	frame, err := table.Normalize(data)
	if err != nil {
		return nil, err
	}
	if frame.Headers == nil {
		if headers, rows, ok := table.DetectHeaders(frame.Rows, table.DefaultHeaderHeuristic()); ok {
			frame = table.NewFrame(headers, rows)
		}
	}

	values := frame.Values()
	rows, cols := gridShape(values)
	if rows == 0 {
		return nil, &planner.EmptySourceError{Source: rng}
	}

	target := rng.ExpandForData(rows, cols)
	if err := gw.WriteRange(ctx, target, values); err != nil {
		return nil, fmt.Errorf("write %s: %w", target, err)
	}

	slog.InfoContext(ctx, "table written",
		"range", target.String(), "rows", rows, "cols", cols)
	return &WriteReport{
		Range:           target.String(),
		Rows:            rows,
		Cols:            cols,
		HeadersDetected: frame.Headers != nil,
	}, nil
}

// readSnapshot reads the sheet's full used range in one round trip.
func readSnapshot(ctx context.Context, gw Gateway) (planner.Snapshot, error) {
	rows, cols, err := gw.SheetBounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheet bounds: %w", err)
	}
	if rows == 0 || cols == 0 {
		return planner.Snapshot{}, nil
	}
	values, err := gw.ReadRange(ctx, origin().ExpandForData(rows, cols))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	return planner.Snapshot(values), nil
}

// sourceBlock slices the source range's values out of the snapshot. Open
// dimensions count as one.
func sourceBlock(snapshot planner.Snapshot, src addr.Range) [][]any {
	rows, cols := src.Height(), src.Width()
	if rows == 0 {
		rows = 1
	}
	if cols == 0 {
		cols = 1
	}
	out := make([][]any, rows)
	for r := 0; r < rows; r++ {
		row := make([]any, cols)
		for c := 0; c < cols; c++ {
			row[c] = snapshot.At(src.Start.Row-1+r, src.Start.Col+c)
		}
		out[r] = row
	}
	return out
}

// frameFromGrid treats the grid's first row as headers, conforming every
// data row to the header width.
func frameFromGrid(grid [][]any) *table.Frame {
	if len(grid) == 0 {
		return table.NewFrame(nil, nil)
	}
	headers := make([]string, len(grid[0]))
	for i, v := range grid[0] {
		headers[i] = table.ValueString(v)
	}
	rows := make([][]any, len(grid)-1)
	for i, row := range grid[1:] {
		rows[i] = append([]any(nil), row...)
	}
	return table.NewFrame(headers, rows)
}

// toIncoming coerces merge input into records; record lists pass through,
// anything else runs through the normalizer and must carry headers.
func toIncoming(data any) ([]table.Record, error) {
	if recs, ok := data.([]table.Record); ok {
		return recs, nil
	}
	frame, err := table.Normalize(data)
	if err != nil {
		return nil, err
	}
	recs := frame.Records()
	if recs == nil {
		return nil, &table.UnsupportedShapeError{Value: data}
	}
	return recs, nil
}

func origin() addr.Range {
	return addr.Range{Start: addr.Cell{Col: 0, Row: 1}}
}

func gridShape(values [][]any) (rows, cols int) {
	rows = len(values)
	for _, row := range values {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return rows, cols
}
