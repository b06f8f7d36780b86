package lookup

import (
	"strings"

	"github.com/fastestai/sheetsync-go/pkg/sheetsync/table"
)

// Options controls merge behavior.
type Options struct {
	// Override makes empty incoming values clear the matched cell; when
	// false (the default) empty incoming values leave the cell untouched.
	Override bool
	// CreateNewColumns appends incoming keys missing from the existing
	// headers as new columns.
	CreateNewColumns bool
}

// Result describes one merge.
type Result struct {
	// Updated is the complete merged frame, written in one shot by the
	// caller.
	Updated *table.Frame `json:"-"`
	// NewColumns lists columns appended during the merge.
	NewColumns []string `json:"new_columns,omitempty"`
	// MatchedRows counts existing rows that received an update.
	MatchedRows int `json:"matched_rows"`
	// UnmatchedRecords counts incoming records whose key matched nothing.
	// Unmatched records are dropped, never inserted.
	UnmatchedRecords int `json:"unmatched_records"`
}

// Merge applies incoming partial records onto existing rows matched by the
// composite of keyColumns. Every matching row of a record receives the same
// update. Non-empty incoming values always overwrite; empty values clear
// the cell only under Options.Override.
func Merge(existing *table.Frame, incoming []table.Record, keyColumns []string, opts Options) (*Result, error) {
	if err := validateKeyColumns(incoming, keyColumns); err != nil {
		return nil, err
	}

	merged := cloneFrame(existing)

	var newColumns []string
	if opts.CreateNewColumns {
		newColumns = appendNewColumns(merged, incoming)
	}

	idx, err := BuildIndex(merged, keyColumns)
	if err != nil {
		return nil, err
	}

	keySet := make(map[string]bool, len(keyColumns))
	for _, col := range keyColumns {
		keySet[strings.ToLower(col)] = true
	}

	matched := make(map[int]bool)
	unmatchedRecords := 0
	for i := range incoming {
		rec := &incoming[i]
		key, ok := idx.recordKey(rec)
		if !ok {
			unmatchedRecords++
			continue
		}
		rows := idx.rows[key]
		if len(rows) == 0 {
			unmatchedRecords++
			continue
		}

		for _, rowNum := range rows {
			matched[rowNum] = true
			applyRecord(merged, rowNum, rec, keySet, opts.Override)
		}
	}

	return &Result{
		Updated:          merged,
		NewColumns:       newColumns,
		MatchedRows:      len(matched),
		UnmatchedRecords: unmatchedRecords,
	}, nil
}

// validateKeyColumns checks each key column appears, case-insensitively, in
// at least one incoming record.
func validateKeyColumns(incoming []table.Record, keyColumns []string) error {
	for _, col := range keyColumns {
		found := false
		for i := range incoming {
			if incoming[i].HasFold(col) {
				found = true
				break
			}
		}
		if !found {
			return &MissingColumnError{Column: col, Where: "incoming records"}
		}
	}
	return nil
}

// appendNewColumns adds incoming keys missing from the headers, once, at
// the end, nil-filled for every pre-existing row.
func appendNewColumns(f *table.Frame, incoming []table.Record) []string {
	var added []string
	for i := range incoming {
		for _, key := range incoming[i].Keys() {
			if f.HeaderIndex(key) >= 0 {
				continue
			}
			f.Headers = append(f.Headers, key)
			added = append(added, key)
		}
	}
	if len(added) > 0 {
		for i, row := range f.Rows {
			padded := make([]any, len(f.Headers))
			copy(padded, row)
			f.Rows[i] = padded
		}
	}
	return added
}

// applyRecord writes one record's non-key values onto one row.
func applyRecord(f *table.Frame, rowNum int, rec *table.Record, keySet map[string]bool, override bool) {
	row := f.Rows[rowNum]
	for _, key := range rec.Keys() {
		if keySet[strings.ToLower(key)] {
			continue
		}
		pos := f.HeaderIndex(key)
		if pos < 0 || pos >= len(row) {
			continue
		}
		v, _ := rec.Get(key)
		if table.ValueString(v) == "" && !override {
			continue
		}
		row[pos] = v
	}
}

func cloneFrame(f *table.Frame) *table.Frame {
	headers := append([]string(nil), f.Headers...)
	rows := make([][]any, len(f.Rows))
	for i, row := range f.Rows {
		rows[i] = append([]any(nil), row...)
	}
	return table.NewFrame(headers, rows)
}
