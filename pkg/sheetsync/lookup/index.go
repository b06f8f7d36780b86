// Package lookup indexes table rows by composite key and merges partial
// records into them with override/preserve semantics.
package lookup

import (
	"fmt"
	"strings"

	"github.com/fastestai/sheetsync-go/pkg/sheetsync/table"
)

// keySep joins key components; a non-printing separator keeps composite
// keys collision-free.
const keySep = "\x1f"

// MissingColumnError reports a key column absent from a header set or from
// every incoming record.
type MissingColumnError struct {
	Column string
	Where  string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("lookup column %q not found in %s", e.Column, e.Where)
}

// Index maps composite keys to the existing rows holding them. Keys are
// case-insensitive, trimmed string composites; one key may map to several
// rows. An Index is built fresh from a just-read snapshot and never
// persisted.
type Index struct {
	// KeyColumns are the column names the keys were built from.
	KeyColumns []string

	columnIdx []int
	rows      map[string][]int
}

// BuildIndex indexes every row of existing by the composite of keyColumns.
// Header matching is case-insensitive.
func BuildIndex(existing *table.Frame, keyColumns []string) (*Index, error) {
	idx := &Index{
		KeyColumns: keyColumns,
		columnIdx:  make([]int, len(keyColumns)),
		rows:       make(map[string][]int),
	}

	for i, col := range keyColumns {
		pos := existing.HeaderIndex(col)
		if pos < 0 {
			return nil, &MissingColumnError{Column: col, Where: "sheet headers"}
		}
		idx.columnIdx[i] = pos
	}

	for rowNum, row := range existing.Rows {
		key := idx.rowKey(row)
		idx.rows[key] = append(idx.rows[key], rowNum)
	}
	return idx, nil
}

// Rows returns the row numbers holding the given key components.
func (idx *Index) Rows(components []string) []int {
	return idx.rows[compositeKey(components)]
}

// rowKey builds the composite key for one existing row.
func (idx *Index) rowKey(row []any) string {
	parts := make([]string, len(idx.columnIdx))
	for i, pos := range idx.columnIdx {
		var v any
		if pos < len(row) {
			v = row[pos]
		}
		parts[i] = table.ValueString(v)
	}
	return compositeKey(parts)
}

// recordKey builds the composite key for an incoming record, matching the
// record's keys case-insensitively. ok is false when any key column is
// absent from the record.
func (idx *Index) recordKey(rec *table.Record) (string, bool) {
	parts := make([]string, len(idx.KeyColumns))
	for i, col := range idx.KeyColumns {
		v, present := rec.GetFold(col)
		if !present {
			return "", false
		}
		parts[i] = table.ValueString(v)
	}
	return compositeKey(parts), true
}

func compositeKey(parts []string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(normalized, keySep)
}
