package sheetsync

// CopyReport summarizes a copy or autofill action.
type CopyReport struct {
	// Source is the canonical text of the range that was read.
	Source string `json:"source"`
	// Destination is the canonical text of the written range. For autofill
	// it spans the first through last filled row.
	Destination string `json:"destination,omitempty"`
	// Rows and Cols give the shape of the written block.
	Rows int `json:"rows"`
	Cols int `json:"cols"`
	// CellsWritten counts every cell written.
	CellsWritten int `json:"cells_written"`
	// Operations counts the individual range writes; 1 for a plain copy,
	// one per filled row for autofill.
	Operations int `json:"operations"`
}

// MergeReport summarizes a lookup merge.
type MergeReport struct {
	// UpdatedRange is the canonical text of the full frame written back.
	UpdatedRange string `json:"updated_range"`
	// MatchedRows counts existing rows that received an update.
	MatchedRows int `json:"matched_rows"`
	// UnmatchedRecords counts incoming records whose key matched no row.
	UnmatchedRecords int `json:"unmatched_records"`
	// NewColumns lists columns appended during the merge.
	NewColumns []string `json:"new_columns,omitempty"`
	// RowsWritten counts rows in the write-back, header row included.
	RowsWritten int `json:"rows_written"`
}

// WriteReport summarizes a table write.
type WriteReport struct {
	// Range is the canonical text of the written range after expansion.
	Range string `json:"range"`
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
	// HeadersDetected reports whether the written block carries a header
	// row, either from the input shape or from the length heuristic.
	HeadersDetected bool `json:"headers_detected"`
}
