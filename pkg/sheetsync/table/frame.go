// Package table normalizes heterogeneous tabular input shapes into one
// canonical headers+rows form and provides the ordered Record type the
// normalizer and merger share.
package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Frame is the canonical tabular form: optional headers plus value rows.
// When Headers is non-nil every row has exactly len(Headers) cells.
type Frame struct {
	// Headers holds column names, nil when the input carried none.
	Headers []string `json:"headers,omitempty"`
	// Rows holds the data rows.
	Rows [][]any `json:"rows"`
}

// NewFrame builds a Frame, padding or truncating every row to the header
// width when headers are present.
func NewFrame(headers []string, rows [][]any) *Frame {
	f := &Frame{Headers: headers, Rows: rows}
	f.conform()
	return f
}

// conform pads short rows with nil and truncates long rows so each row
// matches the header width.
func (f *Frame) conform() {
	if f.Headers == nil {
		return
	}
	width := len(f.Headers)
	for i, row := range f.Rows {
		switch {
		case len(row) < width:
			padded := make([]any, width)
			copy(padded, row)
			f.Rows[i] = padded
		case len(row) > width:
			f.Rows[i] = row[:width]
		}
	}
}

// HeaderIndex returns the position of a header, matched case-insensitively,
// or -1 when absent.
func (f *Frame) HeaderIndex(name string) int {
	for i, h := range f.Headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// Records converts the frame's rows into ordered records keyed by header.
// Frames without headers yield nil.
func (f *Frame) Records() []Record {
	if f.Headers == nil {
		return nil
	}
	records := make([]Record, 0, len(f.Rows))
	for _, row := range f.Rows {
		rec := NewRecord()
		for i, h := range f.Headers {
			rec.Set(h, row[i])
		}
		records = append(records, *rec)
	}
	return records
}

// Values renders the frame, headers first when present, as a 2D array ready
// for a range write.
func (f *Frame) Values() [][]any {
	values := make([][]any, 0, len(f.Rows)+1)
	if f.Headers != nil {
		header := make([]any, len(f.Headers))
		for i, h := range f.Headers {
			header[i] = h
		}
		values = append(values, header)
	}
	return append(values, f.Rows...)
}

// ValueString renders a cell value the way it would appear in a sheet cell.
// nil renders as the empty string.
func ValueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case interface{ String() string }:
		return t.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
