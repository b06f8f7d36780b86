package table

// Shape identifies which input variant the normalizer will dispatch on.
type Shape int

const (
	// ShapeUnknown marks input matching no supported variant.
	ShapeUnknown Shape = iota
	// ShapeArray2D is a slice of value rows.
	ShapeArray2D
	// ShapeRecordList is a slice of ordered records.
	ShapeRecordList
	// ShapeFlatArray is a single flat slice of values.
	ShapeFlatArray
	// ShapeRenderedText is a box-drawing table rendering serialized to text.
	ShapeRenderedText
)

// DetectShape classifies input by an ordered set of rules: strings are
// rendered text, then record lists, then 2D arrays, then flat arrays. A
// []any whose elements are all rows (or all records) is promoted to the
// richer shape.
func DetectShape(v any) Shape {
	switch t := v.(type) {
	case string:
		return ShapeRenderedText
	case []Record, []*Record:
		return ShapeRecordList
	case [][]any:
		return ShapeArray2D
	case []any:
		if len(t) == 0 {
			return ShapeArray2D
		}
		allRows, allRecords := true, true
		for _, e := range t {
			if _, ok := e.([]any); !ok {
				allRows = false
			}
			switch e.(type) {
			case Record, *Record:
			default:
				allRecords = false
			}
		}
		if allRows {
			return ShapeArray2D
		}
		if allRecords {
			return ShapeRecordList
		}
		return ShapeFlatArray
	default:
		return ShapeUnknown
	}
}

// Normalize converts any supported input shape into a Frame:
//
//   - a 2D array passes through with nil headers
//   - a record list derives headers from the first record's keys, in order;
//     keys missing from a record become nil cells
//   - a flat array becomes a single row with nil headers
//   - a string is parsed as rendered tabular text
//
// Keys appearing only in records after the first are not added as columns.
func Normalize(v any) (*Frame, error) {
	switch DetectShape(v) {
	case ShapeRenderedText:
		return parseRenderedTable(v.(string))
	case ShapeRecordList:
		return normalizeRecords(toRecords(v)), nil
	case ShapeArray2D:
		return &Frame{Rows: toRows(v)}, nil
	case ShapeFlatArray:
		return &Frame{Rows: [][]any{v.([]any)}}, nil
	default:
		return nil, &UnsupportedShapeError{Value: v}
	}
}

func normalizeRecords(records []Record) *Frame {
	if len(records) == 0 {
		return &Frame{Headers: []string{}, Rows: [][]any{}}
	}
	headers := append([]string(nil), records[0].Keys()...)
	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(headers))
		for j, h := range headers {
			if v, ok := rec.Get(h); ok {
				row[j] = v
			}
		}
		rows[i] = row
	}
	return &Frame{Headers: headers, Rows: rows}
}

func toRecords(v any) []Record {
	switch t := v.(type) {
	case []Record:
		return t
	case []*Record:
		records := make([]Record, len(t))
		for i, r := range t {
			records[i] = *r
		}
		return records
	case []any:
		records := make([]Record, len(t))
		for i, e := range t {
			switch r := e.(type) {
			case Record:
				records[i] = r
			case *Record:
				records[i] = *r
			}
		}
		return records
	}
	return nil
}

func toRows(v any) [][]any {
	switch t := v.(type) {
	case [][]any:
		return t
	case []any:
		rows := make([][]any, len(t))
		for i, e := range t {
			rows[i], _ = e.([]any)
		}
		return rows
	}
	return nil
}
