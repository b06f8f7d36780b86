package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Record is an ordered key/value mapping. Unlike a plain map, a Record
// remembers the order keys were first set in, which the normalizer relies
// on when deriving headers from the first record.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord returns an empty Record.
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// Set stores a value under key, appending the key on first use.
func (r *Record) Set(key string, v any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// GetFold returns the value stored under key, matching case-insensitively.
func (r *Record) GetFold(key string) (any, bool) {
	if v, ok := r.values[key]; ok {
		return v, true
	}
	for _, k := range r.keys {
		if strings.EqualFold(k, key) {
			return r.values[k], true
		}
	}
	return nil, false
}

// HasFold reports whether a key is present, matching case-insensitively.
func (r *Record) HasFold(key string) bool {
	_, ok := r.GetFold(key)
	return ok
}

// Keys returns the record's keys in insertion order.
func (r *Record) Keys() []string {
	return r.keys
}

// Len returns the number of keys.
func (r *Record) Len() int {
	return len(r.keys)
}

// UnmarshalJSON decodes a JSON object while preserving its key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected JSON object, got %v", tok)
	}

	r.keys = nil
	r.values = make(map[string]any)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		val, err := decodeValue(dec)
		if err != nil {
			return err
		}
		r.Set(key, val)
	}
	_, err = dec.Token() // closing brace
	return err
}

// MarshalJSON encodes the record as a JSON object in key order.
func (r Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(name)
		b.WriteByte(':')
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// decodeValue reads one JSON value from dec, decoding nested objects into
// Records so key order survives at every depth.
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			rec := NewRecord()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				rec.Set(keyTok.(string), val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return rec, nil
		case '[':
			var list []any
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		}
		return nil, fmt.Errorf("record: unexpected delimiter %v", t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return tok, nil
	}
}

// DecodeJSON decodes raw JSON into one of the normalizer's input shapes: a
// string stays a string, an array of objects becomes []Record, an array of
// arrays becomes [][]any, any other array becomes []any.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case string:
		return t, nil
	case json.Delim:
		if t != '[' {
			return nil, &UnsupportedShapeError{Value: t.String()}
		}
	default:
		return nil, &UnsupportedShapeError{Value: tok}
	}

	var elems []any
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		elems = append(elems, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	if len(elems) == 0 {
		return [][]any{}, nil
	}

	records := make([]Record, 0, len(elems))
	allRecords := true
	for _, e := range elems {
		rec, ok := e.(*Record)
		if !ok {
			allRecords = false
			break
		}
		records = append(records, *rec)
	}
	if allRecords {
		return records, nil
	}

	rows := make([][]any, 0, len(elems))
	allRows := true
	for _, e := range elems {
		row, ok := e.([]any)
		if !ok {
			allRows = false
			break
		}
		rows = append(rows, row)
	}
	if allRows {
		return rows, nil
	}

	return elems, nil
}
