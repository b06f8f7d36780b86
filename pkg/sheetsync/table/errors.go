package table

import "fmt"

// TruncatedInputError reports rendered tabular text containing a truncation
// marker. Truncated text is refused outright rather than parsed partially.
type TruncatedInputError struct {
	// Line is the 1-based line number holding the first marker.
	Line int
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("rendered table text is truncated (ellipsis on line %d)", e.Line)
}

// TextParseError reports rendered tabular text without a recognizable
// header or data section.
type TextParseError struct {
	Reason string
}

func (e *TextParseError) Error() string {
	return fmt.Sprintf("cannot parse rendered table text: %s", e.Reason)
}

// UnsupportedShapeError reports input that matches none of the normalizer's
// shape variants.
type UnsupportedShapeError struct {
	Value any
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("unsupported input shape %T", e.Value)
}
