package addr

import "fmt"

// InvalidAddressError reports a column letter or cell address that cannot
// be interpreted as A1 notation.
type InvalidAddressError struct {
	Input string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address %q", e.Input)
}

// ParseError reports malformed range text.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse range %q: %s", e.Text, e.Reason)
}
