// Package sheetsync orchestrates spreadsheet synchronization: range copies
// with formula reference translation, autofill down a lookup column, and
// lookup-keyed merges of partial records, against any backend implementing
// Gateway.
package sheetsync

import (
	"context"

	"github.com/fastestai/sheetsync-go/pkg/sheetsync/addr"
)

// Gateway is the worksheet I/O boundary. An implementation addresses a
// single worksheet. The engine performs one read and one write per planned
// operation and never retries or rolls back; partial writes surface as
// errors to the caller.
type Gateway interface {
	// ReadRange returns the cell values of the range as a row-major grid.
	ReadRange(ctx context.Context, rng addr.Range) ([][]any, error)
	// WriteRange writes a row-major grid into the range. Values beginning
	// with "=" are written as formulas.
	WriteRange(ctx context.Context, rng addr.Range, values [][]any) error
	// SheetBounds reports the used extent of the sheet as row and column
	// counts.
	SheetBounds(ctx context.Context) (rows, cols int, err error)
}
