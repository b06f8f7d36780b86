package planner

import (
	"fmt"

	"github.com/fastestai/sheetsync-go/pkg/sheetsync/addr"
)

// DimensionMismatchError reports a copy whose source and destination shapes
// disagree and cannot broadcast.
type DimensionMismatchError struct {
	Source     addr.Range
	Dest       addr.Range
	SourceRows int
	SourceCols int
	DestRows   int
	DestCols   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("source %s is %dx%d but destination %s is %dx%d",
		e.Source, e.SourceRows, e.SourceCols, e.Dest, e.DestRows, e.DestCols)
}

// EmptySourceError reports a copy source with no values or formulas.
type EmptySourceError struct {
	Source addr.Range
}

func (e *EmptySourceError) Error() string {
	return fmt.Sprintf("source range %s has no values or formulas to copy", e.Source)
}
