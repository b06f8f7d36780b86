package table

// HeaderHeuristic parameterizes header auto-detection. The detection is a
// best-effort heuristic and only examines the first two rows.
type HeaderHeuristic struct {
	// MaxHeaderMean is the exclusive upper bound on the mean cell length of
	// a row considered headers.
	MaxHeaderMean float64
	// MinDataMean is the exclusive lower bound on the mean cell length of
	// the following row for detection to trigger.
	MinDataMean float64
}

// DefaultHeaderHeuristic returns the stock thresholds: header rows average
// under 30 characters while the first data row averages over 50.
func DefaultHeaderHeuristic() HeaderHeuristic {
	return HeaderHeuristic{MaxHeaderMean: 30, MinDataMean: 50}
}

// DetectHeaders decides whether the first row of rows looks like a header
// row. Detection needs at least two rows and compares the mean character
// length of non-empty cells in row 0 against row 1. On detection it returns
// the header strings and the remaining data rows; otherwise it returns the
// input unchanged with ok=false.
func DetectHeaders(rows [][]any, h HeaderHeuristic) (headers []string, data [][]any, ok bool) {
	if len(rows) < 2 {
		return nil, rows, false
	}

	firstMean, firstOK := meanCellLength(rows[0])
	secondMean, secondOK := meanCellLength(rows[1])
	if !firstOK || !secondOK {
		return nil, rows, false
	}

	if firstMean < h.MaxHeaderMean && secondMean > h.MinDataMean {
		headers = make([]string, len(rows[0]))
		for i, v := range rows[0] {
			headers[i] = ValueString(v)
		}
		return headers, rows[1:], true
	}
	return nil, rows, false
}

// meanCellLength averages the character length of non-empty cells. ok is
// false when the row has no non-empty cells.
func meanCellLength(row []any) (mean float64, ok bool) {
	total, count := 0, 0
	for _, v := range row {
		s := ValueString(v)
		if s == "" {
			continue
		}
		total += len([]rune(s))
		count++
	}
	if count == 0 {
		return 0, false
	}
	return float64(total) / float64(count), true
}
