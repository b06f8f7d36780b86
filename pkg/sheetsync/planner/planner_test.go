package planner

import (
	"errors"
	"testing"

	"github.com/fastestai/sheetsync-go/pkg/sheetsync/addr"
)

func mustRange(t *testing.T, text string) addr.Range {
	t.Helper()
	r, err := addr.ParseRange(text, "")
	if err != nil {
		t.Fatalf("ParseRange(%q) failed: %v", text, err)
	}
	return r
}

func TestPlanSingle(t *testing.T) {
	source := mustRange(t, "A1:B2")
	dest := mustRange(t, "D5:E6")
	values := [][]any{
		{"=SUM(A10:A20)", int64(1)},
		{"x", "=B1*2"},
	}

	op, err := PlanSingle(source, values, dest)
	if err != nil {
		t.Fatalf("PlanSingle failed: %v", err)
	}

	if op.RowOffset != 4 || op.ColOffset != 3 {
		t.Errorf("offsets = (%d, %d), expected (4, 3)", op.RowOffset, op.ColOffset)
	}
	if op.Values[0][0] != "=SUM(D14:D24)" {
		t.Errorf("translated formula = %v", op.Values[0][0])
	}
	if op.Values[0][1] != int64(1) || op.Values[1][0] != "x" {
		t.Errorf("literal values changed: %v", op.Values)
	}
	if op.Values[1][1] != "=E5*2" {
		t.Errorf("translated formula = %v", op.Values[1][1])
	}
}

func TestPlanSingleBroadcast(t *testing.T) {
	source := mustRange(t, "A2:C2")
	dest := mustRange(t, "A3:C5")
	values := [][]any{{"=B2+1", "fixed", int64(9)}}

	op, err := PlanSingle(source, values, dest)
	if err != nil {
		t.Fatalf("PlanSingle failed: %v", err)
	}

	if len(op.Values) != 3 {
		t.Fatalf("expected 3 broadcast rows, got %d", len(op.Values))
	}
	expected := []string{"=B3+1", "=B4+1", "=B5+1"}
	for i, want := range expected {
		if op.Values[i][0] != want {
			t.Errorf("row %d formula = %v, expected %q", i, op.Values[i][0], want)
		}
		if op.Values[i][1] != "fixed" {
			t.Errorf("row %d literal = %v", i, op.Values[i][1])
		}
	}
}

func TestPlanSingleDimensionMismatch(t *testing.T) {
	source := mustRange(t, "A1:B2")
	dest := mustRange(t, "D1:F9")
	values := [][]any{{int64(1), int64(2)}, {int64(3), int64(4)}}

	_, err := PlanSingle(source, values, dest)
	var mismatch *DimensionMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected DimensionMismatchError, got %v", err)
	}
	if mismatch.SourceRows != 2 || mismatch.SourceCols != 2 {
		t.Errorf("source shape = %dx%d", mismatch.SourceRows, mismatch.SourceCols)
	}
	if mismatch.DestRows != 9 || mismatch.DestCols != 3 {
		t.Errorf("dest shape = %dx%d", mismatch.DestRows, mismatch.DestCols)
	}
}

func TestPlanSingleEmptySource(t *testing.T) {
	source := mustRange(t, "A1:B2")
	dest := mustRange(t, "D1:E2")

	_, err := PlanSingle(source, [][]any{{"", nil}, {nil, ""}}, dest)
	var empty *EmptySourceError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptySourceError, got %v", err)
	}
}

func TestPlanSingleExpandsSingleCellDest(t *testing.T) {
	source := mustRange(t, "A1:B2")
	dest := mustRange(t, "D5")
	values := [][]any{{int64(1), int64(2)}, {int64(3), int64(4)}}

	op, err := PlanSingle(source, values, dest)
	if err != nil {
		t.Fatalf("PlanSingle failed: %v", err)
	}
	if op.Destination.String() != "D5:E6" {
		t.Errorf("destination = %s, expected D5:E6", op.Destination)
	}
}

func autofillSnapshot() Snapshot {
	// lookup column A populated through row 5, empty at row 6
	return Snapshot{
		{"SKU", "Total"},
		{"S-1", "=B1"},
		{"S-2", ""},
		{"S-3", "stale"},
		{"S-4", ""},
		{"", ""},
	}
}

func TestPlanAutofill(t *testing.T) {
	source := mustRange(t, "B2")
	values := [][]any{{"=SUM(A2:A2)"}}

	ops, err := PlanAutofill(source, values, autofillSnapshot(), "A", false)
	if err != nil {
		t.Fatalf("PlanAutofill failed: %v", err)
	}

	if len(ops) != 3 {
		t.Fatalf("expected 3 operations, got %d", len(ops))
	}
	expectedDest := []string{"B3:B3", "B4:B4", "B5:B5"}
	expectedFormula := []string{"=SUM(A3:A3)", "=SUM(A4:A4)", "=SUM(A5:A5)"}
	for i, op := range ops {
		if op.Destination.String() != expectedDest[i] {
			t.Errorf("op %d destination = %s, expected %s", i, op.Destination, expectedDest[i])
		}
		if op.Values[0][0] != expectedFormula[i] {
			t.Errorf("op %d formula = %v, expected %q", i, op.Values[0][0], expectedFormula[i])
		}
		if op.RowOffset != i+1 {
			t.Errorf("op %d row offset = %d, expected %d", i, op.RowOffset, i+1)
		}
	}
}

func TestPlanAutofillSkipIfExists(t *testing.T) {
	source := mustRange(t, "B2")
	values := [][]any{{"=SUM(A2:A2)"}}

	ops, err := PlanAutofill(source, values, autofillSnapshot(), "A", true)
	if err != nil {
		t.Fatalf("PlanAutofill failed: %v", err)
	}

	// row 4 already holds "stale": skipped, but scanning continues to row 5
	if len(ops) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(ops))
	}
	if ops[0].Destination.String() != "B3:B3" || ops[1].Destination.String() != "B5:B5" {
		t.Errorf("destinations = %s, %s", ops[0].Destination, ops[1].Destination)
	}
}

func TestPlanAutofillEmptySource(t *testing.T) {
	source := mustRange(t, "B2")

	_, err := PlanAutofill(source, [][]any{{""}}, autofillSnapshot(), "A", false)
	var empty *EmptySourceError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptySourceError, got %v", err)
	}
}

func TestSnapshotAt(t *testing.T) {
	s := Snapshot{{int64(1), int64(2)}, {int64(3)}}

	if s.At(0, 1) != int64(2) {
		t.Errorf("At(0,1) = %v", s.At(0, 1))
	}
	if s.At(1, 1) != nil {
		t.Errorf("At(1,1) = %v, expected nil for ragged row", s.At(1, 1))
	}
	if s.At(5, 0) != nil || s.At(-1, 0) != nil || s.At(0, -1) != nil {
		t.Error("out-of-range At should return nil")
	}
}
