package lookup

import (
	"errors"
	"testing"

	"github.com/fastestai/sheetsync-go/pkg/sheetsync/table"
)

func record(pairs ...any) table.Record {
	r := table.NewRecord()
	for i := 0; i < len(pairs); i += 2 {
		r.Set(pairs[i].(string), pairs[i+1])
	}
	return *r
}

func existingUsers() *table.Frame {
	return table.NewFrame(
		[]string{"username", "display_name", "status", "score"},
		[][]any{
			{"@user1", "User One", "old", "100"},
			{"@user2", "User Two", "old", "50"},
		},
	)
}

func TestMergeUpdatesMatchedRows(t *testing.T) {
	incoming := []table.Record{
		record("username", "@user1", "status", "updated"),
		record("username", "@user2", "status", "updated"),
	}

	res, err := Merge(existingUsers(), incoming, []string{"username"}, Options{})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if res.MatchedRows != 2 || res.UnmatchedRecords != 0 {
		t.Errorf("matched=%d unmatched=%d", res.MatchedRows, res.UnmatchedRecords)
	}
	for i, row := range res.Updated.Rows {
		if row[2] != "updated" {
			t.Errorf("row %d status = %v", i, row[2])
		}
	}
	// untouched columns survive
	if res.Updated.Rows[0][1] != "User One" || res.Updated.Rows[1][3] != "50" {
		t.Errorf("unrelated cells changed: %v", res.Updated.Rows)
	}
}

func TestMergeKeyMatchingIsCaseInsensitive(t *testing.T) {
	incoming := []table.Record{record("USERNAME", "@USER1", "status", "updated")}

	res, err := Merge(existingUsers(), incoming, []string{"username"}, Options{})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if res.MatchedRows != 1 {
		t.Fatalf("matched = %d, expected 1", res.MatchedRows)
	}
	if res.Updated.Rows[0][2] != "updated" {
		t.Errorf("status = %v", res.Updated.Rows[0][2])
	}
}

func TestMergeOverrideSemantics(t *testing.T) {
	existing := table.NewFrame(
		[]string{"username", "status"},
		[][]any{{"@a", "old"}},
	)
	incoming := []table.Record{record("username", "@A", "status", "")}

	res, err := Merge(existing, incoming, []string{"username"}, Options{Override: false})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if res.Updated.Rows[0][1] != "old" {
		t.Errorf("override=false: status = %v, expected preserved \"old\"", res.Updated.Rows[0][1])
	}

	res, err = Merge(existing, incoming, []string{"username"}, Options{Override: true})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if res.Updated.Rows[0][1] != "" {
		t.Errorf("override=true: status = %v, expected cleared", res.Updated.Rows[0][1])
	}
}

func TestMergeCompositeKeyMultiMatch(t *testing.T) {
	existing := table.NewFrame(
		[]string{"first", "last", "city"},
		[][]any{
			{"Ada", "Lovelace", "London"},
			{"Ada", "Lovelace", "Paris"},
			{"Alan", "Turing", "London"},
		},
	)
	incoming := []table.Record{record("first", "ada", "last", "LOVELACE", "city", "Turin")}

	res, err := Merge(existing, incoming, []string{"first", "last"}, Options{})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if res.MatchedRows != 2 {
		t.Fatalf("matched = %d, expected 2", res.MatchedRows)
	}
	if res.Updated.Rows[0][2] != "Turin" || res.Updated.Rows[1][2] != "Turin" {
		t.Errorf("both matching rows should update: %v", res.Updated.Rows)
	}
	if res.Updated.Rows[2][2] != "London" {
		t.Errorf("non-matching row changed: %v", res.Updated.Rows[2])
	}
}

func TestMergeUnmatchedRecordsDropped(t *testing.T) {
	incoming := []table.Record{
		record("username", "@user1", "status", "updated"),
		record("username", "@ghost", "status", "updated"),
	}

	res, err := Merge(existingUsers(), incoming, []string{"username"}, Options{})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if res.MatchedRows != 1 || res.UnmatchedRecords != 1 {
		t.Errorf("matched=%d unmatched=%d", res.MatchedRows, res.UnmatchedRecords)
	}
	if len(res.Updated.Rows) != 2 {
		t.Errorf("unmatched record must not insert a row, got %d rows", len(res.Updated.Rows))
	}
}

func TestMergeCreateNewColumns(t *testing.T) {
	incoming := []table.Record{
		record("username", "@user1", "email", "a@x.io"),
		record("username", "@user2", "email", "b@x.io", "tier", "gold"),
	}

	res, err := Merge(existingUsers(), incoming, []string{"username"}, Options{CreateNewColumns: true})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	headers := res.Updated.Headers
	if len(headers) != 6 || headers[4] != "email" || headers[5] != "tier" {
		t.Fatalf("headers = %v", headers)
	}
	if res.Updated.Rows[0][4] != "a@x.io" {
		t.Errorf("row 0 email = %v", res.Updated.Rows[0][4])
	}
	if res.Updated.Rows[0][5] != nil {
		t.Errorf("row 0 tier = %v, expected nil", res.Updated.Rows[0][5])
	}
	if res.Updated.Rows[1][5] != "gold" {
		t.Errorf("row 1 tier = %v", res.Updated.Rows[1][5])
	}
	if len(res.NewColumns) != 2 {
		t.Errorf("NewColumns = %v", res.NewColumns)
	}
}

func TestMergeWithoutCreateNewColumns(t *testing.T) {
	incoming := []table.Record{record("username", "@user1", "email", "a@x.io")}

	res, err := Merge(existingUsers(), incoming, []string{"username"}, Options{})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if len(res.Updated.Headers) != 4 {
		t.Errorf("headers grew without CreateNewColumns: %v", res.Updated.Headers)
	}
}

func TestMergeMissingKeyColumn(t *testing.T) {
	incoming := []table.Record{record("status", "x")}

	_, err := Merge(existingUsers(), incoming, []string{"username"}, Options{})
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if missing.Column != "username" {
		t.Errorf("Column = %q", missing.Column)
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	existing := existingUsers()
	incoming := []table.Record{record("username", "@user1", "status", "updated")}

	if _, err := Merge(existing, incoming, []string{"username"}, Options{}); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if existing.Rows[0][2] != "old" {
		t.Errorf("input frame mutated: %v", existing.Rows[0])
	}
}
