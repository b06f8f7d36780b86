package localsheet

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastestai/sheetsync-go/pkg/sheetsync"
	"github.com/fastestai/sheetsync-go/pkg/sheetsync/addr"
)

func mustRange(t *testing.T, text string) addr.Range {
	t.Helper()
	rng, err := addr.ParseRange(text, "")
	require.NoError(t, err)
	return rng
}

func TestOpenCreatesWorkbookAndSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.xlsx")

	store, err := Open(path, "Data")
	require.NoError(t, err)
	defer store.Close()

	err = store.WriteRange(context.Background(), mustRange(t, "A1"), [][]any{{"hello"}})
	require.NoError(t, err)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("workbook not saved: %v", err)
	}
}

func TestRoundTripValuesAndFormulas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")

	store, err := Open(path, "Data")
	require.NoError(t, err)
	err = store.WriteRange(context.Background(), mustRange(t, "A1"), [][]any{
		{"name", "amount", "total"},
		{"alpha", int64(3), "=B2*2"},
		{"beta", 1.5, "=B3*2"},
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path, "Data")
	require.NoError(t, err)
	defer reopened.Close()

	values, err := reopened.ReadRange(context.Background(), mustRange(t, "A1:C3"))
	require.NoError(t, err)
	assert.Equal(t, [][]any{
		{"name", "amount", "total"},
		{"alpha", int64(3), "=B2*2"},
		{"beta", 1.5, "=B3*2"},
	}, values)
}

func TestSheetBounds(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "book.xlsx"), "Data")
	require.NoError(t, err)
	defer store.Close()

	rows, cols, err := store.SheetBounds(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rows)
	assert.Zero(t, cols)

	err = store.WriteRange(context.Background(), mustRange(t, "B2"), [][]any{
		{"a", "b", "c"},
		{"d", "e", "f"},
	})
	require.NoError(t, err)

	rows, cols, err = store.SheetBounds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, rows)
	assert.Equal(t, 4, cols)
}

func TestReadRangeEmptyCellsAreNil(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "book.xlsx"), "Data")
	require.NoError(t, err)
	defer store.Close()

	err = store.WriteRange(context.Background(), mustRange(t, "A1"), [][]any{{"x"}})
	require.NoError(t, err)

	values, err := store.ReadRange(context.Background(), mustRange(t, "A1:B2"))
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"x", nil}, {nil, nil}}, values)
}

func TestStoreDrivesCopyRange(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "book.xlsx"), "Data")
	require.NoError(t, err)
	defer store.Close()

	err = store.WriteRange(context.Background(), mustRange(t, "A1"), [][]any{
		{int64(10), "=A1*2"},
	})
	require.NoError(t, err)

	report, err := sheetsync.CopyRange(context.Background(), store, "A1:B1", "A5")
	require.NoError(t, err)
	assert.Equal(t, "A5:B5", report.Destination)

	values, err := store.ReadRange(context.Background(), mustRange(t, "A5:B5"))
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(10), "=A5*2"}}, values)
}
