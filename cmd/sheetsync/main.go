// Package main provides the CLI entry point for sheetsync-go.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fastestai/sheetsync-go/pkg/sheetsync"
	"github.com/fastestai/sheetsync-go/pkg/sheetsync/localsheet"
	"github.com/fastestai/sheetsync-go/pkg/sheetsync/lookup"
	"github.com/fastestai/sheetsync-go/pkg/sheetsync/table"
)

var (
	filePath      string
	sheetName     string
	pretty        bool
	verbose       bool
	skipExisting  bool
	keyColumns    []string
	override      bool
	createColumns bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheetsync",
		Short: "Synchronize ranges, formulas, and records in a spreadsheet",
		Long: `sheetsync copies ranges with formula reference translation, autofills
formulas down populated rows, and merges keyed records into a local
xlsx workbook.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&filePath, "file", "f", "", "Workbook path (required)")
	rootCmd.PersistentFlags().StringVarP(&sheetName, "sheet", "s", "Sheet1", "Worksheet name")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.MarkPersistentFlagRequired("file")

	copyCmd := &cobra.Command{
		Use:   "copy [source] [destination]",
		Short: "Copy a range, translating relative formula references",
		Args:  cobra.ExactArgs(2),
		RunE:  runCopy,
	}

	autofillCmd := &cobra.Command{
		Use:   "autofill [source] [lookup-column]",
		Short: "Fill the source row down every populated lookup-column row",
		Args:  cobra.ExactArgs(2),
		RunE:  runAutofill,
	}
	autofillCmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Leave rows that already hold a value")

	mergeCmd := &cobra.Command{
		Use:   "merge [data.json]",
		Short: "Merge keyed records into matching sheet rows",
		Long: `merge reads records from a JSON file ("-" for stdin), matches them to
sheet rows by the key columns, and updates the matched rows in place.`,
		Args: cobra.ExactArgs(1),
		RunE: runMerge,
	}
	mergeCmd.Flags().StringSliceVarP(&keyColumns, "key", "k", nil, "Key column (repeatable; required)")
	mergeCmd.Flags().BoolVar(&override, "override", false, "Let empty incoming values clear cells")
	mergeCmd.Flags().BoolVar(&createColumns, "create-columns", false, "Append incoming columns missing from the sheet")
	mergeCmd.MarkFlagRequired("key")

	writeCmd := &cobra.Command{
		Use:   "write [data.json] [range]",
		Short: "Normalize tabular data and write it at a range",
		Args:  cobra.ExactArgs(2),
		RunE:  runWrite,
	}

	rootCmd.AddCommand(copyCmd, autofillCmd, mergeCmd, writeCmd)

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func openStore() (*localsheet.Store, error) {
	return localsheet.Open(filePath, sheetName)
}

func runCopy(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := sheetsync.CopyRange(cmd.Context(), store, args[0], args[1])
	if err != nil {
		return err
	}
	if err := printReport(report); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(os.Stderr, "copied %s to %s\n", report.Source, report.Destination)
	return nil
}

func runAutofill(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := sheetsync.AutoFillDown(cmd.Context(), store, args[0], args[1], skipExisting)
	if err != nil {
		return err
	}
	if err := printReport(report); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(os.Stderr, "filled %d rows from %s\n", report.Rows, report.Source)
	return nil
}

func runMerge(cmd *cobra.Command, args []string) error {
	data, err := loadData(args[0])
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := lookup.Options{Override: override, CreateNewColumns: createColumns}
	report, err := sheetsync.MergeByLookup(cmd.Context(), store, data, keyColumns, opts)
	if err != nil {
		return err
	}
	if err := printReport(report); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(os.Stderr, "merged %d rows (%d unmatched)\n",
		report.MatchedRows, report.UnmatchedRecords)
	return nil
}

func runWrite(cmd *cobra.Command, args []string) error {
	data, err := loadData(args[0])
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := sheetsync.WriteTable(cmd.Context(), store, data, args[1])
	if err != nil {
		return err
	}
	if err := printReport(report); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(os.Stderr, "wrote %s\n", report.Range)
	return nil
}

// loadData reads JSON tabular data from a file, or stdin for "-".
func loadData(path string) (any, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	return table.DecodeJSON(raw)
}

func printReport(v any) error {
	var out []byte
	var err error
	if pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
