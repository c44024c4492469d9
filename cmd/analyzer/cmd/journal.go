package cmd

import (
	"fmt"

	"github.com/rustyeddy/analyzer/indicators"
	"github.com/rustyeddy/analyzer/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query journaled runs",
	Long: `Query runs and annotated rows stored in the SQLite journal.

Subcommands:
  runs  - List recorded runs
  rows  - Print the rows of one run as CSV

Examples:
  analyzer journal runs
  analyzer journal rows <run-id> --symbol AAPL`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalRowsCmd = &cobra.Command{
	Use:   "rows <run-id>",
	Short: "Print the rows of a run as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalRows,
}

var (
	journalDBPath string
	journalSymbol string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalRowsCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./analyzer.sqlite", "path to SQLite journal DB")
	journalRowsCmd.Flags().StringVar(&journalSymbol, "symbol", "", "only rows for this symbol")
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRuns()
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  sma=%d ema=%d vol=%d  %s\n",
			r.RunID, r.Created.Format("2006-01-02 15:04:05"), r.SMAWindow, r.EMASpan, r.VolWindow, r.Source)
	}
	return nil
}

func runJournalRows(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runID := args[0]
	if _, err := j.GetRun(runID); err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	rows, err := j.ListRows(runID, journalSymbol)
	if err != nil {
		return fmt.Errorf("query rows: %w", err)
	}

	w, err := journal.NewCSV(cmd.OutOrStdout(), indicators.Kinds())
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Record(r); err != nil {
			return err
		}
	}
	return w.Close()
}
