package main

import (
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/mdutool/mdu/internal/historydb"
	"github.com/spf13/cobra"

	_ "modernc.org/sqlite"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past mdu runs recorded with --history",
	RunE:  runHistory,
}

var (
	historyDB    string
	historyLimit int
)

func init() {
	historyCmd.Flags().StringVarP(&historyDB, "db", "d", "", "Path to the history database (required)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to list")
	historyCmd.MarkFlagRequired("db")
}

func runHistory(cmd *cobra.Command, args []string) error {
	database, err := sql.Open("sqlite", historyDB)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer database.Close()

	runs, err := historydb.ListRuns(database, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tSTARTED\tWORKERS\tROOTS\tBLOCKS\tOK\n")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%t\n",
			r.ID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Workers,
			r.RootCount,
			humanize.Bytes(uint64(r.TotalBlocks)*512),
			r.PermissionOK,
		)
	}
	return w.Flush()
}
