package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mdutool/mdu/internal/historydb"
	"github.com/mdutool/mdu/internal/scan"
	"github.com/spf13/cobra"

	_ "modernc.org/sqlite"
)

// exitCode is set by runRoot and consumed by main after cobra.Execute
// returns, so that a readability failure across any root exits 1 without
// cobra treating it as a usage error.
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "mdu <path> [path ...]",
	Short: "Sum on-disk block usage of one or more filesystem subtrees",
	Long: `mdu computes the aggregate on-disk block usage of one or more
filesystem subtrees, optionally parallelized across a worker pool.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRoot,
}

var (
	workers     int
	verbose     bool
	historyPath string
)

func init() {
	rootCmd.Version = version
	rootCmd.FParseErrWhitelist.UnknownFlags = true
	rootCmd.Flags().IntVarP(&workers, "jobs", "j", 1, "Number of concurrent worker goroutines (1 = sequential)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose diagnostic tracing on stderr")
	rootCmd.Flags().StringVar(&historyPath, "history", "", "Optional path to a SQLite database recording this run")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(browseCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	// Roots are walked and printed exactly as the caller supplied them
	// (spec: the root path as supplied, verbatim) — no Abs/Clean here.
	roots := args

	opts := scan.DefaultOptions().WithWorkers(workers).WithVerbose(verbose)

	started := time.Now()
	lines := make([]historydb.RootResult, 0, len(roots))
	driver := scan.NewDriver(opts, &lineCapture{dest: os.Stdout, captured: &lines})
	ok := driver.Run(roots)
	finished := time.Now()

	if !ok {
		exitCode = 1
	}

	if historyPath != "" {
		if err := recordHistory(historyPath, started, finished, workers, ok, lines); err != nil {
			fmt.Fprintf(os.Stderr, "mdu: failed to record history: %v\n", err)
		}
	}

	return nil
}

// lineCapture writes each driver output line to dest while also parsing its
// path/blocks so the optional history recorder doesn't need to re-walk.
type lineCapture struct {
	dest     *os.File
	captured *[]historydb.RootResult
}

func (w *lineCapture) Write(p []byte) (int, error) {
	n, err := w.dest.Write(p)
	if err != nil {
		return n, err
	}
	line := strings.TrimSuffix(string(p), "\n")
	if blocksStr, path, found := strings.Cut(line, "\t"); found {
		if blocks, err := strconv.ParseInt(blocksStr, 10, 64); err == nil {
			*w.captured = append(*w.captured, historydb.RootResult{Path: path, Blocks: blocks})
		}
	}
	return n, nil
}

func recordHistory(path string, started, finished time.Time, workers int, ok bool, roots []historydb.RootResult) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open history db: %w", err)
	}
	defer db.Close()

	if err := historydb.ApplyWritePragmas(db); err != nil {
		return err
	}
	if err := historydb.InitSchema(db); err != nil {
		return err
	}

	_, err = historydb.RecordRun(db, historydb.Run{
		StartedAt:    started,
		FinishedAt:   finished,
		Workers:      workers,
		PermissionOK: ok,
		Roots:        roots,
	})
	return err
}
