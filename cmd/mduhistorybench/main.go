package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mdutool/mdu/internal/historydb"

	_ "modernc.org/sqlite"
)

func main() {
	outDir := flag.String("out", ".", "Output directory for temp DB")
	runs := flag.Int("runs", 10000, "Runs to insert")
	rootsPerRun := flag.Int("roots-per-run", 1, "Root rows to insert per run")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir error: %v\n", err)
		os.Exit(1)
	}

	dbPath := filepath.Join(*outDir, fmt.Sprintf(".mduhistorybench-%d.db", time.Now().UnixNano()))
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db error: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		db.Close()
		os.Remove(dbPath)
	}()

	if err := historydb.ApplyWritePragmas(db); err != nil {
		fmt.Fprintf(os.Stderr, "pragma error: %v\n", err)
		os.Exit(1)
	}
	if err := historydb.InitSchema(db); err != nil {
		fmt.Fprintf(os.Stderr, "schema error: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	for i := 0; i < *runs; i++ {
		roots := make([]historydb.RootResult, *rootsPerRun)
		for j := range roots {
			roots[j] = historydb.RootResult{Path: fmt.Sprintf("/bench/%d/%d", i, j), Blocks: int64(j + 1)}
		}
		if _, err := historydb.RecordRun(db, historydb.Run{
			StartedAt:    time.Unix(int64(i), 0),
			FinishedAt:   time.Unix(int64(i+1), 0),
			Workers:      8,
			PermissionOK: true,
			Roots:        roots,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "record run error: %v\n", err)
			os.Exit(1)
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("out=%s runs=%d roots-per-run=%d\n", *outDir, *runs, *rootsPerRun)
	fmt.Printf("total: %v\n", elapsed)
	if elapsed.Seconds() > 0 {
		fmt.Printf("throughput: %.0f runs/sec\n", float64(*runs)/elapsed.Seconds())
	}
}
