// Package historydb persists a small log of past mdu invocations: one row
// per run plus one row per root scanned in that run. It is adapted from
// the teacher's full entry/rollup schema, reduced to what mdu's
// root-sum-only domain model actually produces.
package historydb

import (
	"database/sql"
	"fmt"
)

const runsTableDDL = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY,
    started_at INTEGER NOT NULL,
    finished_at INTEGER NOT NULL,
    workers INTEGER NOT NULL,
    permission_ok INTEGER NOT NULL
);
`

const runRootsTableDDL = `
CREATE TABLE IF NOT EXISTS run_roots (
    run_id INTEGER NOT NULL,
    seq INTEGER NOT NULL,
    path TEXT NOT NULL,
    blocks INTEGER NOT NULL
);
`

const runRootsRunIndexDDL = `CREATE INDEX IF NOT EXISTS idx_run_roots_run ON run_roots(run_id);`

// InitSchema creates the runs and run_roots tables.
func InitSchema(db *sql.DB) error {
	ddls := []string{runsTableDDL, runRootsTableDDL, runRootsRunIndexDDL}
	for _, ddl := range ddls {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("failed to execute DDL: %w", err)
		}
	}
	return nil
}

// ApplyWritePragmas configures SQLite for a short-lived, low-contention
// writer: one process appending a handful of rows per invocation.
func ApplyWritePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = OFF",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
		}
	}
	return nil
}
