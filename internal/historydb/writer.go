package historydb

import (
	"database/sql"
	"fmt"
	"time"
)

// RootResult is one root path's outcome within a run.
type RootResult struct {
	Path   string
	Blocks int64
}

// Run is a single mdu invocation, ready to be recorded.
type Run struct {
	StartedAt    time.Time
	FinishedAt   time.Time
	Workers      int
	PermissionOK bool
	Roots        []RootResult
}

const insertRunSQL = `INSERT INTO runs (started_at, finished_at, workers, permission_ok) VALUES (?, ?, ?, ?)`
const insertRunRootSQL = `INSERT INTO run_roots (run_id, seq, path, blocks) VALUES (?, ?, ?, ?)`

// RecordRun writes one completed run and its per-root results in a single
// transaction and returns the new run id.
func RecordRun(db *sql.DB, run Run) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	permissionOK := 0
	if run.PermissionOK {
		permissionOK = 1
	}

	res, err := tx.Exec(insertRunSQL, run.StartedAt.Unix(), run.FinishedAt.Unix(), run.Workers, permissionOK)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.Prepare(insertRunRootSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare root insert: %w", err)
	}
	defer stmt.Close()

	for i, root := range run.Roots {
		if _, err := stmt.Exec(runID, i, root.Path, root.Blocks); err != nil {
			return 0, fmt.Errorf("failed to insert root %q: %w", root.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}
