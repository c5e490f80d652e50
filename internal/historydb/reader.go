package historydb

import (
	"database/sql"
	"fmt"
	"time"
)

// RunSummary is one row of run history as listed by the history command.
type RunSummary struct {
	ID           int64
	StartedAt    time.Time
	FinishedAt   time.Time
	Workers      int
	PermissionOK bool
	TotalBlocks  int64
	RootCount    int
}

// ListRuns returns the most recent runs, newest first, bounded by limit.
func ListRuns(db *sql.DB, limit int) ([]RunSummary, error) {
	rows, err := db.Query(`
		SELECT r.id, r.started_at, r.finished_at, r.workers, r.permission_ok,
		       COALESCE(SUM(rr.blocks), 0), COUNT(rr.path)
		FROM runs r
		LEFT JOIN run_roots rr ON rr.run_id = r.id
		GROUP BY r.id
		ORDER BY r.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var s RunSummary
		var startedAt, finishedAt int64
		var permissionOK int
		if err := rows.Scan(&s.ID, &startedAt, &finishedAt, &s.Workers, &permissionOK, &s.TotalBlocks, &s.RootCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		s.StartedAt = time.Unix(startedAt, 0)
		s.FinishedAt = time.Unix(finishedAt, 0)
		s.PermissionOK = permissionOK != 0
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// RootsForRun returns the per-root results recorded for a run, in scan
// order.
func RootsForRun(db *sql.DB, runID int64) ([]RootResult, error) {
	rows, err := db.Query(`SELECT path, blocks FROM run_roots WHERE run_id = ? ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run roots: %w", err)
	}
	defer rows.Close()

	var roots []RootResult
	for rows.Next() {
		var r RootResult
		if err := rows.Scan(&r.Path, &r.Blocks); err != nil {
			return nil, fmt.Errorf("failed to scan run root: %w", err)
		}
		roots = append(roots, r)
	}
	return roots, rows.Err()
}
