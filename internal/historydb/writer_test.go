package historydb

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func TestRecordRunAndListRuns(t *testing.T) {
	db := openTestDB(t)

	start := time.Unix(1000, 0)
	finish := time.Unix(1010, 0)
	runID, err := RecordRun(db, Run{
		StartedAt:    start,
		FinishedAt:   finish,
		Workers:      4,
		PermissionOK: true,
		Roots: []RootResult{
			{Path: "/a", Blocks: 10},
			{Path: "/b", Blocks: 20},
		},
	})
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if runID == 0 {
		t.Fatalf("expected a nonzero run id")
	}

	summaries, err := ListRuns(db, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 run, got %d", len(summaries))
	}
	s := summaries[0]
	if s.ID != runID || s.Workers != 4 || !s.PermissionOK || s.TotalBlocks != 30 || s.RootCount != 2 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestRootsForRunPreservesOrder(t *testing.T) {
	db := openTestDB(t)

	runID, err := RecordRun(db, Run{
		StartedAt:  time.Unix(0, 0),
		FinishedAt: time.Unix(1, 0),
		Workers:    1,
		Roots: []RootResult{
			{Path: "/z", Blocks: 1},
			{Path: "/a", Blocks: 2},
		},
	})
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	roots, err := RootsForRun(db, runID)
	if err != nil {
		t.Fatalf("RootsForRun: %v", err)
	}
	if len(roots) != 2 || roots[0].Path != "/z" || roots[1].Path != "/a" {
		t.Fatalf("unexpected root order: %+v", roots)
	}
}

func TestListRunsRespectsLimit(t *testing.T) {
	db := openTestDB(t)
	for i := 0; i < 3; i++ {
		if _, err := RecordRun(db, Run{StartedAt: time.Unix(int64(i), 0), FinishedAt: time.Unix(int64(i), 0), Workers: 1}); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	summaries, err := ListRuns(db, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(summaries))
	}
	if summaries[0].ID < summaries[1].ID {
		t.Fatalf("expected newest-first ordering")
	}
}
