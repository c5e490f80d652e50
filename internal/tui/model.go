// Package tui implements an interactive browser over mdu's run history,
// adapted from the teacher's full filesystem-tree browser down to a flat
// two-level list: past runs, and the roots scanned within a run.
package tui

import (
	"database/sql"

	"github.com/mdutool/mdu/internal/historydb"

	tea "github.com/charmbracelet/bubbletea"
)

// view identifies which list the model is currently displaying.
type view int

const (
	viewRuns view = iota
	viewRoots
)

// Model holds the TUI state.
type Model struct {
	db *sql.DB

	view view
	runs []historydb.RunSummary

	activeRun historydb.RunSummary
	roots     []historydb.RootResult

	cursor int
	width  int
	height int
	err    error
}

// NewModel creates a new TUI model rooted at the given history database.
func NewModel(database *sql.DB) *Model {
	return &Model{db: database, view: viewRuns}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadRuns
}

type runsLoadedMsg struct {
	runs []historydb.RunSummary
	err  error
}

func (m *Model) loadRuns() tea.Msg {
	runs, err := historydb.ListRuns(m.db, 500)
	return runsLoadedMsg{runs: runs, err: err}
}

type rootsLoadedMsg struct {
	roots []historydb.RootResult
	err   error
}

func (m *Model) loadRoots(runID int64) tea.Cmd {
	return func() tea.Msg {
		roots, err := historydb.RootsForRun(m.db, runID)
		return rootsLoadedMsg{roots: roots, err: err}
	}
}

func (m *Model) helpLine() string {
	switch m.view {
	case viewRoots:
		return "↑/↓ move | Backspace: back to runs | q: quit"
	default:
		return "↑/↓ move | Enter: view roots | q: quit"
	}
}

func (m *Model) currentLen() int {
	if m.view == viewRoots {
		return len(m.roots)
	}
	return len(m.runs)
}
