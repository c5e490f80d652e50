package main

import (
	"database/sql"
	"fmt"

	"github.com/mdutool/mdu/internal/tui"
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"
	_ "modernc.org/sqlite"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactively browse past mdu runs recorded with --history",
	RunE:  runBrowse,
}

var browseDB string

func init() {
	browseCmd.Flags().StringVarP(&browseDB, "db", "d", "", "Path to the history database (required)")
	browseCmd.MarkFlagRequired("db")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	database, err := sql.Open("sqlite", browseDB)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer database.Close()

	program := tea.NewProgram(tui.NewModel(database), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
