package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case runsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.runs = msg.runs
		m.cursor = 0
		return m, nil

	case rootsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.roots = msg.roots
		m.view = viewRoots
		m.cursor = 0
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < m.currentLen()-1 {
			m.cursor++
		}
		return m, nil

	case "enter", "l", "right":
		if m.view == viewRuns && m.cursor < len(m.runs) {
			m.activeRun = m.runs[m.cursor]
			return m, m.loadRoots(m.activeRun.ID)
		}
		return m, nil

	case "backspace", "h", "left":
		if m.view == viewRoots {
			m.view = viewRuns
			m.cursor = 0
		}
		return m, nil

	case "home", "g":
		m.cursor = 0
		return m, nil

	case "end", "G":
		if m.currentLen() > 0 {
			m.cursor = m.currentLen() - 1
		}
		return m, nil
	}

	return m, nil
}
