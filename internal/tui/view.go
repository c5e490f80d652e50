package tui

import (
	"fmt"
	"math"
	"strings"
)

const (
	barBlockWidth = 10
	barGapWidth   = 1
	barPctWidth   = 4
	barColWidth   = barBlockWidth + barGapWidth + barPctWidth
	colGap        = 2
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	var b strings.Builder
	headerLines := 0
	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString("\n")
		headerLines++
	}

	writeLine(titleStyle.Render("mdu - run history browser"))

	if m.view == viewRoots {
		writeLine(breadcrumbStyle.Render(fmt.Sprintf("Run #%d | workers=%d | %s",
			m.activeRun.ID, m.activeRun.Workers, m.activeRun.StartedAt.Format("2006-01-02 15:04"))))
	} else {
		writeLine(statsStyle.Render(fmt.Sprintf("Runs: %s", FormatCount(int64(len(m.runs))))))
	}

	visibleRows := m.height - headerLines - 2
	if visibleRows < 5 {
		visibleRows = 5
	}

	startIdx := 0
	if m.cursor >= visibleRows {
		startIdx = m.cursor - visibleRows + 1
	}
	end := min(m.currentLen(), startIdx+visibleRows)

	if m.view == viewRoots {
		m.renderRoots(&b, startIdx, end)
	} else {
		m.renderRuns(&b, startIdx, end)
	}

	b.WriteString("\n")
	help := m.helpLine()
	if m.currentLen() > 0 {
		help = fmt.Sprintf("%s [%d/%d]", help, m.cursor+1, m.currentLen())
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m *Model) renderRuns(b *strings.Builder, start, end int) {
	var total int64
	for _, r := range m.runs {
		if r.TotalBlocks > total {
			total = r.TotalBlocks
		}
	}

	header := fmt.Sprintf("%-4s %-19s %7s %6s %8s %s", "ID", "STARTED", "ROOTS", "WORK", "BLOCKS", "")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i := start; i < end; i++ {
		r := m.runs[i]
		line := fmt.Sprintf("%-4d %-19s %7s %6d %8s %s",
			r.ID,
			r.StartedAt.Format("2006-01-02 15:04"),
			FormatCount(int64(r.RootCount)),
			r.Workers,
			FormatSize(r.TotalBlocks),
			formatBar(r.TotalBlocks, total),
		)
		if !r.PermissionOK {
			line += " !"
		}
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func (m *Model) renderRoots(b *strings.Builder, start, end int) {
	var total int64
	for _, r := range m.roots {
		total += r.Blocks
	}

	header := fmt.Sprintf("%8s  %s", "BLOCKS", "PATH")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i := start; i < end; i++ {
		r := m.roots[i]
		line := fmt.Sprintf("%8s  %s  %s", FormatSize(r.Blocks), r.Path, formatBar(r.Blocks, total))
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func formatBar(value, total int64) string {
	if total <= 0 || value <= 0 {
		empty := strings.Repeat("░", barBlockWidth)
		return barEmptyStyle.Render(empty) + fmt.Sprintf("  %3d%%", 0)
	}

	pct := float64(value) / float64(total) * 100
	if pct > 100 {
		pct = 100
	}

	filled := int(math.Round(pct / 100 * float64(barBlockWidth)))
	if filled < 1 {
		filled = 1
	}
	if filled > barBlockWidth {
		filled = barBlockWidth
	}

	filledStr := barFilledStyle.Render(strings.Repeat("█", filled))
	emptyStr := barEmptyStyle.Render(strings.Repeat("░", barBlockWidth-filled))
	return filledStr + emptyStr + fmt.Sprintf("  %3d%%", int(math.Round(pct)))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
