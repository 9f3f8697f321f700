package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	// Adaptive colors for light/dark terminal backgrounds
	accentColor = lipgloss.AdaptiveColor{Light: "#D6249F", Dark: "#FF79C6"}
	greenColor  = lipgloss.AdaptiveColor{Light: "#116620", Dark: "#50FA7B"}
	yellowColor = lipgloss.AdaptiveColor{Light: "#7D5A00", Dark: "#F1FA8C"}
	redColor    = lipgloss.AdaptiveColor{Light: "#B31D28", Dark: "#FF5555"}
	dimColor    = lipgloss.AdaptiveColor{Light: "#777777", Dark: "#6272A4"}
	hlBgColor   = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#333333"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			PaddingLeft(1)

	headerStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			PaddingLeft(1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	selectedRowStyle = lipgloss.NewStyle().
				Background(hlBgColor)

	currentStyle = lipgloss.NewStyle().
			Foreground(greenColor).
			Bold(true)

	lastStyle = lipgloss.NewStyle().
			Foreground(yellowColor)

	confirmLabelStyle = lipgloss.NewStyle().
				Foreground(redColor).
				Bold(true).
				PaddingLeft(1)

	confirmKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}).
			Background(redColor).
			Bold(true).
			Padding(0, 1)

	confirmDimStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			PaddingLeft(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			PaddingLeft(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(redColor).
			PaddingLeft(2)

	inputLabelStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	previewBorderStyle = lipgloss.NewStyle().
				Foreground(dimColor)
)

// pad right-pads s to width with spaces (based on visual width, not byte count).
func pad(s string, width int) string {
	visual := lipgloss.Width(s)
	if visual >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visual)
}

// shortenPath abbreviates a path for display (replaces $HOME with ~, truncates).
func shortenPath(path string, maxLen int) string {
	if path == "" {
		return ""
	}
	home, _ := os.UserHomeDir()
	if home != "" && strings.HasPrefix(path, home) {
		path = "~" + path[len(home):]
	}
	if len(path) <= maxLen {
		return path
	}
	return "…" + path[len(path)-(maxLen-1):]
}

// marker flags the client's current and previous sessions.
func (m Model) marker(name string) string {
	if m.client == nil {
		return " "
	}
	switch name {
	case m.client.SessionName:
		return currentStyle.Render("*")
	case m.client.LastSessionName:
		return lastStyle.Render("-")
	}
	return " "
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "tmuxkit"
	if m.opts.Host != "" {
		title += " @ " + m.opts.Host
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if len(m.sessions) == 0 && m.err == nil {
		b.WriteString("  No sessions. Type /new <name> to create one.\n\n")
	} else {
		m.renderList(&b)
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if m.preview != nil {
		m.renderPreview(&b)
	}

	if m.preview == nil {
		b.WriteString(inputLabelStyle.Render(" > "))
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	// Help bar / kill confirmation (same slot to avoid layout shift)
	switch {
	case m.confirmKill != "":
		b.WriteString(confirmLabelStyle.Render(fmt.Sprintf("Kill '%s'?", m.confirmKill)))
		b.WriteString("  ")
		b.WriteString(confirmKeyStyle.Render("Enter"))
		b.WriteString(confirmDimStyle.Render("confirm"))
		b.WriteString("  ")
		b.WriteString(confirmKeyStyle.Render("Esc"))
		b.WriteString(confirmDimStyle.Render("cancel"))
	case m.preview != nil && m.client == nil:
		b.WriteString(helpStyle.Render("enter attach  esc close  j/k navigate  tab last  ctrl+k kill"))
	case m.preview != nil:
		b.WriteString(helpStyle.Render("enter switch  esc close  j/k navigate  tab last  ctrl+k kill"))
	case strings.HasPrefix(m.input.Value(), "/new"):
		b.WriteString(helpStyle.Render("/new <name> [dir]  create a new session"))
	case m.status != "":
		b.WriteString(helpStyle.Render(m.status))
	default:
		b.WriteString(helpStyle.Render("enter preview  /new  j/k navigate  tab last  ctrl+k kill  q quit"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderList(b *strings.Builder) {
	maxVis := m.maxVisibleSessions()
	end := m.scrollOffset + maxVis
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	scrollable := len(m.filtered) > maxVis

	type rowData struct {
		name, windows, dir string
	}
	rows := make([]rowData, 0, end-m.scrollOffset)
	wName, wWin := len("NAME"), len("WIN")
	for i := m.scrollOffset; i < end; i++ {
		s := m.filtered[i]
		name := s.Name
		if len(name) > 32 {
			name = name[:29] + "..."
		}
		r := rowData{
			name:    name,
			windows: fmt.Sprintf("%d", m.windows[s.Name]),
			dir:     shortenPath(s.DirPath, 40),
		}
		wName = max(wName, lipgloss.Width(r.name))
		wWin = max(wWin, lipgloss.Width(r.windows))
		rows = append(rows, r)
	}

	header := "      " + pad("NAME", wName) + "  " + pad("WIN", wWin) + "  DIR"
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	// Reserve constant height: when scrollable, always show both indicator lines
	if scrollable {
		if m.scrollOffset > 0 {
			b.WriteString(helpStyle.Render(fmt.Sprintf("    ↑ %d more", m.scrollOffset)))
		}
		b.WriteString("\n")
	}

	for ri, r := range rows {
		i := m.scrollOffset + ri
		row := " " + m.marker(m.filtered[i].Name) + " " + pad(r.name, wName) + "  " + pad(r.windows, wWin) + "  " + r.dir
		if i == m.cursor {
			b.WriteString(cursorStyle.Render(" >"))
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString("  ")
			b.WriteString(row)
		}
		b.WriteString("\n")
	}

	if scrollable {
		if end < len(m.filtered) {
			b.WriteString(helpStyle.Render(fmt.Sprintf("    ↓ %d more", len(m.filtered)-end)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// renderPreview draws the tail of the previewed pane, truncated to the
// terminal width without breaking its escape sequences.
func (m Model) renderPreview(b *strings.Builder) {
	borderTitle := fmt.Sprintf(" ─── %s ", m.preview.SessionName)
	remaining := m.width - lipgloss.Width(borderTitle) - 2
	if remaining > 0 {
		borderTitle += strings.Repeat("─", remaining)
	}
	b.WriteString(previewBorderStyle.Render(" " + borderTitle))
	b.WriteString("\n")

	if m.preview.Output == "" {
		b.WriteString(" Loading...\n")
	} else {
		lines := previewLines(m.preview.Output)

		// title+blank(2) + header(1) + rows + scroll indicators + gap(1) + borders(2) + help(1) + safety(1)
		visibleRows := m.maxVisibleSessions()
		scrollIndicators := 0
		if len(m.filtered) > visibleRows {
			scrollIndicators = 2
		}
		maxPreview := m.height - (8 + visibleRows + scrollIndicators)
		if maxPreview < 3 {
			maxPreview = 3
		}
		start := max(0, len(lines)-maxPreview)
		for _, line := range lines[start:] {
			if m.width > 2 {
				line = ansi.Truncate(line, m.width-2, "…")
			}
			b.WriteString(" " + line + ansiReset + "\n")
		}
	}

	borderBottom := strings.Repeat("─", max(0, m.width-2))
	b.WriteString(previewBorderStyle.Render(" " + borderBottom))
	b.WriteString("\n")
}

const ansiReset = "\x1b[0m"

// previewLines splits a cleaned capture into lines, dropping the final
// newline.
func previewLines(output string) []string {
	return strings.Split(strings.TrimSuffix(output, "\n"), "\n")
}
