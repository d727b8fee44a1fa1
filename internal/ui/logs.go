package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/gazer/internal/logtail"
)

// logTailLines bounds how much of the log file the view keeps in memory.
const logTailLines = 1000

// logState holds all log-related state.
type logState struct {
	lines  []string
	follow bool
	err    error
}

// logLinesMsg carries a fresh tail of the log file.
type logLinesMsg struct {
	lines []string
	err   error
}

// initLogViewport initializes the log viewport.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(m.width-4, m.height-4)
	m.logViewport.Style = lipgloss.NewStyle()
}

// updateLogViewport updates the log viewport with current content.
func (m *Model) updateLogViewport() {
	if m.logViewport.Width == 0 {
		m.initLogViewport()
	}

	// Box height = m.height - 2 (header, cmdbar); inner = box - 2 borders.
	m.logViewport.Width = m.width - 4
	m.logViewport.Height = m.height - 4
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(m.renderLogContent())

	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// refreshLogs reads the tail of the log file in the background.
func (m Model) refreshLogs() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.err = msg.err
	if msg.err == nil {
		m.logState.lines = msg.lines
	}
	m.updateLogViewport()
}

// renderLogContent colors each line by its level token.
func (m Model) renderLogContent() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)

	if m.logPath == "" {
		return styles.MutedText.Render("File logging is disabled.")
	}
	if m.logState.err != nil {
		return styles.DangerText.Render("Unable to read " + m.logPath + ": " + m.logState.err.Error())
	}
	if len(m.logState.lines) == 0 {
		return styles.MutedText.Render("No log entries yet.")
	}

	var b strings.Builder
	for i, line := range m.logState.lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.levelStyle(styles, logtail.Level(line)).Render(line))
	}
	return b.String()
}

func (m Model) levelStyle(styles Styles, level string) lipgloss.Style {
	switch level {
	case "error", "fatal", "panic":
		return styles.DangerText
	case "warn":
		return styles.WarningText
	case "debug", "trace":
		return styles.FaintText
	default:
		return styles.Text
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	title := "Log"
	if m.logPath != "" {
		title = "Log · " + truncateMiddle(m.logPath, m.width/2)
	}
	if !m.logState.follow {
		title += " (paused)"
	}
	return m.renderBox(title, m.logViewport.View(), m.width, m.height-2, true)
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
			return m, m.refreshLogs()
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false

	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true

	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		m.logState.follow = m.logViewport.AtBottom()

	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logState.follow = false

	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
		m.logState.follow = m.logViewport.AtBottom()

	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
		m.logState.follow = false
	}

	return m, nil
}
