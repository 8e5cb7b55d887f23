package tui

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// LogsModel holds the tail of the clinfo log for display
type LogsModel struct {
	path     string
	lines    []string
	maxLines int
	errOnly  bool
}

// NewLogsModel creates a new logs model
func NewLogsModel(path string) *LogsModel {
	return &LogsModel{
		path:     path,
		maxLines: 200,
	}
}

// Load reads the log file
func (m *LogsModel) Load() {
	if m.path == "" {
		m.lines = []string{"Logging to stderr; no log file."}
		return
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		m.lines = []string{"No logs found: " + m.path}
		return
	}

	allLines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	// Get last N lines
	start := 0
	if len(allLines) > m.maxLines {
		start = len(allLines) - m.maxLines
	}
	m.lines = allLines[start:]
}

// Render colors the loaded lines by level
func (m *LogsModel) Render() string {
	var b strings.Builder
	for _, line := range m.lines {
		switch {
		case strings.Contains(line, " ERR "):
			b.WriteString(errorStyle.Render(line))
		case strings.Contains(line, " WRN "):
			b.WriteString(warningStyle.Render(line))
		case m.errOnly:
			continue
		default:
			b.WriteString(mutedStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// updateLogs handles the keys only the logs screen knows
func (m *Model) updateLogs(msg tea.Msg) (tea.Cmd, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}
	switch key.String() {
	case "r":
		m.logs.Load()
		m.viewport.SetContent(m.logs.Render())
		m.viewport.GotoBottom()
		return nil, true
	case "e":
		m.logs.errOnly = !m.logs.errOnly
		m.viewport.SetContent(m.logs.Render())
		return nil, true
	}
	return nil, false
}
