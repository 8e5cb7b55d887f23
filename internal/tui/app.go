// Package tui provides the terminal report browser for clinfo
package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wattfource/clinfo/internal/icd"
)

// Screen represents different TUI screens
type Screen int

const (
	ScreenReport Screen = iota
	ScreenDrivers
	ScreenLogs
)

var screenNames = []string{"Report", "Drivers", "Logs"}

// Colors
var (
	primaryColor   = lipgloss.Color("212") // Pink/magenta
	secondaryColor = lipgloss.Color("39")  // Cyan
	successColor   = lipgloss.Color("82")  // Green
	errorColor     = lipgloss.Color("196") // Red
	warningColor   = lipgloss.Color("214") // Orange
	mutedColor     = lipgloss.Color("245") // Gray
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	selectedStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	headerStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(warningColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// Input is what the browser shows
type Input struct {
	Title       string
	Report      string
	Diagnostics string
	Drivers     *icd.Inventory
	LogPath     string
}

// Model represents the TUI state
type Model struct {
	input    Input
	screen   Screen
	viewport viewport.Model
	ready    bool
	width    int
	height   int

	// Diagnostics pane under the report
	showDiag bool

	logs *LogsModel

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(in Input) Model {
	if in.Title == "" {
		in.Title = "clinfo"
	}
	return Model{
		input: in,
		logs:  NewLogsModel(in.LogPath),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "tab":
			m.screen = (m.screen + 1) % Screen(len(screenNames))
			m.refresh()
			return m, nil

		case "shift+tab":
			m.screen = (m.screen + Screen(len(screenNames)) - 1) % Screen(len(screenNames))
			m.refresh()
			return m, nil

		case "d":
			if m.screen == ScreenReport {
				m.showDiag = !m.showDiag
				m.resize()
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, 1)
			m.ready = true
		}
		m.resize()
		m.refresh()
		return m, nil
	}

	if m.screen == ScreenLogs {
		if cmd, handled := m.updateLogs(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// chromeHeight is the rows taken by the tab bar and help line
const chromeHeight = 4

// resize fits the viewport between the chrome and the diagnostics pane
func (m *Model) resize() {
	if !m.ready {
		return
	}
	h := m.height - chromeHeight
	if m.screen == ScreenReport && m.showDiag {
		h -= lipgloss.Height(m.diagPane())
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(h, 1)
}

// refresh loads the content of the current screen into the viewport
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	switch m.screen {
	case ScreenReport:
		m.viewport.SetContent(renderReport(m.input.Report))
	case ScreenDrivers:
		m.viewport.SetContent(renderDrivers(m.input.Drivers))
	case ScreenLogs:
		m.logs.Load()
		m.viewport.SetContent(m.logs.Render())
	}
	m.viewport.GotoTop()
	m.resize()
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	parts := []string{m.tabs(), m.viewport.View()}
	if m.screen == ScreenReport && m.showDiag {
		parts = append(parts, m.diagPane())
	}
	parts = append(parts, m.help())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) tabs() string {
	tabs := titleStyle.Render(m.input.Title) + "  "
	for i, name := range screenNames {
		style := normalStyle
		if Screen(i) == m.screen {
			style = selectedStyle
		}
		tabs += style.Render("["+name+"]") + " "
	}
	return tabs + "\n"
}

func (m Model) help() string {
	keys := "↑/↓: scroll • tab: switch screen • q: quit"
	switch m.screen {
	case ScreenReport:
		keys = "↑/↓: scroll • d: diagnostics • tab: switch screen • q: quit"
	case ScreenLogs:
		keys = "↑/↓: scroll • r: reload • e: warnings only • tab: switch screen • q: quit"
	}
	return helpStyle.Render(keys)
}

// Run starts the TUI
func Run(in Input) error {
	p := tea.NewProgram(NewModel(in), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
