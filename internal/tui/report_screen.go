package tui

import (
	"fmt"
	"regexp"
	"strings"
)

var entityHeader = regexp.MustCompile(`^(platform|device)\[\d+\]:$`)

// renderReport highlights the structure of a report: entity headers, count
// lines and separators. Property rows keep their exact columns
func renderReport(report string) string {
	if strings.TrimSpace(report) == "" {
		return mutedStyle.Render("The report is empty.")
	}

	lines := strings.Split(strings.TrimRight(report, "\n"), "\n")
	for i, line := range lines {
		switch {
		case entityHeader.MatchString(line):
			lines[i] = headerStyle.Render(line)
		case strings.HasPrefix(line, "Found ") || strings.Contains(line, ": Found "):
			lines[i] = successStyle.Render(line)
		case strings.Trim(line, "-") == "" || strings.Trim(line, "=") == "":
			lines[i] = mutedStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// maxDiagLines bounds the diagnostics pane height
const maxDiagLines = 8

func (m Model) diagPane() string {
	diag := strings.TrimRight(m.input.Diagnostics, "\n")
	title := warningStyle.Render("Diagnostics")

	if diag == "" {
		return paneStyle.Width(max(m.width-2, 20)).Render(title + "\n" + mutedStyle.Render("No diagnostics."))
	}

	lines := strings.Split(diag, "\n")
	shown := lines
	if len(lines) > maxDiagLines {
		shown = lines[:maxDiagLines]
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s (%d)\n", title, len(lines)))
	for _, line := range shown {
		if strings.Contains(line, "Large ") {
			b.WriteString(warningStyle.Render(line))
		} else {
			b.WriteString(errorStyle.Render(line))
		}
		b.WriteString("\n")
	}
	if len(lines) > len(shown) {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("… %d more", len(lines)-len(shown))))
	}

	return paneStyle.Width(max(m.width-2, 20)).Render(strings.TrimRight(b.String(), "\n"))
}
