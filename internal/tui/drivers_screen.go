package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wattfource/clinfo/internal/icd"
)

func renderDrivers(inv *icd.Inventory) string {
	var b strings.Builder

	if inv == nil {
		b.WriteString("Driver inventory not collected.")
		return b.String()
	}

	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(secondaryColor)
	labelStyle := lipgloss.NewStyle().Foreground(mutedColor)

	b.WriteString(sectionStyle.Render("ICD vendor files"))
	b.WriteString(" " + labelStyle.Render(inv.VendorsPath) + "\n")
	if inv.Error != "" {
		b.WriteString("  " + errorStyle.Render("✗ "+inv.Error) + "\n")
	}
	if len(inv.Vendors) == 0 && inv.Error == "" {
		b.WriteString("  " + labelStyle.Render("(none registered)") + "\n")
	}
	for _, v := range inv.Vendors {
		if v.Resolved {
			b.WriteString("  " + successStyle.Render("✓") + " " + v.File + " " + labelStyle.Render("→ "+v.Path) + "\n")
		} else {
			b.WriteString("  " + errorStyle.Render("✗") + " " + v.File + " " + labelStyle.Render("→ "+v.Library+" (not found)") + "\n")
		}
	}

	b.WriteString("\n" + sectionStyle.Render("Display controllers") + "\n")
	if len(inv.GPUs) == 0 {
		b.WriteString("  " + labelStyle.Render("(none detected)") + "\n")
	}
	for _, g := range inv.GPUs {
		b.WriteString("  " + labelStyle.Render(g.Slot) + " " + normalStyle.Render(g.Name))
		if g.PCIID != "" {
			b.WriteString(" " + labelStyle.Render("["+g.PCIID+"]"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + sectionStyle.Render("Backends") + " " + strings.Join(inv.Backends, ", ") + "\n")

	return b.String()
}
