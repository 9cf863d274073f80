package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, InCart, Category                    lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.Color

	BoxUnchecked, BoxChecked string
	SymOK, SymFail           string
}

var current Theme

func init() { SetTheme("dark") }

var (
	dark = Theme{
		Name:     "dark",
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		Muted:    lipgloss.NewStyle().Faint(true),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		InCart:   lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Category: lipgloss.NewStyle().Foreground(lipgloss.Color("111")),

		Border:      lipgloss.RoundedBorder(),
		BorderColor: lipgloss.Color("8"),

		BoxUnchecked: "☐", BoxChecked: "☑",
		SymOK: "✔", SymFail: "✖",
	}
	light = Theme{
		Name:     "light",
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("25")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true),
		Pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		Selected: lipgloss.NewStyle().Bold(true).Underline(true),
		InCart:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Strikethrough(true),
		Category: lipgloss.NewStyle().Foreground(lipgloss.Color("61")),

		Border:      lipgloss.NormalBorder(),
		BorderColor: lipgloss.Color("250"),

		BoxUnchecked: "☐", BoxChecked: "☑",
		SymOK: "✔", SymFail: "✖",
	}
	mono = Theme{
		Name:     "mono",
		Title:    lipgloss.NewStyle(),
		Muted:    lipgloss.NewStyle(),
		Accent:   lipgloss.NewStyle(),
		Success:  lipgloss.NewStyle(),
		Error:    lipgloss.NewStyle(),
		Pending:  lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle(),
		InCart:   lipgloss.NewStyle(),
		Category: lipgloss.NewStyle(),

		Border: lipgloss.Border{
			Top: "-", Bottom: "-", Left: "|", Right: "|",
			TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
		},

		BoxUnchecked: "[ ]", BoxChecked: "[x]",
		SymOK: "ok", SymFail: "error:",
	}
)

// SetTheme switches the palette. Unknown names fall back to dark.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "light":
		current = light
	case "mono":
		current = mono
	default:
		current = dark
	}
}

// ToggleDark flips between dark and light, like the header's mode button.
func ToggleDark() Theme {
	if current.Name == "dark" {
		current = light
	} else {
		current = dark
	}
	return current
}

// Expose what renderers need
func Current() Theme { return current }
