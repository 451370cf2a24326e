package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Warning lipgloss.Style
	Border                                        lipgloss.Border
	BorderColor, FocusColor                       lipgloss.TerminalColor
	SymCheck, SymCross, SymWarn, SymDot           string
	SymBack, SymNext                              string
}

var current = classic()

func classic() Theme {
	return Theme{
		Title:   lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Faint(true),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		Border:  lipgloss.RoundedBorder(), BorderColor: lipgloss.Color("8"), FocusColor: lipgloss.Color("15"),
		SymCheck: "✔", SymCross: "✖", SymWarn: "⚠", SymDot: "•",
		SymBack: "‹", SymNext: "›",
	}
}

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Border:  lipgloss.RoundedBorder(), BorderColor: lipgloss.Color("13"), FocusColor: lipgloss.Color("14"),
			SymCheck: "✔", SymCross: "✖", SymWarn: "⚠", SymDot: "•",
			SymBack: "‹", SymNext: "›",
		}
	case "mono":
		plain := lipgloss.NewStyle()
		current = Theme{
			Title: plain.Bold(true), Muted: plain, Accent: plain,
			Success: plain, Error: plain, Warning: plain,
			Border: lipgloss.Border{
				Top: "-", Bottom: "-", Left: "|", Right: "|",
				TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
			},
			BorderColor: lipgloss.NoColor{}, FocusColor: lipgloss.NoColor{},
			SymCheck: "x", SymCross: "!", SymWarn: "!", SymDot: "-",
			SymBack: "<", SymNext: ">",
		}
	default: // classic
		current = classic()
	}
}

// Expose what renderers need
func Current() Theme { return current }
