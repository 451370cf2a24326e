package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/skips/internal/model"
)

const (
	// CardWidth is the outer width of a card, borders included.
	CardWidth = 44
	// CardHeight is the outer height of a card, borders included.
	CardHeight = 7
	// SkeletonCount is how many placeholders show while loading.
	SkeletonCount = 6
)

const (
	pageTitle    = "Choose Your Skip Size"
	pageSubtitle = "Select the skip size that best suits your needs"
)

func cardStyle(focused bool) lipgloss.Style {
	t := Current()
	color := t.BorderColor
	if focused {
		color = t.FocusColor
	}
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(color).
		Padding(0, 1).
		Width(CardWidth - 2)
}

func yards(size int) string {
	if size > 1 {
		return "Yards"
	}
	return "Yard"
}

// Card renders one skip. Focused is the cursor position, selected is the
// user's choice.
func Card(s model.Skip, focused, selected bool) string {
	t := Current()

	head := t.Title.Render(fmt.Sprintf("%d %s", s.Size, yards(s.Size)))
	if selected {
		head += " " + t.Success.Render(t.SymCheck)
	}
	if !s.AllowedOnRoad {
		head += "  " + t.Warning.Render(t.SymWarn+" Not Allowed On The Road")
	}

	action := "Select This Skip " + t.SymNext
	if selected {
		action = t.Success.Render("Selected")
	}

	lines := []string{
		head,
		t.Title.Render(fmt.Sprintf("%d Yard Skip", s.Size)),
		t.Muted.Render(fmt.Sprintf("%d day hire period", s.HirePeriodDays)),
		fmt.Sprintf("%s %s", t.Muted.Render("Total price"), t.Title.Render("£"+s.DisplayTotal())),
		action,
	}
	return cardStyle(focused).Render(strings.Join(lines, "\n"))
}

// Skeleton is the placeholder shown in place of a card while loading.
func Skeleton() string {
	t := Current()
	bar := func(w int) string { return t.Muted.Render(strings.Repeat("░", w)) }
	lines := []string{bar(12), bar(18), bar(20), bar(16), bar(24)}
	return cardStyle(false).Render(strings.Join(lines, "\n"))
}

// SkeletonGrid lays out n placeholders, cols per row.
func SkeletonGrid(n, cols int) string {
	if cols < 1 {
		cols = 1
	}
	var rows []string
	for i := 0; i < n; i += cols {
		var row []string
		for j := i; j < n && j < i+cols; j++ {
			row = append(row, Skeleton())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Columns is how many cards fit side by side in width.
func Columns(width int) int {
	switch {
	case width >= 3*CardWidth:
		return 3
	case width >= 2*CardWidth:
		return 2
	}
	return 1
}

// Header renders the page title over subtitle. An empty subtitle uses the
// default prompt.
func Header(subtitle string) string {
	t := Current()
	if subtitle == "" {
		subtitle = t.Muted.Render(pageSubtitle)
	}
	return t.Title.Render(pageTitle) + "\n" + subtitle
}

// Footer summarises the selected skip.
func Footer(s model.Skip) string {
	t := Current()
	facts := []string{
		"£" + s.DisplayTotal() + " total",
		fmt.Sprintf("%d days hire", s.HirePeriodDays),
	}
	if s.AllowedOnRoad {
		facts = append(facts, t.Success.Render("Road permitted"))
	}
	lines := []string{
		t.Muted.Render("Selected skip"),
		t.Title.Render(fmt.Sprintf("%d Yard Skip", s.Size)),
		strings.Join(facts, " "+t.SymDot+" "),
		t.Muted.Render(fmt.Sprintf("%s esc back   c continue %s", t.SymBack, t.SymNext)),
	}
	return PanelString(lines)
}

// ErrorPanel is shown when an explicit reload fails.
func ErrorPanel(msg string) string {
	t := Current()
	return PanelString([]string{
		t.Error.Render(t.SymWarn + " Oops! Something went wrong"),
		t.Muted.Render(msg),
		"",
		t.Accent.Render("Press r to try again"),
	})
}

// Empty is shown in place of the grid when there is nothing to list.
func Empty() string {
	return Current().Muted.Render("No skips available for this location")
}
