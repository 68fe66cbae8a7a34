package components

import (
	"charm.land/lipgloss/v2"

	"github.com/st-academy/academy/internal/ui/theme"
)

// ContentWidth returns the inner width shared by every section of a framed
// screen so boxes line up.
func ContentWidth(frameWidth int) int {
	// frame border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Frame wraps content in a double border filling width x height, centering
// the content in both directions.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a rounded border at content width cw.
func Card(content string, cw int) string {
	return theme.Card.
		Width(cw - 2).
		Render(content)
}

// MenuButton renders one fixed-width menu entry.
func MenuButton(label string, selected bool, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if selected {
		return style.
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.Secondary).
			BorderForeground(theme.Secondary).
			Render("▸ " + label)
	}
	return style.
		Foreground(theme.Text).
		BorderForeground(theme.Border).
		Render(label)
}
