package components

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/st-academy/academy/internal/ui/theme"
)

// minBarCells is the narrowest bar drawn regardless of Width.
const minBarCells = 4

// ProgressBar renders a fraction in [0, 1] as a filled track, optionally
// prefixed by a label and followed by a percentage.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

// NewProgressBar returns a ProgressBar. Percent is clamped when drawn.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, ShowPercent: showPercent, Width: width}
}

func (p ProgressBar) fraction() float64 {
	return math.Min(1, math.Max(0, p.Percent))
}

// View renders the bar into exactly Width cells when Width allows it.
func (p ProgressBar) View() string {
	var head, tail string
	if p.Label != "" {
		head = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	if p.ShowPercent {
		tail = lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %3d%%", int(math.Round(p.fraction()*100))))
	}

	cells := max(minBarCells, p.Width-lipgloss.Width(head)-lipgloss.Width(tail))
	filled := int(math.Round(float64(cells) * p.fraction()))

	return head +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", cells-filled)) +
		tail
}
