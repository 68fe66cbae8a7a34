// Package layout draws the chrome around every screen: a header bar with
// the learner's totals, a footer of key hints and the body between them.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/st-academy/academy/internal/ui/theme"
)

// The lesson view needs room for a question and its choices.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is one footer entry.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is below MinWidth x MinHeight.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	body := fmt.Sprintf("Terminal too small\n\nThe academy needs %d x %d.\nYours is %d x %d.",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(body))
}

// HeaderStats are the learner totals shown on the right of the header.
// Identity is shortened for display; empty means anonymous.
type HeaderStats struct {
	XP        int
	Completed int
	Identity  string
}

var (
	brandStyle    = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	titleStyle    = lipgloss.NewStyle().Foreground(theme.Text)
	xpStyle       = lipgloss.NewStyle().Foreground(theme.Highlight)
	doneStyle     = lipgloss.NewStyle().Foreground(theme.Secondary)
	identityStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
	hintKeyStyle  = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	hintDescStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
)

// bar wraps one line of content in the rounded card used for both header
// and footer.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderHeader puts the brand on the left, title centered and stats on the
// right. On narrow terminals the title yields first.
func RenderHeader(title string, stats HeaderStats, width int) string {
	left := brandStyle.Render("  Academy")
	right := strings.Join([]string{
		xpStyle.Render(fmt.Sprintf("★ %d XP", stats.XP)),
		doneStyle.Render(fmt.Sprintf("✓ %d", stats.Completed)),
		identityStyle.Render(ShortIdentity(stats.Identity)),
	}, "   ") + " "
	center := titleStyle.Render(title)

	inner := max(width-4, 0)
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	if lw+cw+rw+2 > inner {
		center, cw = "", 0
	}
	lgap := max((inner-cw)/2-lw, 1)
	rgap := max(inner-lw-lgap-cw-rw, 1)

	return bar(left+strings.Repeat(" ", lgap)+center+strings.Repeat(" ", rgap)+right, width)
}

// ShortIdentity abbreviates a wallet address to its first and last four
// characters.
func ShortIdentity(id string) string {
	switch {
	case id == "":
		return "anonymous"
	case len(id) <= 10:
		return id
	}
	return id[:4] + "…" + id[len(id)-4:]
}

// RenderFooter lists key hints.
func RenderFooter(hints []KeyHint, width int) string {
	var b strings.Builder
	b.WriteString("  ")
	for i, h := range hints {
		if i > 0 {
			b.WriteString("   ")
		}
		b.WriteString(hintKeyStyle.Render(h.Key))
		b.WriteByte(' ')
		b.WriteString(hintDescStyle.Render(h.Description))
	}
	return bar(b.String(), width)
}

// RenderFrame stacks header, body and footer, padding the body to fill the
// remaining height.
func RenderFrame(header, body, footer string, width, height int) string {
	bodyHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body = lipgloss.NewStyle().Width(width).Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
