package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/st-academy/academy/internal/ui/theme"
)

const bannerArt = `
  █████╗  ██████╗ █████╗ ██████╗ ███████╗███╗   ███╗██╗   ██╗
 ██╔══██╗██╔════╝██╔══██╗██╔══██╗██╔════╝████╗ ████║╚██╗ ██╔╝
 ███████║██║     ███████║██║  ██║█████╗  ██╔████╔██║ ╚████╔╝
 ██╔══██║██║     ██╔══██║██║  ██║██╔══╝  ██║╚██╔╝██║  ╚██╔╝
 ██║  ██║╚██████╗██║  ██║██████╔╝███████╗██║ ╚═╝ ██║   ██║
 ╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝╚═════╝ ╚══════╝╚═╝     ╚═╝   ╚═╝`

const bannerCompact = "A C A D E M Y"

// bannerMinWidth is the widest banner line plus a margin.
const bannerMinWidth = 64

// RenderBanner returns the ACADEMY banner in the primary color, or the
// spaced-letter fallback on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
