package components

import (
	"regexp"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/st-academy/academy/internal/markdown"
	"github.com/st-academy/academy/internal/ui/theme"
)

// ansiPattern matches CSI and OSC escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(\x07|\x1b\\)`)

// Sanitize strips terminal escape sequences and other control characters
// except newline and tab, so lesson content can only ever produce text.
func Sanitize(s string) string {
	s = ansiPattern.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			return -1
		}
		return r
	}, s)
}

var (
	mdHeading1 = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	mdHeading2 = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	mdCodeBox  = lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(theme.Border).
			PaddingLeft(1)
)

// RenderMarkdown styles src for the terminal at the given width.
func RenderMarkdown(src string, width int) string {
	return RenderBlocks(markdown.Render(src), width)
}

// RenderBlocks styles already parsed blocks.
func RenderBlocks(blocks []markdown.Block, width int) string {
	if width < 10 {
		width = 10
	}
	wrap := lipgloss.NewStyle().Width(width)

	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case markdown.Heading1:
			parts = append(parts, wrap.Render(renderSpans(b.Spans, mdHeading1)))
		case markdown.Heading2:
			parts = append(parts, wrap.Render(renderSpans(b.Spans, mdHeading2)))
		case markdown.List:
			items := make([]string, len(b.Items))
			itemWrap := lipgloss.NewStyle().Width(width - 2)
			for i, it := range b.Items {
				body := itemWrap.Render(renderSpans(it, theme.Body))
				items[i] = lipgloss.JoinHorizontal(lipgloss.Top, "• ", body)
			}
			parts = append(parts, strings.Join(items, "\n"))
		case markdown.Code:
			parts = append(parts, mdCodeBox.Render(Sanitize(b.Code)))
		default:
			parts = append(parts, wrap.Render(renderSpans(b.Spans, theme.Body)))
		}
	}
	return strings.Join(parts, "\n\n")
}

// renderSpans styles inline spans on top of base, the style of the
// enclosing block.
func renderSpans(spans []markdown.Span, base lipgloss.Style) string {
	var b strings.Builder
	for _, sp := range spans {
		text := Sanitize(sp.Text)
		switch sp.Kind {
		case markdown.Bold:
			b.WriteString(base.Bold(true).Render(text))
		case markdown.Italic:
			b.WriteString(base.Italic(true).Render(text))
		case markdown.InlineCode:
			b.WriteString(theme.Code.Render(text))
		default:
			b.WriteString(base.Render(text))
		}
	}
	return b.String()
}
