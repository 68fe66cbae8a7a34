package components

import (
	"strings"

	"github.com/st-academy/academy/internal/ui/theme"
)

// RenderChecklist renders labelled steps with a done mark. Missing entries
// in done count as not done.
func RenderChecklist(labels []string, done []bool) string {
	lines := make([]string, len(labels))
	for i, label := range labels {
		if i < len(done) && done[i] {
			lines[i] = theme.Done.Render("✓ " + label)
		} else {
			lines[i] = theme.Pending.Render("○ " + label)
		}
	}
	return strings.Join(lines, "\n")
}
