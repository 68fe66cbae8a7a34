// Package screen defines the contract between the app shell and the
// individual TUI screens, plus the dependencies screens share.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/st-academy/academy/internal/ui/layout"
)

// Screen is one page of the TUI. The shell draws the header and footer;
// View only fills the area between them.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	// Title is shown in the header.
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackGuard vetoes esc while the screen has work in flight.
type BackGuard interface {
	CanGoBack() bool
}
