package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/st-academy/academy/internal/ui/theme"
)

// Button is a labelled action that only fires while Active.
type Button struct {
	Label   string
	Active  bool
	OnPress func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label string, active bool, onPress func() tea.Cmd) Button {
	return Button{
		Label:   label,
		Active:  active,
		OnPress: onPress,
	}
}

// Press runs OnPress when the button is active.
func (b Button) Press() tea.Cmd {
	if !b.Active || b.OnPress == nil {
		return nil
	}
	return b.OnPress()
}

// View renders the button. Inactive buttons are dimmed.
func (b Button) View() string {
	if b.Active {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render("  " + b.Label)
}
