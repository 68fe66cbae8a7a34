package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/st-academy/academy/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with an optional validator whose result
// is shown after Submit.
type TextInput struct {
	Model    textinput.Model
	Validate func(string) error
	err      error
	checked  bool
}

// NewTextInput creates a focused text input. maxLen of zero means no limit.
func NewTextInput(placeholder string, maxLen int, validate func(string) error) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if maxLen > 0 {
		ti.CharLimit = maxLen
	}
	return TextInput{Model: ti, Validate: validate}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update forwards messages to the input. Editing clears the last result.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		t.checked = false
		t.err = nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// Submit runs the validator on the current value and returns its result.
func (t *TextInput) Submit() error {
	t.checked = true
	t.err = nil
	if t.Validate != nil {
		t.err = t.Validate(t.Model.Value())
	}
	return t.err
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// View renders the input followed by the validation mark.
func (t TextInput) View() string {
	view := t.Model.View()
	if !t.checked {
		return view
	}
	if t.err == nil {
		return view + " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	}
	return view + " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗ "+t.err.Error())
}
