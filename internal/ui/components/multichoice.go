package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/st-academy/academy/internal/ui/theme"
)

// ChoiceOption is one selectable answer.
type ChoiceOption struct {
	ID    string
	Label string
}

// ChoiceSelectedMsg is emitted when the learner picks the option under the
// cursor.
type ChoiceSelectedMsg struct {
	QuestionID string
	ChoiceID   string
}

// MultiChoice renders one quiz question. It owns only the cursor; the
// selection and submission state are pushed in by the owner after grading
// so the component never disagrees with the quiz session.
type MultiChoice struct {
	QuestionID string
	Prompt     string
	Options    []ChoiceOption
	CorrectID  string
	Cursor     int

	// Selected is the chosen option ID, "" when none.
	Selected string
	// Submitted reports whether the current selection has been graded.
	Submitted bool
}

// NewMultiChoice creates a question with the cursor on the first option.
func NewMultiChoice(questionID, prompt string, options []ChoiceOption, correctID string) MultiChoice {
	return MultiChoice{
		QuestionID: questionID,
		Prompt:     prompt,
		Options:    options,
		CorrectID:  correctID,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update moves the cursor and emits ChoiceSelectedMsg on space, enter or a
// digit key.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
		return m, nil
	case "space", " ", "enter":
		return m, m.choose(m.Cursor)
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		i := int(key[0] - '1')
		if i < len(m.Options) {
			m.Cursor = i
			return m, m.choose(i)
		}
	}
	return m, nil
}

func (m MultiChoice) choose(i int) tea.Cmd {
	if i < 0 || i >= len(m.Options) {
		return nil
	}
	sel := ChoiceSelectedMsg{QuestionID: m.QuestionID, ChoiceID: m.Options[i].ID}
	return func() tea.Msg { return sel }
}

// IsCorrect reports whether the submitted selection is the correct option.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.Selected == m.CorrectID
}

// View renders the prompt and options. After submission the correct option
// is green and a wrong selection red.
func (m MultiChoice) View(focused bool) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(m.Prompt))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		cursor := "  "
		if focused && i == m.Cursor {
			cursor = "▸ "
		}
		mark := "○"
		if opt.ID == m.Selected {
			mark = "●"
		}
		line := fmt.Sprintf("%s%d) %s %s", cursor, i+1, mark, opt.Label)

		var style lipgloss.Style
		switch {
		case m.Submitted && opt.ID == m.CorrectID:
			style = theme.Correct
		case m.Submitted && opt.ID == m.Selected:
			style = theme.Incorrect
		case m.Submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case opt.ID == m.Selected:
			style = theme.Selected
		case focused && i == m.Cursor:
			style = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
