package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/st-academy/academy/internal/ui/theme"
)

// StepperStep is one stage of a Stepper.
type StepperStep struct {
	Title       string
	Description string
}

// Stepper walks through a fixed list of steps one at a time.
type Stepper struct {
	Title   string
	Steps   []StepperStep
	Current int
}

// NewStepper creates a stepper on its first step.
func NewStepper(title string, steps []StepperStep) Stepper {
	return Stepper{Title: title, Steps: steps}
}

// Next advances one step, wrapping to the first after the last.
func (s Stepper) Next() Stepper {
	if len(s.Steps) == 0 {
		return s
	}
	s.Current = (s.Current + 1) % len(s.Steps)
	return s
}

// Prev moves back one step, stopping at the first.
func (s Stepper) Prev() Stepper {
	if s.Current > 0 {
		s.Current--
	}
	return s
}

// View renders the step track and the current step's description.
func (s Stepper) View(width int) string {
	if len(s.Steps) == 0 {
		return ""
	}

	dots := make([]string, len(s.Steps))
	for i := range s.Steps {
		switch {
		case i == s.Current:
			dots[i] = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("●")
		case i < s.Current:
			dots[i] = lipgloss.NewStyle().Foreground(theme.Primary).Render("●")
		default:
			dots[i] = lipgloss.NewStyle().Foreground(theme.Border).Render("○")
		}
	}

	step := s.Steps[s.Current]
	var b strings.Builder
	if s.Title != "" {
		b.WriteString(theme.Title.Render(Sanitize(s.Title)))
		b.WriteString("\n")
	}
	b.WriteString(strings.Join(dots, lipgloss.NewStyle().Foreground(theme.Border).Render("──")))
	b.WriteString("  ")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%d/%d", s.Current+1, len(s.Steps))))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(Sanitize(step.Title)))
	if step.Description != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.TextDim).Render(Sanitize(step.Description)))
	}
	return b.String()
}
