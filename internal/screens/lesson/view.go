package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/st-academy/academy/internal/progress"
	"github.com/st-academy/academy/internal/quiz"
	"github.com/st-academy/academy/internal/receipt"
	"github.com/st-academy/academy/internal/ui/components"
	"github.com/st-academy/academy/internal/ui/theme"
)

// sidebarMinWidth is the terminal width at which the checklist moves into a
// right-hand column.
const sidebarMinWidth = 110

const sidebarWidth = 38

func (s *LessonScreen) View(width, height int) string {
	if s.openErr != nil {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\nError: " + s.openErr.Error())
	}

	mainWidth := width - 4
	twoColumn := width >= sidebarMinWidth
	if twoColumn {
		mainWidth = width - sidebarWidth - 6
	}

	main, anchors := s.renderMain(mainWidth)
	var body string
	if twoColumn {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(mainWidth).Render(main),
			"  ",
			s.renderSidebar(sidebarWidth))
	} else {
		body = main + "\n\n" + s.renderSidebar(mainWidth)
	}

	status := s.renderStatus(width - 4)
	statusHeight := 0
	if status != "" {
		statusHeight = lipgloss.Height(status) + 1
	}

	visible := height - statusHeight
	if visible < 1 {
		visible = 1
	}
	lines := strings.Split(body, "\n")
	if s.followFocus && s.focus < len(anchors) {
		s.offset = scrollTo(s.offset, anchors[s.focus], anchors[s.focus]+len(s.choices[s.focus].Options)+6, visible)
		s.followFocus = false
	}
	maxOffset := len(lines) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.offset > maxOffset {
		s.offset = maxOffset
	}
	end := s.offset + visible
	if end > len(lines) {
		end = len(lines)
	}

	out := lipgloss.NewStyle().PaddingLeft(2).Render(strings.Join(lines[s.offset:end], "\n"))
	if status != "" {
		pad := visible - (end - s.offset)
		out += strings.Repeat("\n", pad+1) + lipgloss.NewStyle().PaddingLeft(2).Render(status)
	}
	return out
}

// scrollTo returns an offset that keeps lines [top, bottom) on screen,
// preferring to keep the current offset.
func scrollTo(offset, top, bottom, visible int) int {
	if top < offset {
		return top
	}
	if bottom > offset+visible {
		o := bottom - visible
		if o > top {
			o = top
		}
		return o
	}
	return offset
}

// renderMain renders the lesson column and returns the line index where
// each question starts.
func (s *LessonScreen) renderMain(width int) (string, []int) {
	l := s.view.Lesson()
	var sections []string

	sections = append(sections, theme.Title.Render(components.Sanitize(l.Title))+"\n"+s.renderBadges())

	if s.stepper != nil {
		sections = append(sections, components.Card(s.stepper.View(width-4), width))
	}

	sections = append(sections, components.RenderMarkdown(l.Content.Markdown, width))

	for _, c := range l.Content.Callouts {
		callout := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(components.Sanitize(c.Title)) +
			"\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Width(width-3).Render(components.Sanitize(c.Body))
		sections = append(sections, theme.Callout.Render(callout))
	}

	discussion := theme.Subtitle.Render("Discussion") + "\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Width(width-4).Render(components.Sanitize(l.Discussion()))
	sections = append(sections, components.Card(discussion, width))

	if len(s.choices) > 0 {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).Render("★ Knowledge Check"))
	}

	anchors := make([]int, len(s.choices))
	for i, mc := range s.choices {
		// sections are joined with one blank line between them
		anchors[i] = lipgloss.Height(strings.Join(sections, "\n\n")) + 1
		sections = append(sections, s.renderQuestion(i, mc, width))
	}

	sections = append(sections, s.renderNav())
	return strings.Join(sections, "\n\n"), anchors
}

func (s *LessonScreen) renderBadges() string {
	l := s.view.Lesson()
	trackTitle := string(l.Track)
	if t, err := s.env.Curriculum.Track(l.Track); err == nil {
		trackTitle = t.Title
	}

	badges := []string{
		theme.Badge.Render(fmt.Sprintf("%d min", l.Minutes)),
		theme.Badge.Background(theme.Primary).Foreground(theme.Text).Render("Level: " + components.Sanitize(trackTitle)),
		theme.Badge.Render(fmt.Sprintf("%d Questions", len(l.Quiz))),
	}
	if s.view.QuizPassed() {
		badges = append(badges, theme.Badge.Background(theme.Success).Render("Quiz passed"))
	} else {
		badges = append(badges, theme.Badge.Render("Quiz pending"))
	}
	if s.view.Completed() {
		badges = append(badges, theme.Badge.Background(theme.Secondary).Render("✓ Completed"))
	}
	return strings.Join(badges, " ")
}

func (s *LessonScreen) renderQuestion(i int, mc components.MultiChoice, width int) string {
	focused := i == s.focus
	border := theme.Border
	if focused {
		border = theme.Primary
	}

	var b strings.Builder
	b.WriteString(mc.View(focused))

	q, _ := s.view.Lesson().Question(mc.QuestionID)
	switch s.view.Quiz().Status(mc.QuestionID) {
	case quiz.SubmittedCorrect:
		b.WriteString("\n")
		b.WriteString(theme.Correct.Render("Correct!"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(width - 4).Render(components.Sanitize(q.Explanation)))
	case quiz.SubmittedIncorrect:
		b.WriteString("\n")
		b.WriteString(theme.Incorrect.Render("Incorrect"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(width - 4).Render(components.Sanitize(q.Explanation)))
		if exp := s.explanations[mc.QuestionID]; exp != nil {
			b.WriteString("\n\n")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Info).Bold(true).Render("Tutor"))
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(width - 4).Render(components.Sanitize(exp.Explanation)))
			if exp.Hint != "" {
				b.WriteString("\n")
				b.WriteString(theme.Hint.Width(width - 4).Render("Hint: " + components.Sanitize(exp.Hint)))
			}
		} else if s.explaining[mc.QuestionID] {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("Asking the tutor…"))
		}
	case quiz.Answered:
		if focused {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("press s to submit"))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), false, false, false, true).
		BorderForeground(border).
		PaddingLeft(1).
		Render(b.String())
}

func (s *LessonScreen) renderNav() string {
	var parts []string
	if p := s.view.Prev(); p != nil {
		parts = append(parts, theme.Hint.Render("← p  "+components.Sanitize(p.Title)))
	}
	if n := s.view.Next(); n != nil {
		parts = append(parts, theme.Hint.Render(components.Sanitize(n.Title)+"  n →"))
	}
	return strings.Join(parts, "     ")
}

func (s *LessonScreen) renderSidebar(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("✓ Lesson Checklist"))
	b.WriteString("\n\n")
	b.WriteString(components.RenderChecklist(progress.ChecklistLabels, s.view.Checklist()))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Width(width - 4).Render("Finish is enabled only after you submit every question and all answers are correct."))
	b.WriteString("\n\n")

	qs := s.view.Quiz()
	finishLabel := "Finish lesson (f)"
	if s.view.Completed() {
		finishLabel = "Finished (f)"
	}
	b.WriteString(components.NewButton(finishLabel, qs.CanFinish(), nil).View())
	b.WriteString("\n")

	receiptLabel := "Emit devnet receipt (r)"
	if s.view.Busy() {
		receiptLabel = "Emitting… "
	}
	b.WriteString(components.NewButton(receiptLabel, s.view.CanEmitReceipt(), nil).View())
	b.WriteString("\n")
	if s.view.ReceiptIdentity() == "" {
		b.WriteString(theme.Hint.Width(width - 4).Render("Optional: connect a keypair (--keypair) to write a Memo. Progress works without it."))
	} else {
		b.WriteString(theme.Hint.Width(width - 4).Render("Optional: writes a Memo signed by " + s.view.ReceiptIdentity()))
	}

	if s.signature != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Subtitle.Render("Receipt signature (devnet)"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Info).Width(width - 4).Render(s.signature))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(width - 4).Render(receipt.ExplorerURL(s.signature, s.env.Cluster)))
	}

	return components.Card(b.String(), width)
}

func (s *LessonScreen) renderStatus(width int) string {
	if s.status == "" {
		return ""
	}
	style := lipgloss.NewStyle().Width(width)
	switch s.statusKind {
	case statusSuccess:
		style = style.Foreground(theme.Success)
	case statusError:
		style = style.Foreground(theme.Error)
	default:
		style = style.Foreground(theme.TextDim)
	}
	return style.Render(s.status)
}
