package history

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/st-academy/academy/internal/router"
	"github.com/st-academy/academy/internal/screen"
	"github.com/st-academy/academy/internal/store"
	"github.com/st-academy/academy/internal/ui/components"
	"github.com/st-academy/academy/internal/ui/layout"
	"github.com/st-academy/academy/internal/ui/theme"
)

const pageSize = 100

type historyLoadedMsg struct {
	Events []store.LessonEventRecord
	Err    error
}

// HistoryScreen lists recent lesson events, newest first.
type HistoryScreen struct {
	env      *screen.Env
	events   []store.LessonEventRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(env *screen.Env) *HistoryScreen {
	return &HistoryScreen{
		env:      env,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	if s.env.Events == nil {
		return func() tea.Msg { return historyLoadedMsg{} }
	}
	ctx, repo := s.env.Context(), s.env.Events
	return func() tea.Msg {
		events, err := repo.QueryLessonEvents(ctx, store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, router.Back()
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No activity yet. Open a lesson to get started!")
	}

	var lines []string
	selectedLine := 0
	for i, ev := range s.events {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
			selectedLine = len(lines)
		}

		line := fmt.Sprintf("%s%s  %-14s %-10s %s",
			prefix,
			ev.Timestamp.Local().Format("Jan 02 15:04"),
			kindLabel(ev),
			layout.ShortIdentity(ev.Wallet),
			components.Sanitize(ev.Track+"/"+ev.LessonID))

		style := lipgloss.NewStyle().Foreground(kindColor(ev))
		if i == s.selected {
			style = style.Bold(true)
		}
		lines = append(lines, style.Render(line))

		if s.expanded[i] {
			for _, d := range details(ev) {
				lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render("      "+d))
			}
		}
	}

	// Keep the selection on screen.
	start := 0
	if selectedLine >= height-1 {
		start = selectedLine - height + 2
	}
	end := start + height - 1
	if end > len(lines) {
		end = len(lines)
	}

	return "\n" + strings.Join(lines[start:end], "\n")
}

func kindLabel(ev store.LessonEventRecord) string {
	switch ev.Kind {
	case "submitted":
		if ev.Correct {
			return "✓ answered"
		}
		return "✗ answered"
	case "completed":
		return fmt.Sprintf("★ done +%d", ev.XP)
	case "receipt":
		return "⛓ receipt"
	case "receipt_failed":
		return "! receipt"
	default:
		return "· " + ev.Kind
	}
}

func kindColor(ev store.LessonEventRecord) color.Color {
	switch ev.Kind {
	case "submitted":
		if ev.Correct {
			return theme.Success
		}
		return theme.Error
	case "completed":
		return theme.Highlight
	case "receipt":
		return theme.Secondary
	case "receipt_failed":
		return theme.Accent
	default:
		return theme.Text
	}
}

func details(ev store.LessonEventRecord) []string {
	var out []string
	if ev.QuestionID != "" {
		out = append(out, fmt.Sprintf("question %s, choice %s", ev.QuestionID, ev.ChoiceID))
	}
	if ev.Detail != "" {
		out = append(out, components.Sanitize(ev.Detail))
	}
	out = append(out, "view "+ev.ViewID)
	return out
}
