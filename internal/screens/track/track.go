package track

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/st-academy/academy/internal/curriculum"
	"github.com/st-academy/academy/internal/progress"
	"github.com/st-academy/academy/internal/router"
	"github.com/st-academy/academy/internal/screen"
	lessonscreen "github.com/st-academy/academy/internal/screens/lesson"
	"github.com/st-academy/academy/internal/ui/components"
	"github.com/st-academy/academy/internal/ui/layout"
	"github.com/st-academy/academy/internal/ui/theme"
)

// TrackScreen lists the lessons of one track with completion marks.
type TrackScreen struct {
	env     *screen.Env
	track   curriculum.Track
	lessons []curriculum.Lesson
	state   progress.State
	menu    components.Menu
	errMsg  string
}

var _ screen.Screen = (*TrackScreen)(nil)
var _ screen.KeyHintProvider = (*TrackScreen)(nil)

// New creates a TrackScreen. An unknown track renders an error.
func New(env *screen.Env, id curriculum.TrackID) *TrackScreen {
	s := &TrackScreen{env: env}
	t, err := env.Curriculum.Track(id)
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.track = t
	s.lessons = env.Curriculum.LessonsByTrack(id)
	s.reload()
	return s
}

func (s *TrackScreen) reload() {
	s.state = s.env.Load()

	items := make([]components.MenuItem, len(s.lessons))
	for i, l := range s.lessons {
		mark := "○"
		if progress.IsLessonCompleted(s.state, l.Track, l.ID) {
			mark = "✓"
		}
		env, track, id := s.env, l.Track, l.ID
		items[i] = components.MenuItem{
			Label:  fmt.Sprintf("%s %2d. %s", mark, i+1, l.Title),
			Detail: fmt.Sprintf("%d min · %d questions", l.Minutes, len(l.Quiz)),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: lessonscreen.New(env, track, id)}
				}
			},
		}
	}
	selected := s.menu.Selected
	s.menu = components.NewMenu(items)
	if selected < len(items) {
		s.menu.Selected = selected
	}
}

func (s *TrackScreen) Init() tea.Cmd {
	return nil
}

func (s *TrackScreen) Title() string {
	if s.track.Title == "" {
		return "Track"
	}
	return s.track.Title
}

func (s *TrackScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open lesson"},
		{Key: "c", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *TrackScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case router.PoppedMsg:
		s.reload()
		return s, nil
	case tea.KeyMsg:
		if msg.String() == "c" {
			return s, s.continueCmd()
		}
	}
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

// nextLessonIndex returns the first lesson not yet completed, or the first
// lesson when the track is done.
func (s *TrackScreen) nextLessonIndex() int {
	for i, l := range s.lessons {
		if !progress.IsLessonCompleted(s.state, l.Track, l.ID) {
			return i
		}
	}
	return 0
}

func (s *TrackScreen) continueCmd() tea.Cmd {
	if len(s.lessons) == 0 {
		return nil
	}
	s.menu.Selected = s.nextLessonIndex()
	item, _ := s.menu.SelectedItem()
	return item.Action()
}

func (s *TrackScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\nError: " + s.errMsg)
	}

	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString(theme.Title.Render(s.track.Title))
	b.WriteString("\n")
	if s.track.Subtitle != "" {
		b.WriteString(theme.Subtitle.Render(s.track.Subtitle))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	done := progress.CompletedCount(s.state, s.lessons)
	b.WriteString(components.NewProgressBar(
		fmt.Sprintf("%d/%d lessons", done, len(s.lessons)),
		progress.TrackPercent(s.state, s.lessons), true, cw).View())
	b.WriteString("\n\n")

	if len(s.lessons) == 0 {
		b.WriteString(theme.Hint.Render("No lessons in this track yet."))
	} else {
		b.WriteString(s.menu.View())
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(cw).Padding(1, 0).Render(b.String()))
}
