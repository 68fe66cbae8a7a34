package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/st-academy/academy/internal/curriculum"
	"github.com/st-academy/academy/internal/progress"
	"github.com/st-academy/academy/internal/router"
	"github.com/st-academy/academy/internal/screen"
	"github.com/st-academy/academy/internal/screens/history"
	"github.com/st-academy/academy/internal/screens/identity"
	trackscreen "github.com/st-academy/academy/internal/screens/track"
	"github.com/st-academy/academy/internal/ui/components"
	"github.com/st-academy/academy/internal/ui/layout"
	"github.com/st-academy/academy/internal/ui/theme"
)

const buttonWidth = 26

// trackRow is one track with the learner's completion.
type trackRow struct {
	track     curriculum.Track
	completed int
	total     int
	percent   float64
}

// HomeScreen lists the tracks and the utility entries.
type HomeScreen struct {
	env  *screen.Env
	menu components.Menu
	rows []trackRow
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen over env.
func New(env *screen.Env) *HomeScreen {
	h := &HomeScreen{env: env}
	h.reload()
	return h
}

// reload recomputes per-track progress and rebuilds the menu, keeping the
// cursor position.
func (h *HomeScreen) reload() {
	st := h.env.Load()

	h.rows = h.rows[:0]
	var items []components.MenuItem
	for _, t := range h.env.Curriculum.Tracks() {
		lessons := h.env.Curriculum.LessonsByTrack(t.ID)
		row := trackRow{
			track:     t,
			completed: progress.CompletedCount(st, lessons),
			total:     len(lessons),
			percent:   progress.TrackPercent(st, lessons),
		}
		h.rows = append(h.rows, row)

		id := t.ID
		env := h.env
		items = append(items, components.MenuItem{
			Label:    strings.ToUpper(t.Title),
			Disabled: row.total == 0,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: trackscreen.New(env, id)}
				}
			},
		})
	}

	env := h.env
	items = append(items,
		components.MenuItem{Label: "IDENTITY", Action: func() tea.Cmd {
			return router.Push(identity.New(env))
		}},
		components.MenuItem{Label: "HISTORY", Disabled: env.Events == nil, Action: func() tea.Cmd {
			return router.Push(history.New(env))
		}},
		components.MenuItem{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	)

	selected := h.menu.Selected
	h.menu = components.NewMenu(items)
	if selected > 0 && selected < len(items) && !items[selected].Disabled {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case router.PoppedMsg:
		h.reload()
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string

	title := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("S O L A N A   A C A D E M Y")
	sub := theme.Subtitle.Render("Learning as " + layout.ShortIdentity(h.env.Identity))
	sections = append(sections, lipgloss.JoinVertical(lipgloss.Center, title, sub))

	var bars []string
	for _, r := range h.rows {
		label := fmt.Sprintf("%-16s %d/%d", truncate(r.track.Title, 16), r.completed, r.total)
		bars = append(bars, components.NewProgressBar(label, r.percent, true, cw-4).View())
	}
	if len(bars) > 0 {
		sections = append(sections, components.Card(strings.Join(bars, "\n"), cw))
	}

	// Bordered buttons take three rows each; fall back to a plain menu on
	// short terminals.
	var menu string
	if height < 4*len(h.menu.Items)+12 {
		menu = h.menu.View()
	} else {
		var buttons []string
		for i, item := range h.menu.Items {
			if item.Disabled {
				buttons = append(buttons, lipgloss.NewStyle().
					Width(buttonWidth).Align(lipgloss.Center).
					Foreground(theme.TextDim).Render(item.Label))
				continue
			}
			buttons = append(buttons, components.MenuButton(item.Label, i == h.menu.Selected, buttonWidth))
		}
		menu = strings.Join(buttons, "\n")
	}
	sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(menu))

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
