package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/st-academy/academy/internal/router"
	"github.com/st-academy/academy/internal/screen"
	"github.com/st-academy/academy/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

// Tagline is shown under the banner.
const Tagline = "Learn Solana, one lesson at a time."

// blockArt is a chain of three blocks; the links light up in turn.
var blockArt = []string{
	"┌─────┐   ┌─────┐   ┌─────┐",
	"│ ▣ ▣ │%s│ ▣ ▣ │%s│ ▣ ▣ │",
	"└─────┘   └─────┘   └─────┘",
}

type tickMsg time.Time

// WelcomeScreen shows a short splash before handing over to the home
// screen. Any key skips it.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

// renderChain draws the block chain with links lit up to the current
// frame once the first phase is over.
func (w *WelcomeScreen) renderChain() string {
	link := lipgloss.NewStyle().Foreground(theme.Border).Render("───")
	lit := lipgloss.NewStyle().Foreground(theme.Secondary).Render("═══")

	links := []string{link, link}
	if w.elapsed >= phase1End {
		n := w.tickCount % 3
		for i := 0; i < n && i < len(links); i++ {
			links[i] = lit
		}
	}

	style := lipgloss.NewStyle().Foreground(theme.Primary)
	mid := strings.SplitN(blockArt[1], "%s", 3)
	lines := []string{
		style.Render(blockArt[0]),
		style.Render(mid[0]) + links[0] + style.Render(mid[1]) + links[1] + style.Render(mid[2]),
		style.Render(blockArt[2]),
	}
	return strings.Join(lines, "\n")
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{w.renderChain()}

	if w.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")

		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(Tagline)
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue")
		sections = append(sections, tagline, "", hint)
	}

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
