package identity

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/st-academy/academy/internal/receipt"
	"github.com/st-academy/academy/internal/router"
	"github.com/st-academy/academy/internal/screen"
	"github.com/st-academy/academy/internal/ui/components"
	"github.com/st-academy/academy/internal/ui/layout"
	"github.com/st-academy/academy/internal/ui/theme"
)

// IdentityScreen switches the progress record between anonymous and a
// read-only wallet address. With a signer connected the identity is fixed.
type IdentityScreen struct {
	env   *screen.Env
	input components.TextInput
}

var _ screen.Screen = (*IdentityScreen)(nil)
var _ screen.KeyHintProvider = (*IdentityScreen)(nil)

// New creates an IdentityScreen prefilled with the current identity.
func New(env *screen.Env) *IdentityScreen {
	in := components.NewTextInput("wallet address (empty for anonymous)", 44, validate)
	in.Model.SetValue(env.Identity)
	return &IdentityScreen{env: env, input: in}
}

func validate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return receipt.ValidateAddress(s)
}

func (s *IdentityScreen) Init() tea.Cmd {
	if s.env.SignerConnected() {
		return nil
	}
	return s.input.Init()
}

func (s *IdentityScreen) Title() string {
	return "Identity"
}

func (s *IdentityScreen) KeyHints() []layout.KeyHint {
	if s.env.SignerConnected() {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Use identity"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *IdentityScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.env.SignerConnected() {
		return s, nil
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		if err := s.input.Submit(); err != nil {
			return s, nil
		}
		s.env.SetIdentity(strings.TrimSpace(s.input.Value()))
		return s, tea.Sequence(screen.ProgressChanged, router.Back())
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *IdentityScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(theme.Title.Render("Whose progress?"))
	b.WriteString("\n\n")

	if s.env.SignerConnected() {
		b.WriteString(theme.Body.Render("Signer connected: " + s.env.Sender.Identity()))
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Width(cw).Render("Progress is stored under the signing wallet. Restart without --keypair to switch."))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
	}

	b.WriteString(theme.Body.Width(cw).Render("Progress is stored per wallet. Enter an address to read and write its record, or leave it empty to learn anonymously."))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Current: " + layout.ShortIdentity(s.env.Identity)))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Width(cw).Render(b.String()))
}
