package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/st-academy/academy/internal/screen"
)

type fakeScreen struct {
	name   string
	inits  int
	popped int
}

func (s *fakeScreen) Init() tea.Cmd { s.inits++; return nil }
func (s *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(PoppedMsg); ok {
		s.popped++
	}
	return s, nil
}
func (s *fakeScreen) View(int, int) string { return s.name }
func (s *fakeScreen) Title() string        { return s.name }

func titles(r *Router) []string {
	var out []string
	for _, s := range r.stack {
		out = append(out, s.Title())
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		name string
		msgs []tea.Msg
		want []string
	}{
		{"push", []tea.Msg{PushScreenMsg{Screen: &fakeScreen{name: "b"}}}, []string{"root", "b"}},
		{"push pop", []tea.Msg{PushScreenMsg{Screen: &fakeScreen{name: "b"}}, PopScreenMsg{}}, []string{"root"}},
		{"pop at root", []tea.Msg{PopScreenMsg{}, PopScreenMsg{}}, []string{"root"}},
		{"replace root", []tea.Msg{ReplaceScreenMsg{Screen: &fakeScreen{name: "x"}}}, []string{"x"}},
		{"replace keeps depth", []tea.Msg{
			PushScreenMsg{Screen: &fakeScreen{name: "b"}},
			ReplaceScreenMsg{Screen: &fakeScreen{name: "c"}},
		}, []string{"root", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&fakeScreen{name: "root"})
			for _, m := range tt.msgs {
				r.Update(m)
			}
			if got := titles(r); !equal(got, tt.want) {
				t.Errorf("stack = %v, want %v", got, tt.want)
			}
			if r.Depth() != len(tt.want) {
				t.Errorf("Depth = %d, want %d", r.Depth(), len(tt.want))
			}
			if got := r.View(80, 24); got != tt.want[len(tt.want)-1] {
				t.Errorf("View = %q", got)
			}
		})
	}
}

func TestPushAndReplaceRunInit(t *testing.T) {
	r := New(&fakeScreen{name: "root"})
	pushed := &fakeScreen{name: "pushed"}
	replaced := &fakeScreen{name: "replaced"}

	r.Push(pushed)
	r.Replace(replaced)

	if pushed.inits != 1 || replaced.inits != 1 {
		t.Errorf("inits = %d, %d; want 1, 1", pushed.inits, replaced.inits)
	}
}

func TestPopNotifiesUncoveredScreen(t *testing.T) {
	root := &fakeScreen{name: "root"}
	r := New(root)
	r.Push(&fakeScreen{name: "top"})

	r.Update(PopScreenMsg{})
	if root.popped != 1 {
		t.Errorf("popped = %d, want 1", root.popped)
	}

	r.Pop()
	if root.popped != 1 {
		t.Errorf("pop at root notified, popped = %d", root.popped)
	}
}

func TestCommands(t *testing.T) {
	s := &fakeScreen{name: "next"}
	if msg, ok := Push(s)().(PushScreenMsg); !ok || msg.Screen != s {
		t.Errorf("Push() = %#v", msg)
	}
	if _, ok := Back()().(PopScreenMsg); !ok {
		t.Error("Back() did not produce PopScreenMsg")
	}
}
