// Package screentest builds a screen.Env over in-memory and temporary
// storage for screen tests.
package screentest

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/st-academy/academy/internal/curriculum"
	"github.com/st-academy/academy/internal/kv"
	"github.com/st-academy/academy/internal/progress"
	"github.com/st-academy/academy/internal/receipt"
	"github.com/st-academy/academy/internal/screen"
	"github.com/st-academy/academy/internal/store"
)

// Track is the only track in the fixture curriculum.
const Track = curriculum.TrackBeginner101

// Wallet is a valid base58 address usable as an identity.
const Wallet = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"

// Curriculum returns two lessons: "l1" with questions A (correct x) and
// B (correct y), and "l2" with no questions.
func Curriculum(t testing.TB) *curriculum.Static {
	t.Helper()
	tracks := []curriculum.Track{{ID: Track, Title: "Beginner 101", Subtitle: "Start here"}}
	lessons := []curriculum.Lesson{
		{
			ID: "l1", Track: Track, Title: "First Lesson", Minutes: 5,
			Content: curriculum.Content{
				Markdown: "# Accounts\n\nEverything is an **account**.",
				Callouts: []curriculum.Callout{{Title: "Remember", Body: "Programs are stateless."}},
			},
			Animation: &curriculum.Animation{Title: "Flow", Steps: []curriculum.Step{
				{Title: "Sign", Description: "The wallet signs."},
				{Title: "Send", Description: "The RPC forwards it."},
			}},
			Quiz: []curriculum.QuizQuestion{
				{ID: "A", Prompt: "Question A?", CorrectChoiceID: "x", Explanation: "Because x.",
					Choices: []curriculum.Choice{{ID: "x", Label: "Ex"}, {ID: "w", Label: "Double-u"}}},
				{ID: "B", Prompt: "Question B?", CorrectChoiceID: "y", Explanation: "Because y.",
					Choices: []curriculum.Choice{{ID: "y", Label: "Why"}, {ID: "z", Label: "Zed"}}},
			},
		},
		{ID: "l2", Track: Track, Title: "Second Lesson", Minutes: 3,
			Content: curriculum.Content{Markdown: "No quiz here."}},
	}
	repo, err := curriculum.NewStatic(tracks, lessons)
	if err != nil {
		t.Fatalf("NewStatic: %v", err)
	}
	return repo
}

// Sender is a receipt.Sender that records requests.
type Sender struct {
	mu       sync.Mutex
	ID       string
	Sig      string
	Err      error
	Requests []receipt.Request
}

func (s *Sender) Identity() string { return s.ID }

func (s *Sender) Send(_ context.Context, req receipt.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)
	return s.Sig, s.Err
}

// Fixture is an Env plus handles to its storage.
type Fixture struct {
	Env   *screen.Env
	KV    *kv.Memory
	Store *store.Store
}

// New returns a fixture with anonymous identity, no sender and no tutor.
// The lesson event log is a SQLite database under t.TempDir().
func New(t testing.TB) *Fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "academy.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	mem := kv.NewMemory()
	clock := func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	env := &screen.Env{
		Ctx:        context.Background(),
		Curriculum: Curriculum(t),
		Progress:   progress.NewStore(mem, progress.WithClock(clock)),
		Events:     st.EventRepo(),
		Cluster:    "devnet",
	}
	env.Refresh()
	return &Fixture{Env: env, KV: mem, Store: st}
}

// Key builds a key press for a printable rune.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Special builds a key press for a named key such as tea.KeyEnter.
func Special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Drain runs cmd and every command it produces through update, returning
// all messages seen. tea.BatchMsg is flattened.
func Drain(cmd tea.Cmd, update func(tea.Msg) tea.Cmd) []tea.Msg {
	var seen []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg == nil {
			continue
		}
		seen = append(seen, msg)
		queue = append(queue, update(msg))
	}
	return seen
}
