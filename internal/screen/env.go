package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/st-academy/academy/internal/curriculum"
	"github.com/st-academy/academy/internal/lesson"
	"github.com/st-academy/academy/internal/progress"
	"github.com/st-academy/academy/internal/receipt"
	"github.com/st-academy/academy/internal/store"
	"github.com/st-academy/academy/internal/tutor"
	"github.com/st-academy/academy/internal/ui/layout"
)

// ProgressChangedMsg tells the app to refresh header totals after a screen
// saved progress or switched identity.
type ProgressChangedMsg struct{}

// ProgressChanged is a command emitting ProgressChangedMsg.
func ProgressChanged() tea.Msg { return ProgressChangedMsg{} }

// Explainer produces tutor explanations for wrong answers.
type Explainer interface {
	Explain(ctx context.Context, in tutor.Input) (*tutor.Explanation, error)
}

// HistoryReader lists lesson events.
type HistoryReader interface {
	QueryLessonEvents(ctx context.Context, opts store.QueryOpts) ([]store.LessonEventRecord, error)
}

// Env is shared by every screen of one program run. Screens run on the
// Bubble Tea goroutine; commands that touch Env from other goroutines only
// read fields that never change after startup.
type Env struct {
	Ctx        context.Context
	Curriculum curriculum.Repository
	Progress   *progress.Store
	Sender     receipt.Sender  // optional
	Events     store.EventRepo // optional
	Tutor      Explainer       // optional
	Cluster    string
	Logger     *zap.Logger

	// Identity is the progress record in use. A connected signer always
	// wins; otherwise a wallet entered on the identity screen, else
	// anonymous.
	Identity string

	stats layout.HeaderStats
}

// Context returns Env.Ctx, or Background when unset.
func (e *Env) Context() context.Context {
	if e.Ctx == nil {
		return context.Background()
	}
	return e.Ctx
}

// LessonDeps returns the collaborators for opening a lesson view.
func (e *Env) LessonDeps() lesson.Deps {
	return lesson.Deps{
		Curriculum: e.Curriculum,
		Progress:   e.Progress,
		Identity:   e.Identity,
		Sender:     e.Sender,
		Events:     e.Events,
		Logger:     e.Logger,
	}
}

// Load reads the current identity's progress.
func (e *Env) Load() progress.State {
	return e.Progress.Load(e.Context(), e.Identity)
}

// SignerConnected reports whether receipts can be signed.
func (e *Env) SignerConnected() bool {
	return e.Sender != nil && e.Sender.Identity() != ""
}

// SetIdentity switches to a read-only wallet identity. It is ignored while
// a signer is connected.
func (e *Env) SetIdentity(wallet string) bool {
	if e.SignerConnected() {
		return false
	}
	e.Identity = wallet
	return true
}

// Refresh recomputes the header totals from storage.
func (e *Env) Refresh() {
	st := e.Load()
	completed := 0
	for _, t := range e.Curriculum.Tracks() {
		completed += progress.CompletedCount(st, e.Curriculum.LessonsByTrack(t.ID))
	}
	e.stats = layout.HeaderStats{XP: st.XP, Completed: completed, Identity: e.Identity}
}

// Stats returns the totals from the last Refresh.
func (e *Env) Stats() layout.HeaderStats { return e.stats }
