// Package lesson ties one opened lesson to its quiz session and the
// learner's persisted progress.
package lesson

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/st-academy/academy/internal/curriculum"
	"github.com/st-academy/academy/internal/progress"
	"github.com/st-academy/academy/internal/quiz"
	"github.com/st-academy/academy/internal/receipt"
	"github.com/st-academy/academy/internal/store"
)

// Event kinds written to the lesson event log.
const (
	EventOpened        = "opened"
	EventSubmitted     = "submitted"
	EventCompleted     = "completed"
	EventReceipt       = "receipt"
	EventReceiptFailed = "receipt_failed"
)

// EventRecorder appends lesson events. Implemented by store.EventRepo.
type EventRecorder interface {
	AppendLessonEvent(ctx context.Context, data store.LessonEventData) error
}

// Deps are the collaborators of a View. Sender and Events are optional.
type Deps struct {
	Curriculum curriculum.Repository
	Progress   *progress.Store
	Identity   string
	Sender     receipt.Sender
	Events     EventRecorder
	Logger     *zap.Logger
	Clock      progress.Clock
}

// View is the state behind one lesson page. It is driven from a single
// goroutine; the only asynchronous step is sending a receipt, which is
// split into BeginReceipt and CompleteReceipt.
type View struct {
	deps   Deps
	id     string
	lesson curriculum.Lesson
	prev   *curriculum.Lesson
	next   *curriculum.Lesson
	quiz   *quiz.Session
	state  progress.State
	busy   bool

	// signature of the last receipt the network accepted
	signature string
}

// Open loads the lesson and the identity's progress. A missing lesson is
// returned as a curriculum.NotFoundError.
func Open(ctx context.Context, deps Deps, track curriculum.TrackID, lessonID string) (*View, error) {
	l, err := deps.Curriculum.FindLesson(track, lessonID)
	if err != nil {
		return nil, err
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = deps.Progress.Clock()
	}

	v := &View{
		deps:   deps,
		id:     uuid.NewString(),
		lesson: l,
		quiz:   quiz.NewSession(l.Quiz),
		state:  deps.Progress.Load(ctx, deps.Identity),
	}
	v.prev, v.next = deps.Curriculum.Neighbors(track, lessonID)

	v.record(ctx, store.LessonEventData{Kind: EventOpened})
	if err := v.syncChecklist(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

// ViewID correlates the events of this view.
func (v *View) ViewID() string { return v.id }

func (v *View) Lesson() curriculum.Lesson { return v.lesson }

func (v *View) Quiz() *quiz.Session { return v.quiz }

// State returns the in-memory progress record.
func (v *View) State() progress.State { return v.state }

// Identity returns the identity whose record this view reads and writes.
func (v *View) Identity() string { return v.deps.Identity }

// Prev and Next return the neighboring lessons in the track, or nil.
func (v *View) Prev() *curriculum.Lesson { return v.prev }

func (v *View) Next() *curriculum.Lesson { return v.next }

// Completed reports whether the lesson is marked complete.
func (v *View) Completed() bool {
	return progress.IsLessonCompleted(v.state, v.lesson.Track, v.lesson.ID)
}

// QuizPassed reports whether the lesson quiz is marked passed.
func (v *View) QuizPassed() bool {
	return progress.IsQuizPassed(v.state, v.lesson.Track, v.lesson.ID)
}

// Select records a choice and persists the checklist if it changed.
func (v *View) Select(ctx context.Context, questionID, choiceID string) error {
	if err := v.quiz.Select(questionID, choiceID); err != nil {
		return err
	}
	return v.syncChecklist(ctx)
}

// Submit grades one question and persists the checklist if it changed.
func (v *View) Submit(ctx context.Context, questionID string) (quiz.Outcome, error) {
	out, err := v.quiz.Submit(questionID)
	if err != nil {
		return out, err
	}
	v.record(ctx, store.LessonEventData{
		Kind:       EventSubmitted,
		QuestionID: out.QuestionID,
		ChoiceID:   out.ChoiceID,
		Correct:    out.Correct,
	})
	return out, v.syncChecklist(ctx)
}

// Checklist derives [read, all-submitted, all-correct-or-done] from the
// stored first step and the live quiz.
func (v *View) Checklist() []bool {
	stored := progress.GetChecklist(v.state, v.lesson.Track, v.lesson.ID)
	read := true
	if len(stored) > 0 {
		read = stored[progress.StepRead]
	}
	return []bool{read, v.quiz.AllSubmitted(), v.quiz.AllCorrect() || v.Completed()}
}

func (v *View) syncChecklist(ctx context.Context) error {
	want := v.Checklist()
	if progress.ChecklistEqual(want, progress.GetChecklist(v.state, v.lesson.Track, v.lesson.ID)) {
		return nil
	}
	next := progress.SetChecklist(v.state, v.lesson.Track, v.lesson.ID, want, v.deps.Clock)
	if err := v.deps.Progress.Save(ctx, v.deps.Identity, next); err != nil {
		return fmt.Errorf("save checklist: %w", err)
	}
	v.state = next
	return nil
}

// Finish marks the quiz passed and the lesson complete, then persists.
// It fails with a *quiz.PreconditionError, leaving progress untouched,
// unless every question is submitted and correct.
func (v *View) Finish(ctx context.Context) error {
	if err := v.quiz.Gate(); err != nil {
		return err
	}
	before := v.state.XP
	if err := v.complete(ctx); err != nil {
		return err
	}
	v.record(ctx, store.LessonEventData{Kind: EventCompleted, XP: v.state.XP - before})
	return v.syncChecklist(ctx)
}

func (v *View) complete(ctx context.Context) error {
	next := progress.MarkQuizPassed(v.state, v.lesson.Track, v.lesson.ID, v.deps.Clock)
	next = progress.MarkLessonComplete(next, v.lesson.Track, v.lesson.ID, v.deps.Clock)
	if err := v.deps.Progress.Save(ctx, v.deps.Identity, next); err != nil {
		return fmt.Errorf("complete lesson: %w", err)
	}
	v.state = next
	return nil
}

func (v *View) record(ctx context.Context, e store.LessonEventData) {
	if v.deps.Events == nil {
		return
	}
	e.ViewID = v.id
	e.Wallet = v.deps.Identity
	e.Track = string(v.lesson.Track)
	e.LessonID = v.lesson.ID
	if err := v.deps.Events.AppendLessonEvent(ctx, e); err != nil {
		v.deps.Logger.Warn("lesson event not recorded",
			zap.String("kind", e.Kind),
			zap.String("view_id", v.id),
			zap.Error(err),
		)
	}
}
