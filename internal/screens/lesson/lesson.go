package lesson

import (
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/st-academy/academy/internal/curriculum"
	lsn "github.com/st-academy/academy/internal/lesson"
	"github.com/st-academy/academy/internal/quiz"
	"github.com/st-academy/academy/internal/router"
	"github.com/st-academy/academy/internal/screen"
	"github.com/st-academy/academy/internal/tutor"
	"github.com/st-academy/academy/internal/ui/components"
	"github.com/st-academy/academy/internal/ui/layout"
)

// LessonScreen is the lesson page: body, optional animation, quiz,
// checklist and the finish and receipt actions.
type LessonScreen struct {
	env      *screen.Env
	track    curriculum.TrackID
	lessonID string

	view    *lsn.View
	openErr error

	choices []components.MultiChoice
	focus   int
	stepper *components.Stepper

	explanations map[string]*tutor.Explanation
	explaining   map[string]bool

	status     string
	statusKind statusKind
	signature  string

	offset      int
	followFocus bool
}

var (
	_ screen.Screen          = (*LessonScreen)(nil)
	_ screen.KeyHintProvider = (*LessonScreen)(nil)
	_ screen.BackGuard       = (*LessonScreen)(nil)
)

// New opens lessonID in track for the env's current identity.
func New(env *screen.Env, track curriculum.TrackID, lessonID string) *LessonScreen {
	s := &LessonScreen{
		env:          env,
		track:        track,
		lessonID:     lessonID,
		explanations: make(map[string]*tutor.Explanation),
		explaining:   make(map[string]bool),
	}

	v, err := lsn.Open(env.Context(), env.LessonDeps(), track, lessonID)
	if err != nil {
		s.openErr = err
		return s
	}
	s.view = v

	l := v.Lesson()
	for _, q := range l.Quiz {
		opts := make([]components.ChoiceOption, len(q.Choices))
		for i, c := range q.Choices {
			opts[i] = components.ChoiceOption{ID: c.ID, Label: components.Sanitize(c.Label)}
		}
		s.choices = append(s.choices, components.NewMultiChoice(q.ID, components.Sanitize(q.Prompt), opts, q.CorrectChoiceID))
	}
	if l.Animation != nil && len(l.Animation.Steps) > 0 {
		steps := make([]components.StepperStep, len(l.Animation.Steps))
		for i, st := range l.Animation.Steps {
			steps[i] = components.StepperStep{Title: st.Title, Description: st.Description}
		}
		st := components.NewStepper(l.Animation.Title, steps)
		s.stepper = &st
	}
	s.syncChoices()
	return s
}

func (s *LessonScreen) Init() tea.Cmd {
	return nil
}

func (s *LessonScreen) Title() string {
	if s.view == nil {
		return "Lesson"
	}
	return components.Sanitize(s.view.Lesson().Title)
}

func (s *LessonScreen) CanGoBack() bool {
	return s.view == nil || !s.view.Busy()
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Question"},
		{Key: "↑↓/1-9", Description: "Choose"},
		{Key: "s", Description: "Submit"},
		{Key: "f", Description: "Finish"},
		{Key: "r", Description: "Receipt"},
	}
	if s.env.Tutor != nil {
		hints = append(hints, layout.KeyHint{Key: "e", Description: "Explain"})
	}
	if s.stepper != nil {
		hints = append(hints, layout.KeyHint{Key: "a", Description: "Step"})
	}
	return append(hints,
		layout.KeyHint{Key: "n/p", Description: "Next/Prev"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

// syncChoices copies selection and submission state from the quiz session
// into the rendered questions.
func (s *LessonScreen) syncChoices() {
	qs := s.view.Quiz()
	for i := range s.choices {
		id := s.choices[i].QuestionID
		sel, _ := qs.Selected(id)
		s.choices[i].Selected = sel
		s.choices[i].Submitted = qs.Status(id).Submitted()
	}
}

func (s *LessonScreen) setStatus(kind statusKind, msg string) {
	s.statusKind = kind
	s.status = msg
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.view == nil {
		return s, nil
	}

	switch msg := msg.(type) {
	case components.ChoiceSelectedMsg:
		return s.handleSelect(msg)
	case receiptSentMsg:
		return s.handleReceiptSent(msg)
	case explainedMsg:
		return s.handleExplained(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *LessonScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab":
		if len(s.choices) > 0 {
			s.focus = (s.focus + 1) % len(s.choices)
			s.followFocus = true
		}
		return s, nil
	case "shift+tab":
		if len(s.choices) > 0 {
			s.focus = (s.focus - 1 + len(s.choices)) % len(s.choices)
			s.followFocus = true
		}
		return s, nil
	case "pgdown", "ctrl+d":
		s.offset += 10
		s.followFocus = false
		return s, nil
	case "pgup", "ctrl+u":
		s.offset -= 10
		if s.offset < 0 {
			s.offset = 0
		}
		s.followFocus = false
		return s, nil
	case "s":
		return s.submitFocused()
	case "f":
		return s.finish()
	case "r":
		return s.emitReceipt()
	case "e":
		return s.explainFocused()
	case "a":
		if s.stepper != nil {
			next := s.stepper.Next()
			s.stepper = &next
		}
		return s, nil
	case "A", "shift+a":
		if s.stepper != nil {
			prev := s.stepper.Prev()
			s.stepper = &prev
		}
		return s, nil
	case "n":
		return s.navigate(s.view.Next())
	case "p":
		return s.navigate(s.view.Prev())
	}

	if len(s.choices) == 0 {
		return s, nil
	}
	var cmd tea.Cmd
	s.choices[s.focus], cmd = s.choices[s.focus].Update(msg)
	s.followFocus = true
	return s, cmd
}

func (s *LessonScreen) handleSelect(msg components.ChoiceSelectedMsg) (screen.Screen, tea.Cmd) {
	s.signature = ""
	if err := s.view.Select(s.env.Context(), msg.QuestionID, msg.ChoiceID); err != nil {
		s.syncChoices()
		s.setStatus(statusError, err.Error())
		return s, nil
	}
	delete(s.explanations, msg.QuestionID)
	s.setStatus(statusInfo, "")
	s.syncChoices()
	return s, nil
}

func (s *LessonScreen) focusedQuestion() (curriculum.QuizQuestion, bool) {
	if len(s.choices) == 0 {
		return curriculum.QuizQuestion{}, false
	}
	return s.view.Lesson().Question(s.choices[s.focus].QuestionID)
}

func (s *LessonScreen) submitFocused() (screen.Screen, tea.Cmd) {
	q, ok := s.focusedQuestion()
	if !ok {
		return s, nil
	}
	s.signature = ""
	out, err := s.view.Submit(s.env.Context(), q.ID)
	switch {
	case errors.Is(err, quiz.ErrNoSelection):
		s.setStatus(statusError, "Choose an answer before submitting.")
		return s, nil
	case err != nil:
		s.syncChoices()
		s.setStatus(statusError, err.Error())
		return s, nil
	}
	s.syncChoices()
	if out.Correct {
		s.setStatus(statusSuccess, "Correct!")
		if s.focus < len(s.choices)-1 {
			s.focus++
			s.followFocus = true
		}
	} else {
		s.setStatus(statusError, quiz.FeedbackIncorrect)
	}
	return s, nil
}

func (s *LessonScreen) finish() (screen.Screen, tea.Cmd) {
	s.signature = ""
	before := s.view.State().XP
	if err := s.view.Finish(s.env.Context()); err != nil {
		s.setStatus(statusError, quiz.UserMessage(err))
		return s, nil
	}
	gained := s.view.State().XP - before
	if gained > 0 {
		s.setStatus(statusSuccess, fmt.Sprintf("Lesson complete! +%d XP", gained))
	} else {
		s.setStatus(statusSuccess, "Lesson complete.")
	}
	return s, screen.ProgressChanged
}

func (s *LessonScreen) emitReceipt() (screen.Screen, tea.Cmd) {
	s.signature = ""
	req, err := s.view.BeginReceipt()
	if err != nil {
		s.setStatus(statusError, quiz.UserMessage(err))
		return s, nil
	}
	s.setStatus(statusInfo, "Emitting devnet receipt…")

	ctx, view, id := s.env.Context(), s.view, s.view.ViewID()
	return s, func() tea.Msg {
		sig, err := view.Send(ctx, req)
		return receiptSentMsg{viewID: id, signature: sig, err: err}
	}
}

func (s *LessonScreen) handleReceiptSent(msg receiptSentMsg) (screen.Screen, tea.Cmd) {
	if msg.viewID != s.view.ViewID() {
		return s, nil
	}
	err := s.view.CompleteReceipt(s.env.Context(), msg.signature, msg.err)
	s.signature = s.view.Signature()
	switch {
	case err != nil && s.signature != "":
		s.setStatus(statusError, "Receipt recorded on devnet, but progress was not saved: "+err.Error())
		return s, nil
	case err != nil:
		s.setStatus(statusError, err.Error())
		return s, nil
	}
	s.setStatus(statusSuccess, "Receipt recorded on devnet.")
	return s, screen.ProgressChanged
}

func (s *LessonScreen) explainFocused() (screen.Screen, tea.Cmd) {
	if s.env.Tutor == nil {
		s.setStatus(statusInfo, "No tutor configured. Set an LLM API key to enable explanations.")
		return s, nil
	}
	q, ok := s.focusedQuestion()
	if !ok {
		return s, nil
	}
	if s.view.Quiz().Status(q.ID) != quiz.SubmittedIncorrect {
		s.setStatus(statusInfo, "Submit a wrong answer first to get an explanation.")
		return s, nil
	}
	if s.explaining[q.ID] {
		return s, nil
	}
	chosen, _ := s.view.Quiz().Selected(q.ID)
	s.explaining[q.ID] = true
	s.setStatus(statusInfo, "Asking the tutor…")

	ctx, tut, id := s.env.Context(), s.env.Tutor, s.view.ViewID()
	in := tutor.Input{Lesson: s.view.Lesson(), Question: q, ChoiceID: chosen}
	return s, func() tea.Msg {
		exp, err := tut.Explain(ctx, in)
		return explainedMsg{viewID: id, questionID: in.Question.ID, explanation: exp, err: err}
	}
}

func (s *LessonScreen) handleExplained(msg explainedMsg) (screen.Screen, tea.Cmd) {
	if msg.viewID != s.view.ViewID() {
		return s, nil
	}
	delete(s.explaining, msg.questionID)
	if msg.err != nil {
		if s.env.Logger != nil {
			s.env.Logger.Warn("tutor explanation failed", zap.String("question", msg.questionID), zap.Error(msg.err))
		}
		s.setStatus(statusError, "The tutor is unavailable right now.")
		return s, nil
	}
	// A newer selection makes the explanation stale.
	if s.view.Quiz().Status(msg.questionID) != quiz.SubmittedIncorrect {
		return s, nil
	}
	s.explanations[msg.questionID] = msg.explanation
	s.setStatus(statusInfo, "")
	return s, nil
}

func (s *LessonScreen) navigate(to *curriculum.Lesson) (screen.Screen, tea.Cmd) {
	if to == nil {
		return s, nil
	}
	if s.view.Busy() {
		s.setStatus(statusInfo, "Wait for the receipt to finish.")
		return s, nil
	}
	next := New(s.env, to.Track, to.ID)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}
