// Package quiz implements per-lesson grading: selection, submission and
// the aggregate predicates that gate lesson completion.
package quiz

import (
	"errors"
	"fmt"

	"github.com/st-academy/academy/internal/curriculum"
)

var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrUnknownChoice   = errors.New("unknown choice")
	ErrNoSelection     = errors.New("no choice selected")
)

// Status is the grading state of one question.
type Status int

const (
	Unanswered Status = iota
	Answered
	SubmittedCorrect
	SubmittedIncorrect
)

func (s Status) String() string {
	switch s {
	case Unanswered:
		return "unanswered"
	case Answered:
		return "answered"
	case SubmittedCorrect:
		return "correct"
	case SubmittedIncorrect:
		return "incorrect"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Submitted reports whether s is one of the submitted states.
func (s Status) Submitted() bool {
	return s == SubmittedCorrect || s == SubmittedIncorrect
}

// Outcome is the result of a single submission.
type Outcome struct {
	QuestionID string
	ChoiceID   string
	Correct    bool
}

// Session holds the ephemeral answers for one lesson view. It is owned by
// a single view and is not safe for concurrent use.
type Session struct {
	questions []curriculum.QuizQuestion
	index     map[string]int
	answers   map[string]string
	submitted map[string]bool
}

// NewSession starts a fresh session over the given questions.
func NewSession(questions []curriculum.QuizQuestion) *Session {
	s := &Session{
		questions: questions,
		index:     make(map[string]int, len(questions)),
		answers:   make(map[string]string, len(questions)),
		submitted: make(map[string]bool, len(questions)),
	}
	for i, q := range questions {
		s.index[q.ID] = i
	}
	return s
}

// Questions returns the questions in authored order.
func (s *Session) Questions() []curriculum.QuizQuestion {
	return s.questions
}

func (s *Session) question(id string) (curriculum.QuizQuestion, error) {
	i, ok := s.index[id]
	if !ok {
		return curriculum.QuizQuestion{}, fmt.Errorf("question %q: %w", id, ErrUnknownQuestion)
	}
	return s.questions[i], nil
}

// Select records choiceID as the answer to questionID. Any earlier
// submission of that question is revoked.
func (s *Session) Select(questionID, choiceID string) error {
	q, err := s.question(questionID)
	if err != nil {
		return err
	}
	if _, ok := q.Choice(choiceID); !ok {
		return fmt.Errorf("question %q choice %q: %w", questionID, choiceID, ErrUnknownChoice)
	}
	s.answers[questionID] = choiceID
	s.submitted[questionID] = false
	return nil
}

// Submit grades the current selection for questionID.
func (s *Session) Submit(questionID string) (Outcome, error) {
	q, err := s.question(questionID)
	if err != nil {
		return Outcome{}, err
	}
	choiceID, ok := s.answers[questionID]
	if !ok {
		return Outcome{}, fmt.Errorf("question %q: %w", questionID, ErrNoSelection)
	}
	s.submitted[questionID] = true
	return Outcome{
		QuestionID: questionID,
		ChoiceID:   choiceID,
		Correct:    q.IsCorrect(choiceID),
	}, nil
}

// Selected returns the current selection for questionID.
func (s *Session) Selected(questionID string) (string, bool) {
	c, ok := s.answers[questionID]
	return c, ok
}

// Status returns the grading state of questionID. Unknown questions
// report Unanswered.
func (s *Session) Status(questionID string) Status {
	q, err := s.question(questionID)
	if err != nil {
		return Unanswered
	}
	choiceID, ok := s.answers[questionID]
	switch {
	case !ok:
		return Unanswered
	case !s.submitted[questionID]:
		return Answered
	case q.IsCorrect(choiceID):
		return SubmittedCorrect
	default:
		return SubmittedIncorrect
	}
}

// AllSubmitted reports whether every question is in a submitted state.
func (s *Session) AllSubmitted() bool {
	for _, q := range s.questions {
		if !s.Status(q.ID).Submitted() {
			return false
		}
	}
	return true
}

// AllCorrect reports whether every question is submitted and correct.
func (s *Session) AllCorrect() bool {
	for _, q := range s.questions {
		if s.Status(q.ID) != SubmittedCorrect {
			return false
		}
	}
	return true
}

// CanFinish reports whether the completion gate is open.
func (s *Session) CanFinish() bool {
	return s.AllSubmitted() && s.AllCorrect()
}

// Gate returns nil when the lesson may be finished, or a
// *PreconditionError naming the first failed precondition.
func (s *Session) Gate() error {
	if !s.AllSubmitted() {
		return &PreconditionError{Reason: NotAllSubmitted}
	}
	if !s.AllCorrect() {
		return &PreconditionError{Reason: SomeIncorrect}
	}
	return nil
}

// Counts returns how many questions are submitted and how many of those
// are correct.
func (s *Session) Counts() (submitted, correct int) {
	for _, q := range s.questions {
		switch s.Status(q.ID) {
		case SubmittedCorrect:
			submitted++
			correct++
		case SubmittedIncorrect:
			submitted++
		}
	}
	return submitted, correct
}
