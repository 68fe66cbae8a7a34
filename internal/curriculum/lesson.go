package curriculum

// Lesson is a unit of content plus its quiz.
type Lesson struct {
	ID        string         `yaml:"id"`
	Track     TrackID        `yaml:"track"`
	Title     string         `yaml:"title"`
	Minutes   int            `yaml:"minutes"`
	Animation *Animation     `yaml:"animation,omitempty"`
	Content   Content        `yaml:"content"`
	Quiz      []QuizQuestion `yaml:"quiz"`
}

// Content holds the lesson body in the restricted markdown dialect.
type Content struct {
	Markdown string    `yaml:"md"`
	Callouts []Callout `yaml:"callouts,omitempty"`

	// DiscussionPrompt invites a short written reflection. Empty means
	// DefaultDiscussionPrompt.
	DiscussionPrompt string `yaml:"discussionPrompt,omitempty"`
}

// DefaultDiscussionPrompt is shown for lessons without their own prompt.
const DefaultDiscussionPrompt = "Write a short takeaway: what would you build with this concept?"

// Discussion returns the lesson's discussion prompt.
func (l Lesson) Discussion() string {
	if l.Content.DiscussionPrompt != "" {
		return l.Content.DiscussionPrompt
	}
	return DefaultDiscussionPrompt
}

// Callout is a titled aside shown below the lesson body.
type Callout struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Animation is a titled sequence of steps illustrating the lesson concept.
// Lessons may carry only a title with no steps.
type Animation struct {
	Title string `yaml:"title"`
	Steps []Step `yaml:"steps,omitempty"`
}

// Step is one frame of an Animation.
type Step struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// QuizQuestion is a single multiple-choice question.
type QuizQuestion struct {
	ID              string   `yaml:"id"`
	Prompt          string   `yaml:"prompt"`
	Choices         []Choice `yaml:"choices"`
	CorrectChoiceID string   `yaml:"correctChoiceId"`
	Explanation     string   `yaml:"explanation"`
}

// Choice is one answer option.
type Choice struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// Choice returns the choice with the given ID.
func (q QuizQuestion) Choice(id string) (Choice, bool) {
	for _, c := range q.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// IsCorrect reports whether choiceID is the correct answer.
func (q QuizQuestion) IsCorrect(choiceID string) bool {
	return choiceID != "" && choiceID == q.CorrectChoiceID
}

// Question returns the quiz question with the given ID.
func (l Lesson) Question(id string) (QuizQuestion, bool) {
	for _, q := range l.Quiz {
		if q.ID == id {
			return q, true
		}
	}
	return QuizQuestion{}, false
}

func (l Lesson) clone() Lesson {
	out := l
	if l.Animation != nil {
		a := *l.Animation
		a.Steps = append([]Step(nil), l.Animation.Steps...)
		out.Animation = &a
	}
	out.Content.Callouts = append([]Callout(nil), l.Content.Callouts...)
	out.Quiz = make([]QuizQuestion, len(l.Quiz))
	for i, q := range l.Quiz {
		q.Choices = append([]Choice(nil), q.Choices...)
		out.Quiz[i] = q
	}
	return out
}
