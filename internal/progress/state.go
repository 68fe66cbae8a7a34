package progress

import (
	"strings"
	"time"

	"github.com/st-academy/academy/internal/curriculum"
)

// XPPerLesson is awarded the first time a lesson is completed.
const XPPerLesson = 100

// TimestampLayout is the ISO-8601 form written to updatedAt.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// State is the learner's persisted progress record. The JSON shape is the
// storage format and must stay stable.
type State struct {
	CompletedLessons map[string]bool   `json:"completedLessons"`
	QuizPassed       map[string]bool   `json:"quizPassed"`
	Checklist        map[string][]bool `json:"checklist"`
	XP               int               `json:"xp"`
	UpdatedAt        string            `json:"updatedAt"`
}

// Clock returns the current time. Mutations take one so tests can pin it.
type Clock func() time.Time

// New returns an empty state stamped with now.
func New(now Clock) State {
	return State{
		CompletedLessons: map[string]bool{},
		QuizPassed:       map[string]bool{},
		Checklist:        map[string][]bool{},
		UpdatedAt:        stamp(now),
	}
}

// Key builds the composite "<track>:<lessonID>" key. All per-lesson maps
// use it.
func Key(track curriculum.TrackID, lessonID string) string {
	return string(track) + ":" + lessonID
}

// SplitKey inverts Key. Lesson IDs may contain ':'; the track never does.
func SplitKey(key string) (curriculum.TrackID, string, bool) {
	track, lessonID, ok := strings.Cut(key, ":")
	if !ok {
		return "", "", false
	}
	return curriculum.TrackID(track), lessonID, true
}

func stamp(now Clock) string {
	if now == nil {
		now = time.Now
	}
	return now().UTC().Format(TimestampLayout)
}

// clone deep-copies every map so callers can mutate the result freely.
func (s State) clone() State {
	out := s
	out.CompletedLessons = cloneBools(s.CompletedLessons)
	out.QuizPassed = cloneBools(s.QuizPassed)
	out.Checklist = make(map[string][]bool, len(s.Checklist))
	for k, v := range s.Checklist {
		out.Checklist[k] = append([]bool(nil), v...)
	}
	return out
}

func cloneBools(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// normalize fills nil maps, clamps XP and stamps a missing updatedAt.
func (s State) normalize(now Clock) State {
	if s.CompletedLessons == nil {
		s.CompletedLessons = map[string]bool{}
	}
	if s.QuizPassed == nil {
		s.QuizPassed = map[string]bool{}
	}
	if s.Checklist == nil {
		s.Checklist = map[string][]bool{}
	}
	if s.XP < 0 {
		s.XP = 0
	}
	if s.UpdatedAt == "" {
		s.UpdatedAt = stamp(now)
	}
	return s
}
