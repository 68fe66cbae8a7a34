package progress

import "github.com/st-academy/academy/internal/curriculum"

// Checklist step indices.
const (
	StepRead = iota
	StepAllSubmitted
	StepAllCorrect
)

// ChecklistLabels are the display labels for each step.
var ChecklistLabels = []string{
	"Read the lesson",
	"Submit all quiz questions",
	"Get all answers correct (to finish)",
}

// GetChecklist returns a copy of the stored steps for a lesson, or an empty
// slice when nothing is stored.
func GetChecklist(s State, track curriculum.TrackID, lessonID string) []bool {
	steps, ok := s.Checklist[Key(track, lessonID)]
	if !ok {
		return []bool{}
	}
	return append([]bool{}, steps...)
}

// SetChecklist replaces the stored steps for a lesson and refreshes
// updatedAt.
func SetChecklist(s State, track curriculum.TrackID, lessonID string, steps []bool, now Clock) State {
	out := s.clone()
	out.Checklist[Key(track, lessonID)] = append([]bool{}, steps...)
	out.UpdatedAt = stamp(now)
	return out
}

// ChecklistEqual reports element-wise equality.
func ChecklistEqual(a, b []bool) bool {
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
