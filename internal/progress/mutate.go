package progress

import "github.com/st-academy/academy/internal/curriculum"

// MarkLessonComplete records the lesson as completed. XP is awarded only on
// the first completion; repeating the call refreshes updatedAt and nothing
// else. The input state is not modified.
func MarkLessonComplete(s State, track curriculum.TrackID, lessonID string, now Clock) State {
	out := s.clone()
	key := Key(track, lessonID)
	if !out.CompletedLessons[key] {
		out.CompletedLessons[key] = true
		out.XP += XPPerLesson
	}
	out.UpdatedAt = stamp(now)
	return out
}

// MarkQuizPassed records the lesson's quiz as passed. No XP is awarded.
func MarkQuizPassed(s State, track curriculum.TrackID, lessonID string, now Clock) State {
	out := s.clone()
	out.QuizPassed[Key(track, lessonID)] = true
	out.UpdatedAt = stamp(now)
	return out
}

// IsQuizPassed reports whether the lesson's quiz has been passed.
func IsQuizPassed(s State, track curriculum.TrackID, lessonID string) bool {
	return s.QuizPassed[Key(track, lessonID)]
}

// IsLessonCompleted reports whether the lesson has been completed.
func IsLessonCompleted(s State, track curriculum.TrackID, lessonID string) bool {
	return s.CompletedLessons[Key(track, lessonID)]
}

// CompletedCount returns how many of lessons are completed.
func CompletedCount(s State, lessons []curriculum.Lesson) int {
	n := 0
	for _, l := range lessons {
		if IsLessonCompleted(s, l.Track, l.ID) {
			n++
		}
	}
	return n
}

// TrackPercent returns the completed fraction of lessons in [0, 1].
func TrackPercent(s State, lessons []curriculum.Lesson) float64 {
	if len(lessons) == 0 {
		return 0
	}
	return float64(CompletedCount(s, lessons)) / float64(len(lessons))
}
