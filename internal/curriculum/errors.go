package curriculum

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a track or lesson does not exist.
var ErrNotFound = errors.New("not found")

// NotFoundError identifies the lesson that could not be resolved.
type NotFoundError struct {
	Track    TrackID
	LessonID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("lesson %s:%s not found", e.Track, e.LessonID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
