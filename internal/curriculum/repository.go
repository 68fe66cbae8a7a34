package curriculum

// Repository is read-only access to the curriculum catalog.
type Repository interface {
	// Tracks returns every track in catalog order.
	Tracks() []Track

	// Track returns the metadata for id.
	Track(id TrackID) (Track, error)

	// LessonsByTrack returns the lessons of a track in authored order.
	// Unknown tracks yield an empty slice.
	LessonsByTrack(track TrackID) []Lesson

	// FindLesson returns the single lesson matching both track and lesson ID.
	// Fails with an error wrapping ErrNotFound.
	FindLesson(track TrackID, lessonID string) (Lesson, error)

	// FirstLessonID returns the first lesson's ID, or "" for an empty track.
	FirstLessonID(track TrackID) string

	// Neighbors returns the lessons before and after lessonID in its track.
	Neighbors(track TrackID, lessonID string) (prev, next *Lesson)
}

// Static is an in-memory Repository built once from a fixed lesson list.
type Static struct {
	tracks  []Track
	byTrack map[TrackID][]Lesson
	index   map[TrackID]map[string]int
}

var _ Repository = (*Static)(nil)

// NewStatic validates lessons and indexes them by track. Lesson order within
// a track follows the input order.
func NewStatic(tracks []Track, lessons []Lesson) (*Static, error) {
	if err := Validate(tracks, lessons); err != nil {
		return nil, err
	}

	s := &Static{
		tracks:  append([]Track(nil), tracks...),
		byTrack: make(map[TrackID][]Lesson),
		index:   make(map[TrackID]map[string]int),
	}
	for _, l := range lessons {
		if s.index[l.Track] == nil {
			s.index[l.Track] = make(map[string]int)
		}
		s.index[l.Track][l.ID] = len(s.byTrack[l.Track])
		s.byTrack[l.Track] = append(s.byTrack[l.Track], l.clone())
	}
	return s, nil
}

func (s *Static) Tracks() []Track {
	return append([]Track(nil), s.tracks...)
}

func (s *Static) Track(id TrackID) (Track, error) {
	for _, t := range s.tracks {
		if t.ID == id {
			return t, nil
		}
	}
	return Track{}, &NotFoundError{Track: id}
}

func (s *Static) LessonsByTrack(track TrackID) []Lesson {
	src := s.byTrack[track]
	out := make([]Lesson, len(src))
	for i, l := range src {
		out[i] = l.clone()
	}
	return out
}

func (s *Static) FindLesson(track TrackID, lessonID string) (Lesson, error) {
	i, ok := s.index[track][lessonID]
	if !ok {
		return Lesson{}, &NotFoundError{Track: track, LessonID: lessonID}
	}
	return s.byTrack[track][i].clone(), nil
}

func (s *Static) FirstLessonID(track TrackID) string {
	if lessons := s.byTrack[track]; len(lessons) > 0 {
		return lessons[0].ID
	}
	return ""
}

func (s *Static) Neighbors(track TrackID, lessonID string) (prev, next *Lesson) {
	i, ok := s.index[track][lessonID]
	if !ok {
		return nil, nil
	}
	lessons := s.byTrack[track]
	if i > 0 {
		p := lessons[i-1].clone()
		prev = &p
	}
	if i < len(lessons)-1 {
		n := lessons[i+1].clone()
		next = &n
	}
	return prev, next
}
