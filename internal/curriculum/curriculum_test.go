package curriculum

import (
	"errors"
	"strings"
	"testing"
)

func mustDefault(t *testing.T) *Static {
	t.Helper()
	repo, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	return repo
}

func TestDiscussionPrompt(t *testing.T) {
	repo := mustDefault(t)

	l, err := repo.FindLesson(TrackBeginner101, "m2-identity-and-authentication")
	if err != nil {
		t.Fatal(err)
	}
	if got := l.Discussion(); !strings.HasPrefix(got, "Which action in an app") {
		t.Errorf("Discussion() = %q, want lesson prompt", got)
	}

	l, err = repo.FindLesson(TrackBeginner101, "m1-blockchain-as-a-computer")
	if err != nil {
		t.Fatal(err)
	}
	if got := l.Discussion(); got != DefaultDiscussionPrompt {
		t.Errorf("Discussion() = %q, want default", got)
	}
}

func TestDefaultCatalog(t *testing.T) {
	repo := mustDefault(t)

	lessons := repo.LessonsByTrack(TrackBeginner101)
	if len(lessons) != 7 {
		t.Fatalf("len(lessons) = %d, want 7", len(lessons))
	}
	if lessons[0].ID != "m1-blockchain-as-a-computer" {
		t.Errorf("first lesson = %q", lessons[0].ID)
	}
	if lessons[6].ID != "m7-coding-with-claude" {
		t.Errorf("last lesson = %q", lessons[6].ID)
	}
	for _, l := range lessons {
		if len(l.Quiz) != 5 {
			t.Errorf("lesson %s has %d questions, want 5", l.ID, len(l.Quiz))
		}
		if l.Content.Markdown == "" {
			t.Errorf("lesson %s has empty markdown", l.ID)
		}
	}
}

func TestFirstLessonID(t *testing.T) {
	repo := mustDefault(t)
	if got := repo.FirstLessonID(TrackBeginner101); got != "m1-blockchain-as-a-computer" {
		t.Errorf("FirstLessonID = %q", got)
	}
	if got := repo.FirstLessonID("intermediate"); got != "" {
		t.Errorf("FirstLessonID(unknown) = %q, want empty", got)
	}
}

func TestFindLessonNotFound(t *testing.T) {
	repo := mustDefault(t)

	tests := []struct {
		track  TrackID
		lesson string
	}{
		{TrackBeginner101, "m99"},
		{"intermediate", "m1-blockchain-as-a-computer"},
		{"", ""},
	}
	for _, tt := range tests {
		_, err := repo.FindLesson(tt.track, tt.lesson)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("FindLesson(%q, %q) error = %v, want ErrNotFound", tt.track, tt.lesson, err)
		}
		var nf *NotFoundError
		if !errors.As(err, &nf) || nf.LessonID != tt.lesson {
			t.Errorf("expected NotFoundError for %q, got %v", tt.lesson, err)
		}
	}
}

func TestFindLessonReturnsCopy(t *testing.T) {
	repo := mustDefault(t)

	l, err := repo.FindLesson(TrackBeginner101, "m2-identity-and-authentication")
	if err != nil {
		t.Fatalf("FindLesson: %v", err)
	}
	l.Quiz[0].CorrectChoiceID = "zzz"
	l.Content.Callouts[0].Title = "mutated"

	again, _ := repo.FindLesson(TrackBeginner101, "m2-identity-and-authentication")
	if again.Quiz[0].CorrectChoiceID == "zzz" {
		t.Error("catalog quiz mutated through returned lesson")
	}
	if again.Content.Callouts[0].Title == "mutated" {
		t.Error("catalog callouts mutated through returned lesson")
	}
}

func TestNeighbors(t *testing.T) {
	repo := mustDefault(t)

	prev, next := repo.Neighbors(TrackBeginner101, "m1-blockchain-as-a-computer")
	if prev != nil {
		t.Errorf("first lesson prev = %q, want nil", prev.ID)
	}
	if next == nil || next.ID != "m2-identity-and-authentication" {
		t.Errorf("first lesson next = %v", next)
	}

	prev, next = repo.Neighbors(TrackBeginner101, "m7-coding-with-claude")
	if prev == nil || prev.ID != "m6-environment-setup-minimal" {
		t.Errorf("last lesson prev = %v", prev)
	}
	if next != nil {
		t.Errorf("last lesson next = %q, want nil", next.ID)
	}

	prev, next = repo.Neighbors(TrackBeginner101, "missing")
	if prev != nil || next != nil {
		t.Error("unknown lesson should have no neighbors")
	}
}

func TestParseTrackID(t *testing.T) {
	if id, err := ParseTrackID("beginner101"); err != nil || id != TrackBeginner101 {
		t.Errorf("ParseTrackID(beginner101) = %q, %v", id, err)
	}
	for _, s := range []string{"", "Beginner101", "beginner102", "beginner101 "} {
		if _, err := ParseTrackID(s); !errors.Is(err, ErrNotFound) {
			t.Errorf("ParseTrackID(%q) error = %v, want ErrNotFound", s, err)
		}
	}
}

func TestValidateRejectsAmbiguousCorrectChoice(t *testing.T) {
	tracks := []Track{{ID: TrackBeginner101, Title: "B"}}

	tests := []struct {
		name    string
		choices []Choice
		correct string
		wantErr string
	}{
		{"no match", []Choice{{ID: "a"}, {ID: "b"}}, "c", "matches 0 choices"},
		{"duplicate match", []Choice{{ID: "a"}, {ID: "a"}}, "a", "duplicate choice ID"},
		{"exactly one", []Choice{{ID: "a"}, {ID: "b"}}, "b", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lessons := []Lesson{{
				ID:    "l1",
				Track: TrackBeginner101,
				Quiz:  []QuizQuestion{{ID: "q1", Choices: tt.choices, CorrectChoiceID: tt.correct}},
			}}
			_, err := NewStatic(tracks, lessons)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRejectsUnknownTrackAndDuplicates(t *testing.T) {
	tracks := []Track{{ID: TrackBeginner101}, {ID: "advanced"}}
	lessons := []Lesson{
		{ID: "l1", Track: TrackBeginner101},
		{ID: "l1", Track: TrackBeginner101},
		{ID: "l2", Track: "ghost"},
	}
	err := Validate(tracks, lessons)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{`track "advanced" is not in the track catalog`, "duplicate lesson ID", `unknown track "ghost"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q:\n%v", want, err)
		}
	}
}

func TestParseRejectsWrongVersion(t *testing.T) {
	_, err := Parse([]byte("version: 2\ntracks: []\nlessons: []\n"))
	if err == nil || !strings.Contains(err.Error(), "version 2") {
		t.Fatalf("expected version error, got %v", err)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("version: 3\ntracks: []\nlessons: []\nextra: 1\n"))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestEmptyTrackIsValid(t *testing.T) {
	repo, err := NewStatic([]Track{{ID: TrackBeginner101}}, nil)
	if err != nil {
		t.Fatalf("NewStatic: %v", err)
	}
	if got := repo.LessonsByTrack(TrackBeginner101); len(got) != 0 {
		t.Errorf("len(lessons) = %d, want 0", len(got))
	}
	if got := repo.FirstLessonID(TrackBeginner101); got != "" {
		t.Errorf("FirstLessonID = %q, want empty", got)
	}
}

func TestQuestionHelpers(t *testing.T) {
	q := QuizQuestion{ID: "q1", Choices: []Choice{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}}, CorrectChoiceID: "b"}
	if !q.IsCorrect("b") || q.IsCorrect("a") || q.IsCorrect("") {
		t.Error("IsCorrect mismatch")
	}
	if c, ok := q.Choice("a"); !ok || c.Label != "A" {
		t.Errorf("Choice(a) = %v, %v", c, ok)
	}
	if _, ok := q.Choice("z"); ok {
		t.Error("Choice(z) should be missing")
	}
}
