package track

import (
	"context"
	"strings"
	"testing"

	"github.com/st-academy/academy/internal/curriculum"
	"github.com/st-academy/academy/internal/progress"
	"github.com/st-academy/academy/internal/router"
	"github.com/st-academy/academy/internal/screen/screentest"
	lessonscreen "github.com/st-academy/academy/internal/screens/lesson"
)

func TestTrackListsLessons(t *testing.T) {
	f := screentest.New(t)
	s := New(f.Env, screentest.Track)

	if len(s.menu.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(s.menu.Items))
	}
	view := s.View(100, 30)
	for _, want := range []string{"First Lesson", "Second Lesson", "0/2 lessons"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTrackContinueOpensFirstIncomplete(t *testing.T) {
	f := screentest.New(t)
	st := progress.MarkLessonComplete(f.Env.Load(), screentest.Track, "l1", nil)
	if err := f.Env.Progress.Save(context.Background(), "", st); err != nil {
		t.Fatalf("save: %v", err)
	}

	s := New(f.Env, screentest.Track)
	if !strings.HasPrefix(s.menu.Items[0].Label, "✓") {
		t.Errorf("completed lesson label = %q", s.menu.Items[0].Label)
	}

	_, cmd := s.Update(screentest.Key('c'))
	if cmd == nil {
		t.Fatal("continue should open a lesson")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*lessonscreen.LessonScreen); !ok {
		t.Fatalf("pushed %T", push.Screen)
	}
	if push.Screen.Title() != "Second Lesson" {
		t.Errorf("opened %q, want Second Lesson", push.Screen.Title())
	}
}

func TestTrackRefreshesOnReturn(t *testing.T) {
	f := screentest.New(t)
	s := New(f.Env, screentest.Track)

	st := progress.MarkLessonComplete(f.Env.Load(), screentest.Track, "l2", nil)
	if err := f.Env.Progress.Save(context.Background(), "", st); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Update(router.PoppedMsg{})
	if !strings.HasPrefix(s.menu.Items[1].Label, "✓") {
		t.Errorf("label = %q, want completed mark", s.menu.Items[1].Label)
	}
}

func TestUnknownTrack(t *testing.T) {
	f := screentest.New(t)
	s := New(f.Env, curriculum.TrackID("nope"))
	if !strings.Contains(s.View(100, 30), "Error") {
		t.Error("unknown track should render an error")
	}
}
