package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/st-academy/academy/internal/curriculum"
	"github.com/st-academy/academy/internal/progress"
)

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List tracks with lesson counts and progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, openOptions{})
		if err != nil {
			return err
		}
		defer d.Close()

		st := d.progress.Load(cmd.Context(), d.identity)
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "%-14s  %-28s  %7s  %8s\n", "ID", "Title", "Lessons", "Progress")
		fmt.Fprintln(out, strings.Repeat("─", 64))
		for _, t := range d.curriculum.Tracks() {
			lessons := d.curriculum.LessonsByTrack(t.ID)
			fmt.Fprintf(out, "%-14s  %-28s  %3d/%-3d  %7.0f%%\n",
				t.ID,
				truncate(t.Title, 28),
				progress.CompletedCount(st, lessons),
				len(lessons),
				progress.TrackPercent(st, lessons)*100,
			)
		}
		return nil
	},
}

var lessonsCmd = &cobra.Command{
	Use:   "lessons <track>",
	Short: "List the lessons of a track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		track, err := curriculum.ParseTrackID(args[0])
		if err != nil {
			return err
		}

		d, err := openDeps(cmd, openOptions{})
		if err != nil {
			return err
		}
		defer d.Close()

		lessons := d.curriculum.LessonsByTrack(track)
		out := cmd.OutOrStdout()
		if len(lessons) == 0 {
			fmt.Fprintln(out, "No lessons in this track yet.")
			return nil
		}

		st := d.progress.Load(cmd.Context(), d.identity)
		for i, l := range lessons {
			mark := "○"
			if progress.IsLessonCompleted(st, track, l.ID) {
				mark = "✓"
			}
			quiz := ""
			if progress.IsQuizPassed(st, track, l.ID) {
				quiz = "  quiz passed"
			}
			fmt.Fprintf(out, "%s %2d. %-36s %3d min  (%s)%s\n", mark, i+1, l.Title, l.Minutes, l.ID, quiz)
		}
		return nil
	},
}
