package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/st-academy/academy/internal/curriculum"
	"github.com/st-academy/academy/internal/markdown"
)

var showCmd = &cobra.Command{
	Use:   "show <track> <lesson>",
	Short: "Print a lesson as plain text",
	Args:  cobra.ExactArgs(2),
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

		l, err := d.curriculum.FindLesson(track, args[1])
		if err != nil {
			return err
		}
		writeLesson(cmd.OutOrStdout(), l)
		return nil
	},
}

// writeLesson prints the lesson body, callouts and quiz prompts. Correct
// answers are not revealed.
func writeLesson(w io.Writer, l curriculum.Lesson) {
	fmt.Fprintf(w, "%s\n%s\n", l.Title, strings.Repeat("=", len([]rune(l.Title))))
	fmt.Fprintf(w, "%d min · %d questions\n\n", l.Minutes, len(l.Quiz))

	for _, b := range markdown.Render(l.Content.Markdown) {
		switch b.Kind {
		case markdown.Heading1:
			fmt.Fprintf(w, "# %s\n\n", b.PlainText())
		case markdown.Heading2:
			fmt.Fprintf(w, "## %s\n\n", b.PlainText())
		case markdown.List:
			for _, item := range b.Items {
				fmt.Fprintf(w, "  • %s\n", markdown.SpansText(item))
			}
			fmt.Fprintln(w)
		case markdown.Code:
			for _, line := range strings.Split(b.Code, "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
			fmt.Fprintln(w)
		default:
			fmt.Fprintf(w, "%s\n\n", b.PlainText())
		}
	}

	for _, c := range l.Content.Callouts {
		fmt.Fprintf(w, "> %s\n> %s\n\n", c.Title, c.Body)
	}
	fmt.Fprintf(w, "Discussion: %s\n\n", l.Discussion())

	if a := l.Animation; a != nil && len(a.Steps) > 0 {
		fmt.Fprintf(w, "%s\n", a.Title)
		for i, s := range a.Steps {
			fmt.Fprintf(w, "  %d. %s: %s\n", i+1, s.Title, s.Description)
		}
		fmt.Fprintln(w)
	}

	if len(l.Quiz) == 0 {
		return
	}
	fmt.Fprintln(w, "Knowledge Check")
	for i, q := range l.Quiz {
		fmt.Fprintf(w, "%d. %s\n", i+1, q.Prompt)
		for _, c := range q.Choices {
			fmt.Fprintf(w, "   [%s] %s\n", c.ID, c.Label)
		}
	}
}
