package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/st-academy/academy/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent lesson events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")
		all, _ := cmd.Flags().GetBool("all")

		d, err := openDeps(cmd, openOptions{})
		if err != nil {
			return err
		}
		defer d.Close()

		opts := store.QueryOpts{Limit: limit, Kind: kind}
		if !all {
			opts.Wallet = d.identity
		}
		events, err := d.store.EventRepo().QueryLessonEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No lesson events found.")
			return nil
		}

		fmt.Fprintf(out, "%-6s  %-19s  %-14s  %-14s  %-24s  %s\n",
			"Seq", "Timestamp", "Kind", "Track", "Lesson", "Detail")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, e := range events {
			detail := e.Detail
			if e.QuestionID != "" {
				mark := "✗"
				if e.Correct {
					mark = "✓"
				}
				detail = fmt.Sprintf("%s=%s %s", e.QuestionID, e.ChoiceID, mark)
			}
			if e.XP > 0 {
				detail = strings.TrimSpace(fmt.Sprintf("%s +%d XP", detail, e.XP))
			}
			fmt.Fprintf(out, "%-6d  %-19s  %-14s  %-14s  %-24s  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Kind,
				e.Track,
				truncate(e.LessonID, 24),
				detail,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 30, "Number of events to show")
	historyCmd.Flags().StringP("kind", "k", "", "Filter by kind (opened, submitted, completed, receipt, receipt_failed)")
	historyCmd.Flags().Bool("all", false, "Include events of every identity")
}
