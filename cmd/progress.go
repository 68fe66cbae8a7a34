package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/st-academy/academy/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Print the progress record for the current identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		d, err := openDeps(cmd, openOptions{})
		if err != nil {
			return err
		}
		defer d.Close()

		st := d.progress.Load(cmd.Context(), d.identity)
		out := cmd.OutOrStdout()

		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}

		fmt.Fprintf(out, "Identity:  %s\n", d.identityLabel())
		fmt.Fprintf(out, "Record:    %s\n", progress.StorageKey(d.identity))
		fmt.Fprintf(out, "XP:        %d\n", st.XP)
		fmt.Fprintf(out, "Updated:   %s\n", st.UpdatedAt)

		keys := make([]string, 0, len(st.CompletedLessons))
		for k, done := range st.CompletedLessons {
			if done {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		fmt.Fprintf(out, "Completed: %d\n", len(keys))
		for _, k := range keys {
			track, id, _ := progress.SplitKey(k)
			title := id
			if l, err := d.curriculum.FindLesson(track, id); err == nil {
				title = l.Title
			}
			fmt.Fprintf(out, "  ✓ %-14s %s\n", track, title)
		}
		return nil
	},
}

func init() {
	progressCmd.Flags().Bool("json", false, "Print the raw stored record")
}
