package cmd

import (
	"github.com/spf13/cobra"

	"github.com/st-academy/academy/internal/app"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Start the interactive academy (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLearn(cmd)
	},
}

func init() {
	learnCmd.Flags().Bool("skip-welcome", false, "Start on the home screen")
}

// runLearn builds dependencies and launches the TUI.
func runLearn(cmd *cobra.Command) error {
	d, err := openDeps(cmd, openOptions{tui: true})
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	skip, _ := cmd.Flags().GetBool("skip-welcome")
	return app.Run(ctx, d.env(ctx), app.Options{SkipWelcome: skip})
}
