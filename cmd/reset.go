package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/st-academy/academy/internal/progress"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the progress record for the current identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return errors.New("refusing to reset without --yes")
		}

		d, err := openDeps(cmd, openOptions{})
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.progress.Reset(cmd.Context(), d.identity); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Progress for %s deleted (%s).\n",
			d.identityLabel(), progress.StorageKey(d.identity))
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Confirm deletion")
}
