package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var killCmd = &cobra.Command{
	Use:   "kill <name>",
	Short: "Kill a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		ctx := cmdContext(cmd)

		exists, err := e.ctrl.HasSession(ctx, name)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("session %q not found", name)
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force && !confirm(fmt.Sprintf("Kill session %q?", name)) {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := e.ctrl.KillSession(ctx, name); err != nil {
			return fmt.Errorf("failed to kill session: %w", err)
		}

		fmt.Printf("Killed session %q\n", name)
		return nil
	},
}

func init() {
	killCmd.Flags().BoolP("force", "f", false, "Skip confirmation")
	rootCmd.AddCommand(killCmd)
}
