package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start <name>",
	Short: "Start the tmux server with an initial session and wait until it answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		if err := e.ctrl.StartServer(cmdContext(cmd), args[0]); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		fmt.Printf("Server ready with session %q\n", args[0])
		return nil
	},
}

var switchCmd = &cobra.Command{
	Use:   "switch <name>",
	Short: "Switch the current client to a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		ctx := cmdContext(cmd)
		exists, err := e.ctrl.HasSession(ctx, args[0])
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("session %q not found", args[0])
		}
		return e.ctrl.SwitchClient(ctx, args[0])
	},
}

var displayCmd = &cobra.Command{
	Use:   "display <message...>",
	Short: "Show a message in the current client's status line",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		return e.ctrl.DisplayMessage(cmdContext(cmd), strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(startCmd, switchCmd, displayCmd)
}
