package cmd

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simon/tmuxkit/internal/tmux"
)

var validName = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

var newCmd = &cobra.Command{
	Use:   "new <name> [-- command...]",
	Short: "Create a detached session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !validName.MatchString(name) {
			return fmt.Errorf("invalid name %q: use only alphanumeric, dots, hyphens, underscores", name)
		}

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		ctx := cmdContext(cmd)

		exists, err := e.ctrl.HasSession(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("session %q already exists", name)
		}

		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			if e.host != "" {
				return fmt.Errorf("--dir is required with --host")
			}
			dir, _ = os.Getwd()
		}
		window, _ := cmd.Flags().GetString("window")
		if window == "" {
			window = name
		}
		attach, _ := cmd.Flags().GetBool("attach")

		sid, wid, pid, err := e.ctrl.NewSession(ctx,
			tmux.Session{Name: name}, tmux.Window{Name: window}, tmux.Pane{DirPath: dir},
			strings.Join(args[1:], " "))
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		fmt.Printf("Created session %q (%s %s %s)\n", name, sid, wid, pid)

		if attach {
			return e.runner.Attach(name)
		}
		return nil
	},
}

func init() {
	newCmd.Flags().StringP("dir", "c", "", "Working directory for the session")
	newCmd.Flags().StringP("window", "n", "", "Name of the first window (default: session name)")
	newCmd.Flags().BoolP("attach", "a", false, "Attach to the session immediately")
	rootCmd.AddCommand(newCmd)
}
