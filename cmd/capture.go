package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simon/tmuxkit/internal/tmux"
)

var captureCmd = &cobra.Command{
	Use:   "capture <pane-id>",
	Short: "Print a pane's history and content, cleaned up",
	Long: `Print a pane's whole history with escape sequences kept.

Trailing whitespace and empty lines are removed and the output ends with an
attribute reset. Use --drop to hide the last lines (a shell prompt); by
default the count comes from capture.drop_lines for the pane's command.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := tmux.ParsePaneID(args[0])
		if err != nil {
			return fmt.Errorf("invalid pane id %q: %w", args[0], err)
		}
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		ctx := cmdContext(cmd)

		raw, _ := cmd.Flags().GetBool("raw")
		buf, err := e.ctrl.CapturePane(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to capture %s: %w", id, err)
		}
		if raw {
			_, err = os.Stdout.Write(buf)
			return err
		}

		drop, _ := cmd.Flags().GetInt("drop")
		if !cmd.Flags().Changed("drop") {
			if drop, err = defaultDrop(ctx, e, id); err != nil {
				return err
			}
		}
		if drop < 0 {
			return fmt.Errorf("--drop must not be negative")
		}
		_, err = os.Stdout.Write(tmux.CleanupCapturedBuffer(buf, drop))
		return err
	},
}

// defaultDrop looks up the pane's command and returns its configured
// number of prompt lines.
func defaultDrop(ctx context.Context, e *env, id tmux.PaneID) (int, error) {
	panes, err := e.ctrl.ListPanes(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list panes: %w", err)
	}
	for _, p := range panes {
		if p.ID == id {
			return e.cfg.DropLinesFor(p.Command), nil
		}
	}
	return 0, nil
}

func init() {
	captureCmd.Flags().IntP("drop", "d", 0, "Number of trailing lines to remove")
	captureCmd.Flags().Bool("raw", false, "Print tmux output untouched")
	rootCmd.AddCommand(captureCmd)
}
