package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/simon/tmuxkit/internal/tui"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactive session switcher",
	Args:  cobra.NoArgs,
	RunE:  runPicker,
}

// runPicker runs the switcher. Outside tmux, picking a session attaches to
// it as a child process and the switcher comes back after detaching.
func runPicker(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	for {
		m := tui.NewModel(cmdContext(cmd), e.ctrl, tui.Options{
			Host:      e.host,
			DropLines: e.cfg.DropLinesFor,
		})
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

		finalModel, err := p.Run()
		if err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}

		final := finalModel.(tui.Model)
		if final.AttachTarget == "" {
			return nil
		}

		// Attach as child process; returns when user detaches
		if err := e.runner.Attach(final.AttachTarget); err != nil {
			return fmt.Errorf("failed to attach to %q: %w", final.AttachTarget, err)
		}
	}
}

func init() {
	rootCmd.AddCommand(pickCmd)
}
