package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simon/tmuxkit/internal/tmux"
)

var layoutCmd = &cobra.Command{
	Use:   "layout <window-id> [layout]",
	Short: "Show a window's layout tree, or apply a layout to it",
	Long: `With only a window id, print the window's layout as a tree of cells.

With a layout, either a preset such as even-horizontal or a full layout
string as printed by "tmuxkit windows", apply it to the window.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := tmux.ParseWindowID(args[0])
		if err != nil {
			return fmt.Errorf("invalid window id %q: %w", args[0], err)
		}
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		ctx := cmdContext(cmd)

		if len(args) == 2 {
			return e.ctrl.SetLayout(ctx, args[1], id)
		}

		windows, err := e.ctrl.ListWindows(ctx)
		if err != nil {
			return fmt.Errorf("failed to list windows: %w", err)
		}
		for _, w := range windows {
			if w.ID != id {
				continue
			}
			layout, err := tmux.ParseLayout(w.Layout)
			if err != nil {
				return err
			}
			checksum := "ok"
			if !layout.Valid() {
				checksum = "mismatch"
			}
			fmt.Printf("%s %q checksum %04x (%s)\n", w.ID, w.Name, layout.Checksum, checksum)
			printCell(layout.Root, 0)
			return nil
		}
		return fmt.Errorf("window %s not found", id)
	},
}

func printCell(c tmux.LayoutCell, depth int) {
	indent := strings.Repeat("  ", depth)
	geometry := fmt.Sprintf("%dx%d+%d+%d", c.Width, c.Height, c.X, c.Y)
	if c.Kind == tmux.LayoutPane {
		fmt.Printf("%s%s %s\n", indent, c.Pane, geometry)
		return
	}
	fmt.Printf("%s%s %s\n", indent, c.Kind, geometry)
	for _, child := range c.Children {
		printCell(child, depth+1)
	}
}

var newWindowCmd = &cobra.Command{
	Use:   "new-window <session> [-- command...]",
	Short: "Add a window to a session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		dir, _ := cmd.Flags().GetString("dir")
		wid, pid, err := e.ctrl.NewWindow(cmdContext(cmd),
			tmux.Session{Name: args[0]}, tmux.Window{Name: name}, tmux.Pane{DirPath: dir},
			strings.Join(args[1:], " "))
		if err != nil {
			return fmt.Errorf("failed to create window: %w", err)
		}
		fmt.Println(wid, pid)
		return nil
	},
}

var splitCmd = &cobra.Command{
	Use:   "split <window-id> [-- command...]",
	Short: "Split a window side by side",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := tmux.ParseWindowID(args[0])
		if err != nil {
			return fmt.Errorf("invalid window id %q: %w", args[0], err)
		}
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("dir")
		pid, err := e.ctrl.NewPane(cmdContext(cmd), tmux.Pane{DirPath: dir}, strings.Join(args[1:], " "), id)
		if err != nil {
			return fmt.Errorf("failed to split window: %w", err)
		}
		fmt.Println(pid)
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <window-id|pane-id>",
	Short: "Make a window current in its session, or a pane active in its window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		ctx := cmdContext(cmd)
		if wid, err := tmux.ParseWindowID(args[0]); err == nil {
			return e.ctrl.SelectWindow(ctx, wid)
		}
		if pid, err := tmux.ParsePaneID(args[0]); err == nil {
			return e.ctrl.SelectPane(ctx, pid)
		}
		return fmt.Errorf("%q is neither a window id (@n) nor a pane id (%%n)", args[0])
	},
}

var closeCmd = &cobra.Command{
	Use:   "close <window-id|pane-id>",
	Short: "Kill a window or a pane",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		ctx := cmdContext(cmd)
		if wid, err := tmux.ParseWindowID(args[0]); err == nil {
			return e.ctrl.KillWindow(ctx, wid)
		}
		if pid, err := tmux.ParsePaneID(args[0]); err == nil {
			return e.ctrl.KillPane(ctx, pid)
		}
		return fmt.Errorf("%q is neither a window id (@n) nor a pane id (%%n)", args[0])
	},
}

func init() {
	newWindowCmd.Flags().StringP("name", "n", "main", "Window name")
	newWindowCmd.Flags().StringP("dir", "c", "#{pane_current_path}", "Working directory (tmux formats are expanded)")
	splitCmd.Flags().StringP("dir", "c", "#{pane_current_path}", "Working directory (tmux formats are expanded)")
	rootCmd.AddCommand(layoutCmd, newWindowCmd, splitCmd, selectCmd, closeCmd)
}
