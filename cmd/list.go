package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		sessions, err := e.ctrl.ListSessions(cmdContext(cmd))
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		rows := make([][]string, 0, len(sessions))
		for _, s := range sessions {
			rows = append(rows, []string{s.ID.String(), s.Name, s.DirPath})
		}
		printTable([]string{"ID", "NAME", "DIR"}, rows)
		return nil
	},
}

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List windows of all sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		windows, err := e.ctrl.ListWindows(cmdContext(cmd))
		if err != nil {
			return fmt.Errorf("failed to list windows: %w", err)
		}

		rows := make([][]string, 0, len(windows))
		for _, w := range windows {
			panes := "?"
			if ids, err := w.PaneIDs(); err == nil {
				panes = strconv.Itoa(len(ids))
			}
			rows = append(rows, []string{
				w.ID.String(), strings.Join(w.Sessions, ","), strconv.Itoa(w.Index),
				w.Name, yesNo(w.IsActive), panes, w.Layout,
			})
		}
		printTable([]string{"ID", "SESSIONS", "INDEX", "NAME", "ACTIVE", "PANES", "LAYOUT"}, rows)
		return nil
	},
}

var panesCmd = &cobra.Command{
	Use:   "panes",
	Short: "List panes of all windows",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		panes, err := e.ctrl.ListPanes(cmdContext(cmd))
		if err != nil {
			return fmt.Errorf("failed to list panes: %w", err)
		}

		rows := make([][]string, 0, len(panes))
		for _, p := range panes {
			rows = append(rows, []string{
				p.ID.String(), p.WindowID.String(), strconv.Itoa(p.Index), yesNo(p.IsActive),
				fmt.Sprintf("%dx%d", p.Width, p.Height), p.Command, p.DirPath, p.Title,
			})
		}
		printTable([]string{"ID", "WINDOW", "INDEX", "ACTIVE", "SIZE", "COMMAND", "DIR", "TITLE"}, rows)
		return nil
	},
}

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Show the current client's session and previous session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		c, err := e.ctrl.CurrentClient(cmdContext(cmd))
		if err != nil {
			return fmt.Errorf("failed to read client: %w", err)
		}
		fmt.Printf("session:      %s\n", c.SessionName)
		fmt.Printf("last session: %s\n", c.LastSessionName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd, windowsCmd, panesCmd, clientCmd)
}
