package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simon/tmuxkit/internal/snapshot"
	"github.com/simon/tmuxkit/internal/state"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save sessions, windows, panes and pane contents to a snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		noBuffers, _ := cmd.Flags().GetBool("no-buffers")
		label, _ := cmd.Flags().GetString("label")

		snap, err := snapshot.Take(cmdContext(cmd), e.ctrl, snapshot.TakeOptions{
			DropLines:   e.cfg.DropLinesFor,
			SkipBuffers: noBuffers,
		})
		if err != nil {
			return fmt.Errorf("failed to take snapshot: %w", err)
		}
		snap.Label = label
		snap.Host = e.host

		store, err := state.Open(e.cfg.StateDir)
		if err != nil {
			return fmt.Errorf("failed to open state db: %w", err)
		}
		defer store.Close()

		id, err := store.Save(snap)
		if err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		s, w, p := snap.Counts()
		fmt.Printf("Saved snapshot %s: %d sessions, %d windows, %d panes\n", id, s, w, p)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore [snapshot-id]",
	Short: "Recreate the sessions of a snapshot (default: the latest)",
	Long: `Recreate every session of the snapshot that the server does not have yet.
Existing sessions are left untouched.

With --replay, each restored pane prints its saved content before starting
the server's default command.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		store, err := state.Open(e.cfg.StateDir)
		if err != nil {
			return fmt.Errorf("failed to open state db: %w", err)
		}
		defer store.Close()

		var snap *snapshot.Snapshot
		if len(args) == 1 {
			snap, err = store.Load(args[0])
		} else {
			snap, err = store.Latest()
		}
		if errors.Is(err, state.ErrNotFound) {
			return fmt.Errorf("no matching snapshot; run \"tmuxkit save\" first")
		}
		if err != nil {
			return fmt.Errorf("failed to load snapshot: %w", err)
		}

		var opts snapshot.RestoreOptions
		if replay, _ := cmd.Flags().GetBool("replay"); replay {
			if e.host != "" {
				return fmt.Errorf("--replay writes pane contents to local files and cannot be used with --host")
			}
			opts.BufferDir = filepath.Join(e.cfg.StateDir, "buffers", snap.ID)
		}

		res, err := snapshot.Restore(cmdContext(cmd), e.ctrl, snap, opts)
		for _, name := range res.Restored {
			fmt.Printf("Restored %q\n", name)
		}
		for _, name := range res.Skipped {
			fmt.Printf("Skipped %q (already exists)\n", name)
		}
		if err != nil {
			return fmt.Errorf("failed to restore snapshot %s: %w", snap.ID, err)
		}
		return nil
	},
}

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List saved snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		store, err := state.Open(e.cfg.StateDir)
		if err != nil {
			return fmt.Errorf("failed to open state db: %w", err)
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		list, err := store.List(limit)
		if err != nil {
			return fmt.Errorf("failed to list snapshots: %w", err)
		}

		rows := make([][]string, 0, len(list))
		for _, s := range list {
			host := s.Host
			if host == "" {
				host = "local"
			}
			rows = append(rows, []string{
				shortID(s.ID), s.CreatedAt.Format("2006-01-02 15:04:05"), host,
				strconv.Itoa(s.Sessions), strconv.Itoa(s.Windows), strconv.Itoa(s.Panes), s.Label,
			})
		}
		printTable([]string{"ID", "CREATED", "HOST", "SESSIONS", "WINDOWS", "PANES", "LABEL"}, rows)
		return nil
	},
}

var forgetCmd = &cobra.Command{
	Use:   "forget <snapshot-id>",
	Short: "Delete a saved snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		store, err := state.Open(e.cfg.StateDir)
		if err != nil {
			return fmt.Errorf("failed to open state db: %w", err)
		}
		defer store.Close()

		if err := store.Delete(args[0]); err != nil {
			return fmt.Errorf("failed to delete snapshot: %w", err)
		}
		fmt.Printf("Deleted snapshot %s\n", args[0])
		return nil
	},
}

// shortID abbreviates a snapshot id to its first uuid group, which Load
// accepts as a prefix.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func init() {
	saveCmd.Flags().String("label", "", "Free-form note stored with the snapshot")
	saveCmd.Flags().Bool("no-buffers", false, "Do not capture pane contents")
	restoreCmd.Flags().Bool("replay", false, "Print saved pane contents in restored panes")
	snapshotsCmd.Flags().IntP("limit", "n", 20, "Maximum number of snapshots to list")
	rootCmd.AddCommand(saveCmd, restoreCmd, snapshotsCmd, forgetCmd)
}
