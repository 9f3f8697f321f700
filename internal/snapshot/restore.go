package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/simon/tmuxkit/internal/tmux"
)

// RestoreOptions controls how Restore recreates panes.
type RestoreOptions struct {
	// BufferDir, when set, receives one file per non-empty pane buffer. The
	// restored pane prints it before starting the server's default command.
	BufferDir string
}

// Result lists the session names Restore recreated and the ones it left
// alone because a session of that name already existed.
type Result struct {
	Restored []string
	Skipped  []string
}

// Restore recreates every session of snap that the server behind ctrl does
// not already have. Existing sessions are never modified.
func Restore(ctx context.Context, ctrl *tmux.Controller, snap *Snapshot, opts RestoreOptions) (Result, error) {
	var res Result

	live, err := ctrl.ListSessions(ctx)
	if err != nil {
		return res, fmt.Errorf("listing sessions: %w", err)
	}
	existing := make(map[string]bool, len(live))
	for _, s := range live {
		existing[s.Name] = true
	}

	r := &restorer{ctrl: ctrl, opts: opts}
	for _, sess := range snap.Sessions {
		if existing[sess.Name] || len(sess.Windows) == 0 {
			res.Skipped = append(res.Skipped, sess.Name)
			continue
		}
		if err := r.session(ctx, sess); err != nil {
			return res, fmt.Errorf("restoring session %s: %w", sess.Name, err)
		}
		existing[sess.Name] = true
		res.Restored = append(res.Restored, sess.Name)
	}
	return res, nil
}

type restorer struct {
	ctrl *tmux.Controller
	opts RestoreOptions

	defaultCommand string
}

func (r *restorer) session(ctx context.Context, sess Session) error {
	var activeWindow tmux.WindowID
	var activePanes []tmux.PaneID

	for i, w := range sess.Windows {
		first := firstPane(sess, w)
		cmd, err := r.command(ctx, sess, w, first)
		if err != nil {
			return err
		}

		var wid tmux.WindowID
		var pid tmux.PaneID
		if i == 0 {
			_, wid, pid, err = r.ctrl.NewSession(ctx,
				tmux.Session{Name: sess.Name},
				tmux.Window{Name: w.Name},
				tmux.Pane{DirPath: first.DirPath}, cmd)
		} else {
			wid, pid, err = r.ctrl.NewWindow(ctx,
				tmux.Session{Name: sess.Name},
				tmux.Window{Name: w.Name},
				tmux.Pane{DirPath: first.DirPath}, cmd)
		}
		if err != nil {
			return fmt.Errorf("window %s: %w", w.Name, err)
		}
		if first.Active {
			activePanes = append(activePanes, pid)
		}

		for j := 1; j < len(w.Panes); j++ {
			p := w.Panes[j]
			cmd, err := r.command(ctx, sess, w, p)
			if err != nil {
				return err
			}
			pid, err := r.ctrl.NewPane(ctx, tmux.Pane{DirPath: p.DirPath}, cmd, wid)
			if err != nil {
				return fmt.Errorf("window %s pane %d: %w", w.Name, p.Index, err)
			}
			if p.Active {
				activePanes = append(activePanes, pid)
			}
		}

		if w.Layout != "" && len(w.Panes) > 1 {
			if err := r.ctrl.SetLayout(ctx, w.Layout, wid); err != nil {
				return fmt.Errorf("window %s layout: %w", w.Name, err)
			}
		}
		if w.Active {
			activeWindow = wid
		}
	}

	for _, pid := range activePanes {
		if err := r.ctrl.SelectPane(ctx, pid); err != nil {
			return err
		}
	}
	if activeWindow != "" {
		if err := r.ctrl.SelectWindow(ctx, activeWindow); err != nil {
			return err
		}
	}
	return nil
}

// command returns the command a restored pane starts with: empty for the
// server default, or a replay of the saved buffer followed by the default.
func (r *restorer) command(ctx context.Context, sess Session, w Window, p Pane) (string, error) {
	if r.opts.BufferDir == "" || len(p.Buffer) == 0 {
		return "", nil
	}
	if r.defaultCommand == "" {
		dc, err := r.ctrl.DefaultCommand(ctx)
		if err != nil {
			return "", err
		}
		r.defaultCommand = dc
	}

	if err := os.MkdirAll(r.opts.BufferDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s-%d-%d.txt", safeName(sess.Name), w.Index, p.Index)
	path := filepath.Join(r.opts.BufferDir, name)
	if err := os.WriteFile(path, p.Buffer, 0o600); err != nil {
		return "", err
	}
	return fmt.Sprintf("cat %s; exec %s", shellQuote(path), r.defaultCommand), nil
}

// firstPane returns the pane a window is created with.
func firstPane(sess Session, w Window) Pane {
	if len(w.Panes) > 0 {
		return w.Panes[0]
	}
	return Pane{DirPath: sess.DirPath}
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
