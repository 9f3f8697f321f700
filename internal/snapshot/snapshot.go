// Package snapshot records the sessions, windows and panes of a tmux server
// together with the cleaned-up content of every pane, and recreates them
// later on the same or another server.
package snapshot

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/simon/tmuxkit/internal/tmux"
)

type Snapshot struct {
	ID        string
	Label     string
	Host      string
	CreatedAt time.Time
	Sessions  []Session
}

type Session struct {
	Name    string
	DirPath string
	Windows []Window
}

type Window struct {
	Index  int
	Name   string
	Layout string
	Active bool
	Panes  []Pane
}

type Pane struct {
	Index   int
	Title   string
	DirPath string
	Command string
	Active  bool
	Buffer  []byte
}

// Counts returns the number of sessions, windows and panes in the snapshot.
func (s *Snapshot) Counts() (sessions, windows, panes int) {
	for _, sess := range s.Sessions {
		sessions++
		for _, w := range sess.Windows {
			windows++
			panes += len(w.Panes)
		}
	}
	return sessions, windows, panes
}

// TakeOptions controls what Take records.
type TakeOptions struct {
	// DropLines returns how many trailing lines to remove from the capture
	// of a pane running command, typically the shell prompt. Nil drops none.
	DropLines func(command string) int
	// SkipBuffers leaves pane buffers empty.
	SkipBuffers bool
}

// Take records the current layout of the server behind ctrl. A window linked
// into several sessions is recorded once per session.
func Take(ctx context.Context, ctrl *tmux.Controller, opts TakeOptions) (*Snapshot, error) {
	sessions, err := ctrl.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	windows, err := ctrl.ListWindows(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing windows: %w", err)
	}
	panes, err := ctrl.ListPanes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing panes: %w", err)
	}

	byWindow := make(map[tmux.WindowID][]tmux.Pane)
	for _, p := range panes {
		byWindow[p.WindowID] = append(byWindow[p.WindowID], p)
	}

	buffers := make(map[tmux.PaneID][]byte)
	capture := func(p tmux.Pane) ([]byte, error) {
		if opts.SkipBuffers {
			return nil, nil
		}
		if b, ok := buffers[p.ID]; ok {
			return b, nil
		}
		raw, err := ctrl.CapturePane(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("capturing %s: %w", p.ID, err)
		}
		drop := 0
		if opts.DropLines != nil {
			drop = opts.DropLines(p.Command)
		}
		b := tmux.CleanupCapturedBuffer(raw, drop)
		buffers[p.ID] = b
		return b, nil
	}

	snap := &Snapshot{CreatedAt: time.Now()}
	for _, s := range sessions {
		sess := Session{Name: s.Name, DirPath: s.DirPath}
		for _, w := range windows {
			if !w.InSession(s.Name) {
				continue
			}
			win := Window{Index: w.Index, Name: w.Name, Layout: w.Layout, Active: w.IsActive}
			for _, p := range byWindow[w.ID] {
				buf, err := capture(p)
				if err != nil {
					return nil, err
				}
				win.Panes = append(win.Panes, Pane{
					Index:   p.Index,
					Title:   p.Title,
					DirPath: p.DirPath,
					Command: p.Command,
					Active:  p.IsActive,
					Buffer:  buf,
				})
			}
			sort.Slice(win.Panes, func(i, j int) bool { return win.Panes[i].Index < win.Panes[j].Index })
			sess.Windows = append(sess.Windows, win)
		}
		sort.Slice(sess.Windows, func(i, j int) bool { return sess.Windows[i].Index < sess.Windows[j].Index })
		snap.Sessions = append(snap.Sessions, sess)
	}
	return snap, nil
}
