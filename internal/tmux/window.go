package tmux

import (
	"context"
	"strings"
)

// Window is a snapshot of a tmux window. A window linked into several
// sessions lists all of them in Sessions.
type Window struct {
	ID       WindowID
	Index    int
	IsActive bool
	Layout   string
	Name     string
	Sessions []string
}

const (
	windowFormat = "#{window_id}:#{window_index}:#{?window_active,true,false}:#{window_layout}:'#{window_name}':'#{window_linked_sessions_list}'"
	windowIntent = "##{window_id}:##{window_index}:##{?window_active,true,false}:##{window_layout}:'##{window_name}':'##{window_linked_sessions_list}'"

	newWindowFormat = "#{window_id}:#{pane_id}"
	newWindowIntent = "##{window_id}:##{pane_id}"
)

// ParseWindow parses one line printed with windowFormat:
//
//	@1:0:true:b25d,80x24,0,0,0:'editor':'work,scratch'
func ParseWindow(input string) (Window, error) {
	s := newScanner(input)
	id := s.windowID()
	s.lit(':')
	index := s.uint()
	s.lit(':')
	active := s.boolean()
	s.lit(':')
	layout := s.until(':')
	s.lit(':')
	name := s.quotedNonempty()
	s.lit(':')
	sessions := s.quoted()
	if err := s.finish("Window", windowIntent); err != nil {
		return Window{}, err
	}

	w := Window{ID: id, Index: index, IsActive: active, Layout: layout, Name: name}
	if sessions != "" {
		w.Sessions = strings.Split(sessions, ",")
	}
	return w, nil
}

// PaneIDs returns the ids of the panes in the window, read from its layout.
func (w Window) PaneIDs() ([]PaneID, error) {
	layout, err := ParseLayout(w.Layout)
	if err != nil {
		return nil, err
	}
	return layout.PaneIDs(), nil
}

// InSession reports whether the window is linked into the named session.
func (w Window) InSession(name string) bool {
	for _, s := range w.Sessions {
		if s == name {
			return true
		}
	}
	return false
}

// ListWindows returns every window of every session.
func (c *Controller) ListWindows(ctx context.Context) ([]Window, error) {
	out, err := c.query(ctx, "list-windows", "list-windows", "-a", "-F", windowFormat)
	if err != nil {
		return nil, err
	}
	return parseLines(out, ParseWindow)
}

// NewWindow creates a detached window named after window at the next free
// index of session, starting in pane's directory. When command is non-empty
// it runs in the new pane instead of the default command.
func (c *Controller) NewWindow(ctx context.Context, session Session, window Window, pane Pane, command string) (WindowID, PaneID, error) {
	args := []string{
		"new-window", "-d",
		"-c", pane.DirPath,
		"-n", window.Name,
		"-t", exact(session.Name) + ":",
		"-P", "-F", newWindowFormat,
	}
	if command != "" {
		args = append(args, command)
	}

	out, err := c.query(ctx, "new-window", args...)
	if err != nil {
		return "", "", err
	}

	s := newScanner(strings.TrimRight(out, "\r\n"))
	wid := s.windowID()
	s.lit(':')
	pid := s.paneID()
	if err := s.finish("new-window", newWindowIntent); err != nil {
		return "", "", err
	}
	return wid, pid, nil
}

// SelectWindow makes the window the current one of its session.
func (c *Controller) SelectWindow(ctx context.Context, id WindowID) error {
	return c.silent(ctx, "select-window", "select-window", "-t", string(id))
}

// SetLayout applies layout, either a preset name such as `even-horizontal`
// or a full layout string, to the window.
func (c *Controller) SetLayout(ctx context.Context, layout string, id WindowID) error {
	return c.silent(ctx, "select-layout", "select-layout", "-t", string(id), layout)
}

// KillWindow destroys the window.
func (c *Controller) KillWindow(ctx context.Context, id WindowID) error {
	return c.silent(ctx, "kill-window", "kill-window", "-t", string(id))
}
