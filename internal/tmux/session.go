package tmux

import (
	"context"
	"strings"
)

// Session is a snapshot of a tmux session.
type Session struct {
	ID      SessionID
	Name    string
	DirPath string
}

const (
	sessionFormat = "#{session_id}:'#{session_name}':#{session_path}"
	sessionIntent = "##{session_id}:'##{session_name}':##{session_path}"

	newSessionFormat = "#{session_id}:#{window_id}:#{pane_id}"
	newSessionIntent = "##{session_id}:##{window_id}:##{pane_id}"
)

// ParseSession parses one line printed with sessionFormat:
//
//	$1:'my session':/home/me/src
func ParseSession(input string) (Session, error) {
	s := newScanner(input)
	id := s.sessionID()
	s.lit(':')
	name := s.quotedNonempty()
	s.lit(':')
	path := s.line()
	if err := s.finish("Session", sessionIntent); err != nil {
		return Session{}, err
	}
	return Session{ID: id, Name: name, DirPath: path}, nil
}

// ListSessions returns every session on the server.
func (c *Controller) ListSessions(ctx context.Context) ([]Session, error) {
	out, err := c.query(ctx, "list-sessions", "list-sessions", "-F", sessionFormat)
	if err != nil {
		return nil, err
	}
	return parseLines(out, ParseSession)
}

// NewSession creates a detached session named after session, whose first
// window is named after window and starts in pane's directory. When command
// is non-empty it runs in the first pane instead of the default command.
func (c *Controller) NewSession(ctx context.Context, session Session, window Window, pane Pane, command string) (SessionID, WindowID, PaneID, error) {
	args := []string{
		"new-session", "-d",
		"-c", pane.DirPath,
		"-s", session.Name,
		"-n", window.Name,
		"-P", "-F", newSessionFormat,
	}
	if command != "" {
		args = append(args, command)
	}

	out, err := c.query(ctx, "new-session", args...)
	if err != nil {
		return "", "", "", err
	}

	s := newScanner(strings.TrimRight(out, "\r\n"))
	sid := s.sessionID()
	s.lit(':')
	wid := s.windowID()
	s.lit(':')
	pid := s.paneID()
	if err := s.finish("new-session", newSessionIntent); err != nil {
		return "", "", "", err
	}
	return sid, wid, pid, nil
}

// HasSession reports whether a session exactly named name exists.
func (c *Controller) HasSession(ctx context.Context, name string) (bool, error) {
	out, err := c.run(ctx, "has-session", "has-session", "-t", exact(name))
	if err != nil {
		return false, err
	}
	return out.Success(), nil
}

// KillSession destroys the session exactly named name.
func (c *Controller) KillSession(ctx context.Context, name string) error {
	return c.silent(ctx, "kill-session", "kill-session", "-t", exact(name))
}
