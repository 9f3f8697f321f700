package tmux

import (
	"context"
	"strings"
)

// Pane is a snapshot of a tmux pane.
type Pane struct {
	ID       PaneID
	WindowID WindowID
	Index    int
	IsActive bool
	Width    int
	Height   int
	Title    string
	DirPath  string
	// Command is the name of the process running in the foreground.
	Command string
}

const (
	paneFormat = "#{pane_id}:#{window_id}:#{pane_index}:#{?pane_active,true,false}:#{pane_width}x#{pane_height}:'#{pane_title}':'#{pane_current_path}':#{pane_current_command}"
	paneIntent = "##{pane_id}:##{window_id}:##{pane_index}:##{?pane_active,true,false}:##{pane_width}x##{pane_height}:'##{pane_title}':'##{pane_current_path}':##{pane_current_command}"
)

// ParsePane parses one line printed with paneFormat:
//
//	%3:@1:0:true:80x24:'host':'/home/me':zsh
func ParsePane(input string) (Pane, error) {
	s := newScanner(input)
	p := Pane{}
	p.ID = s.paneID()
	s.lit(':')
	p.WindowID = s.windowID()
	s.lit(':')
	p.Index = s.uint()
	s.lit(':')
	p.IsActive = s.boolean()
	s.lit(':')
	p.Width = s.uint()
	s.lit('x')
	p.Height = s.uint()
	s.lit(':')
	p.Title = s.quoted()
	s.lit(':')
	p.DirPath = s.quotedNonempty()
	s.lit(':')
	p.Command = s.line()
	if err := s.finish("Pane", paneIntent); err != nil {
		return Pane{}, err
	}
	return p, nil
}

// ListPanes returns every pane of every window.
func (c *Controller) ListPanes(ctx context.Context) ([]Pane, error) {
	out, err := c.query(ctx, "list-panes", "list-panes", "-a", "-F", paneFormat)
	if err != nil {
		return nil, err
	}
	return parseLines(out, ParsePane)
}

// NewPane splits the window, starting the new pane in reference's directory.
// When command is non-empty it runs in the new pane instead of the default
// command.
func (c *Controller) NewPane(ctx context.Context, reference Pane, command string, windowID WindowID) (PaneID, error) {
	args := []string{
		"split-window", "-h",
		"-c", reference.DirPath,
		"-t", string(windowID),
		"-P", "-F", "#{pane_id}",
	}
	if command != "" {
		args = append(args, command)
	}

	out, err := c.query(ctx, "split-window", args...)
	if err != nil {
		return "", err
	}
	return ParsePaneID(strings.TrimRight(out, "\r\n"))
}

// SelectPane makes the pane the active one of its window.
func (c *Controller) SelectPane(ctx context.Context, id PaneID) error {
	return c.silent(ctx, "select-pane", "select-pane", "-t", string(id))
}

// KillPane destroys the pane.
func (c *Controller) KillPane(ctx context.Context, id PaneID) error {
	return c.silent(ctx, "kill-pane", "kill-pane", "-t", string(id))
}

// CapturePane returns the pane's whole history and visible content, joined
// wrapped lines and embedded escape sequences included. The bytes are
// returned as tmux printed them; see CleanupCapturedBuffer.
func (c *Controller) CapturePane(ctx context.Context, id PaneID) ([]byte, error) {
	out, err := c.run(ctx, "capture-pane", "capture-pane", "-t", string(id), "-J", "-e", "-p", "-S", "-")
	if err != nil {
		return nil, err
	}
	if err := requireSuccess(out, "capture-pane"); err != nil {
		return nil, err
	}
	return out.Stdout, nil
}
