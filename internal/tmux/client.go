package tmux

import (
	"context"
	"strings"
)

// Client is a snapshot of the tmux client attached to the caller's terminal.
type Client struct {
	// SessionName is the current session; never empty.
	SessionName string
	// LastSessionName is the previously attached session; empty if none.
	LastSessionName string
}

const (
	clientFormat = "'#{client_session}':'#{client_last_session}'"
	clientIntent = "'##{client_session}':'##{client_last_session}'"
)

// ParseClient parses one line printed with clientFormat:
//
//	'name-of-current-session':'name-of-last-session'
func ParseClient(input string) (Client, error) {
	s := newScanner(input)
	session := s.quotedNonempty()
	s.lit(':')
	last := s.quoted()
	if err := s.finish("Client", clientIntent); err != nil {
		return Client{}, err
	}
	return Client{SessionName: session, LastSessionName: last}, nil
}

// CurrentClient returns the current and last session of the calling client.
func (c *Controller) CurrentClient(ctx context.Context) (Client, error) {
	out, err := c.query(ctx, "display-message", "display-message", "-p", "-F", clientFormat)
	if err != nil {
		return Client{}, err
	}
	return ParseClient(strings.TrimRight(out, "\r\n"))
}

// DisplayMessage shows message in the status line of the current client.
// Only a failure to communicate with tmux is reported.
func (c *Controller) DisplayMessage(ctx context.Context, message string) error {
	_, err := c.run(ctx, "display-message", "display-message", message)
	return err
}

// SwitchClient switches the current client to the session exactly named
// sessionName. Only a failure to communicate with tmux is reported.
func (c *Controller) SwitchClient(ctx context.Context, sessionName string) error {
	_, err := c.run(ctx, "switch-client", "switch-client", "-t", exact(sessionName))
	return err
}
