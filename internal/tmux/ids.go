package tmux

// SessionID is the id tmux assigns to a session, kept in its raw form (`$11`).
type SessionID string

// WindowID is the id tmux assigns to a window, kept in its raw form (`@41`).
type WindowID string

// PaneID is the id tmux assigns to a pane, kept in its raw form (`%7`).
type PaneID string

const (
	sessionIDIntent = "##{session_id}"
	windowIDIntent  = "##{window_id}"
	paneIDIntent    = "##{pane_id}"
)

// ParseSessionID parses `$` followed by one or more digits, and nothing else.
func ParseSessionID(input string) (SessionID, error) {
	s := newScanner(input)
	id := s.sessionID()
	if err := s.finish("SessionId", sessionIDIntent); err != nil {
		return "", err
	}
	return id, nil
}

// ParseWindowID parses `@` followed by one or more digits, and nothing else.
func ParseWindowID(input string) (WindowID, error) {
	s := newScanner(input)
	id := s.windowID()
	if err := s.finish("WindowId", windowIDIntent); err != nil {
		return "", err
	}
	return id, nil
}

// ParsePaneID parses `%` followed by one or more digits, and nothing else.
func ParsePaneID(input string) (PaneID, error) {
	s := newScanner(input)
	id := s.paneID()
	if err := s.finish("PaneId", paneIDIntent); err != nil {
		return "", err
	}
	return id, nil
}

func (id SessionID) String() string { return string(id) }
func (id WindowID) String() string  { return string(id) }
func (id PaneID) String() string    { return string(id) }

// The prefix parsers leave trailing input for the caller.

func parseSessionIDPrefix(input string) (string, SessionID, error) {
	rest, token, err := prefixedDigits(input, '$')
	return rest, SessionID(token), err
}

func parseWindowIDPrefix(input string) (string, WindowID, error) {
	rest, token, err := prefixedDigits(input, '@')
	return rest, WindowID(token), err
}

func parsePaneIDPrefix(input string) (string, PaneID, error) {
	rest, token, err := prefixedDigits(input, '%')
	return rest, PaneID(token), err
}
