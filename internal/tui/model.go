package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simon/tmuxkit/internal/tmux"
)

const pollInterval = 1500 * time.Millisecond

var validName = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

type tickMsg time.Time

// sessionsMsg carries one refresh of the server state. Client is nil when
// the switcher does not run inside a tmux client.
type sessionsMsg struct {
	Sessions []tmux.Session
	Windows  map[string]int
	Client   *tmux.Client
}

type previewOutputMsg struct {
	SessionName string
	Output      string
}

type switchedMsg struct {
	Name string
	Err  error
}

type killedMsg struct {
	Name string
	Err  error
}

type sessionCreatedMsg struct {
	Name string
	Err  error
}

type previewState struct {
	SessionName string
	Output      string
}

// Options configures the switcher.
type Options struct {
	// Host labels the server in the title, empty for the local one.
	Host string
	// DropLines returns how many trailing lines to hide from the preview of
	// a pane running command.
	DropLines func(command string) int
}

type Model struct {
	ctx           context.Context
	ctrl          *tmux.Controller
	opts          Options
	client        *tmux.Client
	sessions      []tmux.Session
	windows       map[string]int
	filtered      []tmux.Session
	cursor        int
	scrollOffset  int
	input         textinput.Model
	preview       *previewState
	confirmKill   string
	width, height int
	status        string
	// AttachTarget is set when a session was picked outside any tmux client;
	// the caller attaches to it after the program exits.
	AttachTarget string
	quitting     bool
	err          error
}

func NewModel(ctx context.Context, ctrl *tmux.Controller, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to filter or /new <name> [dir]..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	return Model{
		ctx:   ctx,
		ctrl:  ctrl,
		opts:  opts,
		input: ti,
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refresh, tickCmd())
}

// refresh reads the client and the session list.
func (m Model) refresh() tea.Msg {
	msg := sessionsMsg{Windows: make(map[string]int)}

	if c, err := m.ctrl.CurrentClient(m.ctx); err == nil {
		msg.Client = &c
	}

	sessions, err := m.ctrl.ListSessions(m.ctx)
	if err != nil {
		return err
	}
	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].Name < sessions[j].Name })
	msg.Sessions = sessions

	windows, err := m.ctrl.ListWindows(m.ctx)
	if err != nil {
		return err
	}
	for _, w := range windows {
		for _, s := range w.Sessions {
			msg.Windows[s]++
		}
	}
	return msg
}

func (m Model) capturePreviewCmd(sessionName string) tea.Cmd {
	return func() tea.Msg {
		output, err := m.capturePreview(sessionName)
		if err != nil {
			return previewOutputMsg{SessionName: sessionName, Output: "Error: " + err.Error()}
		}
		return previewOutputMsg{SessionName: sessionName, Output: output}
	}
}

// capturePreview captures the active pane of the active window of the
// session.
func (m Model) capturePreview(sessionName string) (string, error) {
	windows, err := m.ctrl.ListWindows(m.ctx)
	if err != nil {
		return "", err
	}
	var win *tmux.Window
	for i := range windows {
		if windows[i].InSession(sessionName) && windows[i].IsActive {
			win = &windows[i]
			break
		}
	}
	if win == nil {
		return "", fmt.Errorf("session %q has no active window", sessionName)
	}

	panes, err := m.ctrl.ListPanes(m.ctx)
	if err != nil {
		return "", err
	}
	for _, p := range panes {
		if p.WindowID != win.ID || !p.IsActive {
			continue
		}
		raw, err := m.ctrl.CapturePane(m.ctx, p.ID)
		if err != nil {
			return "", err
		}
		drop := 0
		if m.opts.DropLines != nil {
			drop = m.opts.DropLines(p.Command)
		}
		return string(tmux.CleanupCapturedBuffer(raw, drop)), nil
	}
	return "", fmt.Errorf("window %s has no active pane", win.ID)
}

func (m Model) switchCmd(name string) tea.Cmd {
	return func() tea.Msg {
		return switchedMsg{Name: name, Err: m.ctrl.SwitchClient(m.ctx, name)}
	}
}

func (m Model) killCmd(name string) tea.Cmd {
	return func() tea.Msg {
		err := m.ctrl.KillSession(m.ctx, name)
		if err == nil && m.client != nil {
			_ = m.ctrl.DisplayMessage(m.ctx, fmt.Sprintf("killed session %s", name))
		}
		return killedMsg{Name: name, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case sessionsMsg:
		m.sessions = msg.Sessions
		m.windows = msg.Windows
		m.client = msg.Client
		m.err = nil
		if m.preview == nil {
			m.applyFilter()
		}
		return m, nil

	case error:
		m.err = msg
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(), m.refresh}
		if m.preview != nil {
			cmds = append(cmds, m.capturePreviewCmd(m.preview.SessionName))
		}
		return m, tea.Batch(cmds...)

	case previewOutputMsg:
		if m.preview != nil && m.preview.SessionName == msg.SessionName {
			m.preview.Output = msg.Output
		}
		return m, nil

	case switchedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case killedMsg:
		if msg.Err != nil {
			m.err = msg.Err
		} else {
			m.status = fmt.Sprintf("Killed %s", msg.Name)
		}
		return m, m.refresh

	case sessionCreatedMsg:
		if msg.Err != nil {
			m.err = msg.Err
		} else {
			m.status = fmt.Sprintf("Created %s", msg.Name)
		}
		m.input.SetValue("")
		return m, m.refresh

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits
	if key.Matches(msg, keys.CtrlC) {
		m.quitting = true
		return m, tea.Quit
	}

	if key.Matches(msg, keys.Escape) {
		if m.confirmKill != "" {
			m.confirmKill = ""
			return m, nil
		}
		if m.preview != nil {
			m.preview = nil
			m.applyFilter()
			return m, nil
		}
		if m.input.Value() == "" {
			m.quitting = true
			return m, tea.Quit
		}
		m.input.SetValue("")
		m.applyFilter()
		return m, nil
	}

	// If kill confirmation is pending, only Enter proceeds
	if m.confirmKill != "" {
		if key.Matches(msg, keys.Enter) {
			name := m.confirmKill
			m.confirmKill = ""
			m.preview = nil
			return m, m.killCmd(name)
		}
		m.confirmKill = ""
		return m, nil
	}

	if key.Matches(msg, keys.Kill) {
		if sel := m.selectedSession(); sel != nil {
			m.confirmKill = sel.Name
		}
		return m, nil
	}

	if key.Matches(msg, keys.Last) {
		m.jumpToLast()
		if m.preview != nil {
			return m.switchPreview()
		}
		return m, nil
	}

	// q quits only when input is empty and no preview
	if key.Matches(msg, keys.Quit) && m.input.Value() == "" && m.preview == nil {
		m.quitting = true
		return m, tea.Quit
	}

	if m.preview != nil {
		return m.handlePreviewKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Navigation: only when input is empty
	if m.input.Value() == "" {
		if key.Matches(msg, keys.Up) {
			m.moveCursor(-1)
			return m, nil
		}
		if key.Matches(msg, keys.Down) {
			m.moveCursor(1)
			return m, nil
		}
	}

	if key.Matches(msg, keys.Enter) {
		text := strings.TrimSpace(m.input.Value())

		if strings.HasPrefix(text, "/new") {
			cmd, err := m.parseNewCommand(text)
			if err != nil {
				m.err = err
				return m, nil
			}
			return m, cmd
		}

		sel := m.selectedSession()
		if sel == nil {
			return m, nil
		}
		m.preview = &previewState{SessionName: sel.Name}
		m.input.SetValue("")
		m.applyFilter()
		return m, m.capturePreviewCmd(sel.Name)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Up) {
		m.moveCursor(-1)
		return m.switchPreview()
	}
	if key.Matches(msg, keys.Down) {
		m.moveCursor(1)
		return m.switchPreview()
	}

	if key.Matches(msg, keys.Enter) {
		name := m.preview.SessionName
		if m.client == nil {
			m.AttachTarget = name
			m.quitting = true
			return m, tea.Quit
		}
		return m, m.switchCmd(name)
	}
	return m, nil
}

func (m Model) switchPreview() (tea.Model, tea.Cmd) {
	sel := m.selectedSession()
	if sel == nil {
		return m, nil
	}
	if sel.Name == m.preview.SessionName {
		return m, nil
	}
	m.preview.SessionName = sel.Name
	m.preview.Output = ""
	return m, m.capturePreviewCmd(sel.Name)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveCursor(-1)
	case tea.MouseButtonWheelDown:
		m.moveCursor(1)
	default:
		return m, nil
	}
	if m.preview != nil {
		return m.switchPreview()
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.filtered) {
		return
	}
	m.cursor = next
	m.ensureCursorVisible()
}

// jumpToLast moves the cursor to the client's previous session.
func (m *Model) jumpToLast() {
	if m.client == nil || m.client.LastSessionName == "" {
		return
	}
	for i, s := range m.filtered {
		if s.Name == m.client.LastSessionName {
			m.cursor = i
			m.ensureCursorVisible()
			return
		}
	}
}

func (m *Model) applyFilter() {
	query := strings.TrimSpace(m.input.Value())
	// Don't filter when typing a command (starts with /)
	if query == "" || strings.HasPrefix(query, "/") {
		m.filtered = m.sessions
	} else {
		lower := strings.ToLower(query)
		m.filtered = nil
		for _, s := range m.sessions {
			if strings.Contains(strings.ToLower(s.Name), lower) {
				m.filtered = append(m.filtered, s)
			}
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
	m.ensureCursorVisible()
}

func (m Model) maxVisibleSessions() int {
	if m.preview == nil {
		return len(m.filtered)
	}
	maxVis := m.height / 10
	if maxVis < 5 {
		maxVis = 5
	}
	if maxVis > len(m.filtered) {
		maxVis = len(m.filtered)
	}
	return maxVis
}

func (m *Model) ensureCursorVisible() {
	maxVis := m.maxVisibleSessions()
	if maxVis <= 0 {
		m.scrollOffset = 0
		return
	}
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+maxVis {
		m.scrollOffset = m.cursor - maxVis + 1
	}
	maxOffset := len(m.filtered) - maxVis
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.scrollOffset > maxOffset {
		m.scrollOffset = maxOffset
	}
}

func (m Model) selectedSession() *tmux.Session {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return nil
	}
	s := m.filtered[m.cursor]
	return &s
}

// parseNewCommand turns `/new <name> [dir]` into a command creating the
// session.
func (m Model) parseNewCommand(text string) (tea.Cmd, error) {
	parts := strings.Fields(text)
	if parts[0] != "/new" || len(parts) < 2 || len(parts) > 3 {
		return nil, errors.New("usage: /new <name> [dir]")
	}
	name := parts[1]
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("invalid name %q: use only alphanumeric, dots, hyphens, underscores", name)
	}
	var dir string
	if len(parts) == 3 {
		dir = parts[2]
	}

	return func() tea.Msg {
		if dir == "" {
			dir, _ = os.Getwd()
		}
		exists, err := m.ctrl.HasSession(m.ctx, name)
		if err != nil {
			return sessionCreatedMsg{Name: name, Err: err}
		}
		if exists {
			return sessionCreatedMsg{Name: name, Err: fmt.Errorf("session %q already exists", name)}
		}
		_, _, _, err = m.ctrl.NewSession(m.ctx,
			tmux.Session{Name: name}, tmux.Window{Name: name}, tmux.Pane{DirPath: dir}, "")
		return sessionCreatedMsg{Name: name, Err: err}
	}, nil
}
