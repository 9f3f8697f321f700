package tmux

import (
	"os"
	"os/exec"
	"strings"
)

// Attacher is a Runner that can also hand the terminal to an interactive
// `tmux attach-session`.
type Attacher interface {
	Runner
	Attach(sessionName string) error
}

// Attach runs tmux attach as a child process on the current terminal and
// returns when the user detaches.
func (l *LocalRunner) Attach(sessionName string) error {
	bin, err := l.binary()
	if err != nil {
		return err
	}
	cmd := exec.Command(bin, withSocket(l.Socket, []string{"attach-session", "-t", exact(sessionName)})...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = filterTMUX(os.Environ())
	return cmd.Run()
}

// Attach runs tmux attach on the remote host through an ssh session with a
// terminal allocated.
func (s *SSHRunner) Attach(sessionName string) error {
	args := []string{"-t"}
	args = append(args, s.sshArgs()...)
	args = append(args, s.remoteCommand([]string{"attach-session", "-t", exact(sessionName)}))
	cmd := exec.Command("ssh", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = filterTMUX(os.Environ())
	return cmd.Run()
}

// filterTMUX drops TMUX from env so tmux does not refuse to nest.
func filterTMUX(env []string) []string {
	filtered := make([]string, 0, len(env))
	for _, e := range env {
		if !strings.HasPrefix(e, "TMUX=") {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
