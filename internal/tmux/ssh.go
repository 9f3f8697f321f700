package tmux

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// SSHRunner runs tmux on a remote host over SSH.
type SSHRunner struct {
	Nickname string
	Host     string
	User     string
	SSHKey   string
	Socket   string
}

func (s *SSHRunner) sshArgs() []string {
	args := []string{
		"-o", "ControlMaster=auto",
		"-o", "ControlPath=/tmp/tmuxkit-ssh-%r@%h:%p",
		"-o", "ControlPersist=60",
		"-o", "StrictHostKeyChecking=accept-new",
		"-o", "BatchMode=yes",
	}
	if s.SSHKey != "" {
		args = append(args, "-i", s.SSHKey)
	}
	if s.User != "" {
		args = append(args, fmt.Sprintf("%s@%s", s.User, s.Host))
	} else {
		args = append(args, s.Host)
	}
	return args
}

// remoteCommand builds the single shell string ssh hands to the remote shell.
func (s *SSHRunner) remoteCommand(args []string) string {
	quoted := make([]string, 0, len(args)+1)
	quoted = append(quoted, "tmux")
	for _, a := range withSocket(s.Socket, args) {
		quoted = append(quoted, shellQuote(a))
	}
	return strings.Join(quoted, " ")
}

// Run executes tmux on the remote host. The exit status of ssh is the exit
// status of the remote tmux, except 255 which ssh reserves for its own
// connection failures.
func (s *SSHRunner) Run(ctx context.Context, args ...string) (Output, error) {
	sshArgs := append(s.sshArgs(), s.remoteCommand(args))
	cmd := exec.CommandContext(ctx, "ssh", sshArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() != 255 && ctx.Err() == nil {
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		return out, fmt.Errorf("ssh %s: %w", s.Nickname, err)
	}
	return out, nil
}

// shellQuote wraps a string in single quotes, escaping any single quotes inside.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}
