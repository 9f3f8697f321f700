package tmux

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// LocalRunner runs tmux on the local machine.
type LocalRunner struct {
	// Binary is the tmux executable. Empty means look up "tmux" on PATH.
	Binary string
	// Socket, when set, is passed as `-L <socket>` to select a separate server.
	Socket string
}

// FindTmux locates the tmux binary.
func FindTmux() (string, error) {
	return exec.LookPath("tmux")
}

func (l *LocalRunner) binary() (string, error) {
	if l.Binary != "" {
		return l.Binary, nil
	}
	return FindTmux()
}

// Run executes tmux with the given args and waits for it to exit.
func (l *LocalRunner) Run(ctx context.Context, args ...string) (Output, error) {
	bin, err := l.binary()
	if err != nil {
		return Output{}, err
	}

	cmd := exec.CommandContext(ctx, bin, withSocket(l.Socket, args)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		return out, err
	}
	return out, nil
}

// withSocket prepends `-L socket` when a socket name is configured.
func withSocket(socket string, args []string) []string {
	if socket == "" {
		return args
	}
	full := make([]string, 0, len(args)+2)
	full = append(full, "-L", socket)
	return append(full, args...)
}
