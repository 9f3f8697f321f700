package tmux

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const readyIntent = "wait-for-server-ready"

// StartServer starts the tmux server if needed by creating a detached
// session named initialSessionName, then waits until the server answers.
// An existing session with that name is fine only if tmux stays silent.
func (c *Controller) StartServer(ctx context.Context, initialSessionName string) error {
	if err := c.silent(ctx, "new-session", "new-session", "-d", "-s", initialSessionName); err != nil {
		return err
	}
	return c.waitForServerReady(ctx)
}

// KillServerSession removes the session used to keep the server alive.
func (c *Controller) KillServerSession(ctx context.Context, name string) error {
	return c.KillSession(ctx, name)
}

// waitForServerReady polls list-sessions at the ready interval until it
// exits zero, racing the ready timeout. Failures to run tmux at all are
// returned right away.
func (c *Controller) waitForServerReady(ctx context.Context) error {
	pollCtx, cancel := context.WithTimeout(ctx, c.readyTimeout)
	defer cancel()
	ticker := time.NewTicker(c.readyInterval)
	defer ticker.Stop()

	timedOut := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return &UnexpectedOutputError{
			Intent: readyIntent,
			Stderr: fmt.Sprintf("server did not become ready within %s", c.readyTimeout),
		}
	}

	for {
		select {
		case <-pollCtx.Done():
			return timedOut()
		case <-ticker.C:
			out, err := c.run(pollCtx, readyIntent, "list-sessions", "-F", "#{session_name}")
			if err != nil {
				if pollCtx.Err() != nil {
					return timedOut()
				}
				return err
			}
			if out.Success() {
				return nil
			}
		}
	}
}

// Options maps option names to their raw values.
type Options map[string]string

// ParseOptions parses `show-options` output. Each line is split at its first
// space into name and value; leading spaces of the value are dropped, and so
// are entries whose value is empty or the literal `''`.
func ParseOptions(output string) Options {
	opts := Options{}
	for _, line := range strings.Split(strings.TrimRight(output, " \t\r\n"), "\n") {
		if line == "" {
			continue
		}
		name, value, _ := strings.Cut(line, " ")
		value = strings.TrimLeft(value, " ")
		if name == "" || value == "" || value == "''" {
			continue
		}
		opts[name] = value
	}
	return opts
}

// ShowOptions returns the session options, or the global ones.
func (c *Controller) ShowOptions(ctx context.Context, global bool) (Options, error) {
	args := []string{"show-options"}
	if global {
		args = append(args, "-g")
	}
	out, err := c.query(ctx, "show-options", args...)
	if err != nil {
		return nil, err
	}
	return ParseOptions(out), nil
}

// ShowOption returns the value of a single option, and false when tmux
// prints nothing for it.
func (c *Controller) ShowOption(ctx context.Context, name string, global bool) (string, bool, error) {
	args := []string{"show-options", "-w", "-q"}
	if global {
		args = append(args, "-g")
	}
	args = append(args, name)

	out, err := c.run(ctx, "show-options", args...)
	if err != nil {
		return "", false, err
	}
	if !utf8.Valid(out.Stdout) {
		return "", false, &UTF8Error{Intent: "show-options"}
	}
	value := strings.TrimRight(string(out.Stdout), " \t\r\n")
	if value == "" {
		return "", false, nil
	}
	return value, true, nil
}

// DefaultCommand returns the command tmux starts new panes with:
// `default-command` when set, otherwise `default-shell`, run as a login
// shell when it is bash.
func (c *Controller) DefaultCommand(ctx context.Context) (string, error) {
	opts, err := c.ShowOptions(ctx, true)
	if err != nil {
		return "", err
	}
	return opts.DefaultCommand()
}

// DefaultCommand applies the DefaultCommand rules to an options map.
func (o Options) DefaultCommand() (string, error) {
	shell, ok := o["default-shell"]
	if !ok {
		return "", &ConfigError{Reason: "no default-shell"}
	}
	if strings.HasSuffix(shell, "bash") {
		shell = "-l " + shell
	}
	if cmd, ok := o["default-command"]; ok {
		return cmd, nil
	}
	return shell, nil
}
