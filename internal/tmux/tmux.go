// Package tmux is a typed client for the tmux terminal multiplexer.
//
// Every operation runs one tmux subcommand through a Runner, checks the
// result, and parses machine-readable output requested with a fixed `-F`
// format into typed values. The package keeps no state between calls: all
// state lives in the tmux server, and callers re-query to observe changes.
package tmux

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultReadyInterval = 50 * time.Millisecond
	defaultReadyTimeout  = 5 * time.Second
)

// Controller issues tmux commands through a Runner.
type Controller struct {
	runner        Runner
	readyInterval time.Duration
	readyTimeout  time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

// WithReadyInterval sets how often StartServer polls the new server.
func WithReadyInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.readyInterval = d
		}
	}
}

// WithReadyTimeout sets how long StartServer waits for the new server.
func WithReadyTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.readyTimeout = d
		}
	}
}

// NewController returns a Controller driving tmux through runner.
// A nil runner means a LocalRunner using tmux from PATH.
func NewController(runner Runner, opts ...Option) *Controller {
	if runner == nil {
		runner = &LocalRunner{}
	}
	c := &Controller{
		runner:        runner,
		readyInterval: defaultReadyInterval,
		readyTimeout:  defaultReadyTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// run invokes tmux, turning a process failure into an IOError.
func (c *Controller) run(ctx context.Context, intent string, args ...string) (Output, error) {
	out, err := c.runner.Run(ctx, args...)
	if err != nil {
		return out, &IOError{Intent: intent, Err: err}
	}
	return out, nil
}

// silent runs a mutation that must print nothing on success.
func (c *Controller) silent(ctx context.Context, intent string, args ...string) error {
	out, err := c.run(ctx, intent, args...)
	if err != nil {
		return err
	}
	return requireEmpty(out, intent)
}

// query runs a command that must exit zero and returns its stdout as text.
func (c *Controller) query(ctx context.Context, intent string, args ...string) (string, error) {
	out, err := c.run(ctx, intent, args...)
	if err != nil {
		return "", err
	}
	if err := requireSuccess(out, intent); err != nil {
		return "", err
	}
	if !utf8.Valid(out.Stdout) {
		return "", &UTF8Error{Intent: intent}
	}
	return string(out.Stdout), nil
}

// parseLines feeds every line of output to parse. A trailing newline does
// not produce an extra record; empty output yields no records.
func parseLines[T any](output string, parse func(string) (T, error)) ([]T, error) {
	output = strings.TrimRight(output, "\n")
	if output == "" {
		return nil, nil
	}
	lines := strings.Split(output, "\n")
	records := make([]T, 0, len(lines))
	for _, line := range lines {
		r, err := parse(line)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// exact prefixes a user-chosen name with `=` so tmux matches it exactly
// instead of by prefix or pattern.
func exact(name string) string {
	return "=" + name
}
