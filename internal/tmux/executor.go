package tmux

import "context"

// Output is what a finished tmux invocation left behind.
type Output struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether tmux exited with status zero.
func (o Output) Success() bool { return o.ExitCode == 0 }

// Runner runs `tmux <args>` and collects its exit status and both streams.
//
// A non-nil error means tmux could not be spawned, waited for, or read from.
// A command that ran and failed is reported through Output.ExitCode with a
// nil error. Implementations must be safe for concurrent use.
type Runner interface {
	Run(ctx context.Context, args ...string) (Output, error)
}
