package tmux

import (
	"errors"
	"fmt"
	"strings"
)

// UnexpectedOutputError reports a tmux invocation that either printed
// something where silence was required, or exited non-zero before its
// output could be parsed.
type UnexpectedOutputError struct {
	Intent string
	Stdout string
	Stderr string
}

func (e *UnexpectedOutputError) Error() string {
	return fmt.Sprintf("unexpected process output: intent: `%s`, stdout: `%s`, stderr: `%s`",
		e.Intent, e.Stdout, e.Stderr)
}

// ConfigError reports a tmux server missing a required option, such as
// `default-shell`.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("unexpected tmux config: `%s`", e.Reason)
}

// ParseError reports a tmux output line that does not match the grammar of
// the record it was expected to hold. Intent is the format string the
// parser expects, with tmux placeholders escaped as `##{...}`.
type ParseError struct {
	Desc   string
	Intent string
	Err    *SyntaxError
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed parsing %s: `%s`: %v", e.Desc, e.Intent, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UTF8Error reports tmux stdout that is not valid UTF-8.
type UTF8Error struct {
	Intent string
}

func (e *UTF8Error) Error() string {
	return fmt.Sprintf("failed parsing utf-8 string: output of `%s` is not valid utf-8", e.Intent)
}

// IOError reports a failure to spawn, wait for, or read from tmux.
type IOError struct {
	Intent string
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed with io: `%s`: %v", e.Intent, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IsUnexpectedOutput reports whether err carries an UnexpectedOutputError,
// optionally restricted to one intent.
func IsUnexpectedOutput(err error, intent string) bool {
	var uerr *UnexpectedOutputError
	if !errors.As(err, &uerr) {
		return false
	}
	return intent == "" || uerr.Intent == intent
}

// IsParseError reports whether err carries a ParseError.
func IsParseError(err error) bool {
	var perr *ParseError
	return errors.As(err, &perr)
}

// wrapSyntax attaches the record description and expected format to a
// grammar failure.
func wrapSyntax(desc, intent string, err error) error {
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		serr = &SyntaxError{Expected: err.Error()}
	}
	return &ParseError{Desc: desc, Intent: intent, Err: serr}
}

// requireEmpty fails unless both streams are empty. The exit status is not
// consulted: commands checked this way must be silent on success.
func requireEmpty(out Output, intent string) error {
	if len(out.Stdout) != 0 || len(out.Stderr) != 0 {
		return unexpectedOutput(out, intent)
	}
	return nil
}

// requireSuccess fails iff tmux exited non-zero; output content is ignored.
func requireSuccess(out Output, intent string) error {
	if !out.Success() {
		return unexpectedOutput(out, intent)
	}
	return nil
}

func unexpectedOutput(out Output, intent string) error {
	return &UnexpectedOutputError{
		Intent: intent,
		Stdout: lossy(out.Stdout),
		Stderr: lossy(out.Stderr),
	}
}

// lossy decodes b as UTF-8, replacing invalid sequences with U+FFFD.
func lossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
