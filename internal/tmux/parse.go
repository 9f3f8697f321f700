package tmux

import (
	"fmt"
	"strconv"
)

// SyntaxError is a grammar failure. It holds copies of the strings involved
// so it stays meaningful after the parsed buffer is gone.
type SyntaxError struct {
	// Expected names the token the grammar wanted.
	Expected string
	// Input is the remaining input where the token was expected.
	Input string
}

func (e *SyntaxError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("expected %s at end of input", e.Expected)
	}
	return fmt.Sprintf("expected %s at %q", e.Expected, e.Input)
}

func expected(what, input string) *SyntaxError {
	return &SyntaxError{Expected: what, Input: input}
}

// quotedString parses a single-quoted string whose body may be empty. Inside
// the quotes `\'` stands for an apostrophe; any other byte except `\` and `'`
// is literal. The body is returned with escapes left as they are.
func quotedString(input string) (rest, body string, err error) {
	if len(input) == 0 || input[0] != '\'' {
		return input, "", expected("opening quote", input)
	}
	i := 1
	for i < len(input) {
		switch input[i] {
		case '\'':
			return input[i+1:], input[1:i], nil
		case '\\':
			if i+1 >= len(input) || input[i+1] != '\'' {
				return input, "", expected(`escaped quote after \`, input[i:])
			}
			i += 2
		default:
			i++
		}
	}
	return input, "", expected("closing quote", "")
}

// quotedNonemptyString is quotedString with a body of at least one byte.
func quotedNonemptyString(input string) (rest, body string, err error) {
	rest, body, err = quotedString(input)
	if err != nil {
		return input, "", err
	}
	if body == "" {
		return input, "", expected("non-empty quoted string", input)
	}
	return rest, body, nil
}

// boolean accepts exactly `true` or `false`.
func boolean(input string) (rest string, value bool, err error) {
	switch {
	case hasPrefix(input, "true"):
		return input[4:], true, nil
	case hasPrefix(input, "false"):
		return input[5:], false, nil
	}
	return input, false, expected("true or false", input)
}

// digits consumes one or more ASCII digits.
func digits(input string) (rest, ds string, err error) {
	i := 0
	for i < len(input) && input[i] >= '0' && input[i] <= '9' {
		i++
	}
	if i == 0 {
		return input, "", expected("digit", input)
	}
	return input[i:], input[:i], nil
}

// prefixedDigits consumes prefix followed by one or more digits and
// returns them together, which is the textual form of a tmux id.
func prefixedDigits(input string, prefix byte) (rest, token string, err error) {
	if len(input) == 0 || input[0] != prefix {
		return input, "", expected(fmt.Sprintf("%q", prefix), input)
	}
	rest, ds, err := digits(input[1:])
	if err != nil {
		return input, "", err
	}
	return rest, input[:1+len(ds)], nil
}

// char consumes exactly the byte c.
func char(input string, c byte) (rest string, err error) {
	if len(input) == 0 || input[0] != c {
		return input, expected(fmt.Sprintf("%q", c), input)
	}
	return input[1:], nil
}

// takeUntil consumes a non-empty run of bytes up to, not including, stop.
func takeUntil(input string, stop byte) (rest, token string, err error) {
	i := 0
	for i < len(input) && input[i] != stop {
		i++
	}
	if i == 0 {
		return input, "", expected(fmt.Sprintf("text before %q", stop), input)
	}
	return input[i:], input[:i], nil
}

// restOfLine consumes everything up to a line ending, possibly nothing.
func restOfLine(input string) (rest, line string) {
	i := 0
	for i < len(input) && input[i] != '\n' && input[i] != '\r' {
		i++
	}
	return input[i:], input[:i]
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// scanner threads the remaining input through a sequence of grammar steps.
// The first failing step records its error; every later step is a no-op.
type scanner struct {
	rest string
	err  error
}

func newScanner(input string) *scanner {
	return &scanner{rest: input}
}

func (s *scanner) lit(c byte) {
	if s.err != nil {
		return
	}
	s.rest, s.err = char(s.rest, c)
}

func (s *scanner) quoted() string {
	if s.err != nil {
		return ""
	}
	var body string
	s.rest, body, s.err = quotedString(s.rest)
	return body
}

func (s *scanner) quotedNonempty() string {
	if s.err != nil {
		return ""
	}
	var body string
	s.rest, body, s.err = quotedNonemptyString(s.rest)
	return body
}

func (s *scanner) boolean() bool {
	if s.err != nil {
		return false
	}
	var v bool
	s.rest, v, s.err = boolean(s.rest)
	return v
}

// uint consumes digits and converts them to an int.
func (s *scanner) uint() int {
	if s.err != nil {
		return 0
	}
	before := s.rest
	var ds string
	s.rest, ds, s.err = digits(s.rest)
	if s.err != nil {
		return 0
	}
	n, err := strconv.Atoi(ds)
	if err != nil {
		s.rest, s.err = before, expected("integer in range", before)
		return 0
	}
	return n
}

func (s *scanner) until(stop byte) string {
	if s.err != nil {
		return ""
	}
	var token string
	s.rest, token, s.err = takeUntil(s.rest, stop)
	return token
}

func (s *scanner) line() string {
	if s.err != nil {
		return ""
	}
	var line string
	s.rest, line = restOfLine(s.rest)
	return line
}

func (s *scanner) sessionID() SessionID {
	if s.err != nil {
		return ""
	}
	var id SessionID
	s.rest, id, s.err = parseSessionIDPrefix(s.rest)
	return id
}

func (s *scanner) windowID() WindowID {
	if s.err != nil {
		return ""
	}
	var id WindowID
	s.rest, id, s.err = parseWindowIDPrefix(s.rest)
	return id
}

func (s *scanner) paneID() PaneID {
	if s.err != nil {
		return ""
	}
	var id PaneID
	s.rest, id, s.err = parsePaneIDPrefix(s.rest)
	return id
}

// finish enforces that the whole input was consumed and returns the first
// error encountered, attributed to the record being parsed.
func (s *scanner) finish(desc, intent string) error {
	if s.err == nil && s.rest != "" {
		s.err = expected("end of input", s.rest)
	}
	if s.err != nil {
		return wrapSyntax(desc, intent, s.err)
	}
	return nil
}
