package tmux

import "bytes"

// resetSGR is the ANSI "reset all attributes" sequence.
var resetSGR = []byte("\x1b[0m")

// CleanupCapturedBuffer prepares a buffer captured with CapturePane for
// replay in a terminal.
//
// Trailing spaces and tabs are trimmed from every line, since tmux cannot
// both keep escape sequences and trim. Trailing empty lines are dropped,
// then the dropLastLines last lines, which is how shell prompts that get
// printed again on restore are kept out of the history. The last line gets
// a reset sequence tmux does not capture, so replayed attributes do not
// leak past the buffer.
func CleanupCapturedBuffer(buffer []byte, dropLastLines int) []byte {
	lines := bytes.Split(buffer, []byte{'\n'})
	for i, line := range lines {
		lines[i] = bytes.TrimRight(line, " \t")
	}
	lines = dropTrailingEmpty(lines)

	keep := len(lines) - dropLastLines
	if keep < 0 {
		keep = 0
	}
	lines = lines[:keep]

	out := make([]byte, 0, len(buffer)+len(resetSGR))
	for i, line := range lines {
		out = append(out, line...)
		if i == len(lines)-1 {
			out = append(out, resetSGR...)
		}
		out = append(out, '\n')
	}
	return out
}

// dropTrailingEmpty removes the suffix of empty lines. A buffer made only of
// empty lines is returned unchanged.
func dropTrailingEmpty(lines [][]byte) [][]byte {
	for last := len(lines) - 1; last >= 0; last-- {
		if len(lines[last]) != 0 {
			return lines[:last+1]
		}
	}
	return lines
}
