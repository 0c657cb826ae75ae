package text

import (
	"strings"
	"unicode/utf8"

	"github.com/altos-research/conduit/errors"
	"github.com/altos-research/conduit/pipe"
)

// Lines re-chunks a text stream into logical lines, one output per line
// with the newline stripped. Lines split across physical chunks are
// carried forward; at end-of-input the final partial line is emitted if
// non-empty.
func Lines() *pipe.Conduit[string, string] {
	return linesLoop("")
}

func linesLoop(pending string) *pipe.Conduit[string, string] {
	return pipe.Await(
		func(chunk string) *pipe.Conduit[string, string] {
			return emitLines(pending + chunk)
		},
		func(pipe.None) *pipe.Conduit[string, string] {
			if pending != "" {
				return pipe.Yield(pending, doneLines)
			}
			return doneLines()
		},
	)
}

func emitLines(buf string) *pipe.Conduit[string, string] {
	idx := strings.IndexByte(buf, '\n')
	if idx < 0 {
		return linesLoop(buf)
	}
	line, rest := buf[:idx], buf[idx+1:]
	return pipe.Yield(line, func() *pipe.Conduit[string, string] {
		return emitLines(rest)
	})
}

func doneLines() *pipe.Conduit[string, string] {
	return pipe.Done[string, string, pipe.None](pipe.None{})
}

// LinesBounded is Lines with a cap on the length of a single line,
// bounding memory use against unterminated adversarial input. The moment
// the current unterminated line would exceed maxLen characters the
// pipeline fails with a length-exceeded error, emitting nothing for that
// line.
func LinesBounded(maxLen int) *pipe.Conduit[string, string] {
	return boundedLoop(maxLen, "")
}

func boundedLoop(maxLen int, pending string) *pipe.Conduit[string, string] {
	return pipe.Await(
		func(chunk string) *pipe.Conduit[string, string] {
			return emitBounded(maxLen, pending+chunk)
		},
		func(pipe.None) *pipe.Conduit[string, string] {
			if pending != "" {
				return pipe.Yield(pending, doneLines)
			}
			return doneLines()
		},
	)
}

func emitBounded(maxLen int, buf string) *pipe.Conduit[string, string] {
	idx := strings.IndexByte(buf, '\n')
	if idx < 0 {
		if utf8.RuneCountInString(buf) > maxLen {
			return pipe.Fail[string, string, pipe.None, pipe.None](errors.LengthExceeded(maxLen))
		}
		return boundedLoop(maxLen, buf)
	}
	line, rest := buf[:idx], buf[idx+1:]
	if utf8.RuneCountInString(line) > maxLen {
		return pipe.Fail[string, string, pipe.None, pipe.None](errors.LengthExceeded(maxLen))
	}
	return pipe.Yield(line, func() *pipe.Conduit[string, string] {
		return emitBounded(maxLen, rest)
	})
}
