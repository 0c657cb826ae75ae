package text

import (
	"unicode/utf8"

	"github.com/altos-research/conduit/pipe"
)

// TakeWhile passes characters through while pred holds, splitting the
// chunk at the first non-matching character and pushing the remainder back
// upstream. It stops permanently at the first non-match.
func TakeWhile(pred func(rune) bool) *pipe.Conduit[string, string] {
	var loop func() *pipe.Conduit[string, string]
	loop = func() *pipe.Conduit[string, string] {
		return pipe.Await(
			func(chunk string) *pipe.Conduit[string, string] {
				if chunk == "" {
					return loop()
				}
				idx := indexNotMatching(chunk, pred)
				if idx < 0 {
					return pipe.Yield(chunk, loop)
				}
				pre, post := chunk[:idx], chunk[idx:]
				stop := func() *pipe.Conduit[string, string] {
					return pipe.PutBack(post, doneLines)
				}
				if pre != "" {
					return pipe.Yield(pre, stop)
				}
				return stop()
			},
			func(pipe.None) *pipe.Conduit[string, string] { return doneLines() },
		)
	}
	return loop()
}

// DropWhile discards characters while pred holds, pushing the remainder of
// the splitting chunk back upstream. It stops permanently at the first
// non-match.
func DropWhile(pred func(rune) bool) *pipe.Sink[string, pipe.None] {
	var loop func() *pipe.Sink[string, pipe.None]
	loop = func() *pipe.Sink[string, pipe.None] {
		return pipe.Await(
			func(chunk string) *pipe.Sink[string, pipe.None] {
				idx := indexNotMatching(chunk, pred)
				if idx < 0 {
					return loop()
				}
				return pipe.PutBack(chunk[idx:], doneSink)
			},
			func(pipe.None) *pipe.Sink[string, pipe.None] { return doneSink() },
		)
	}
	return loop()
}

// Take passes through exactly n characters, splitting a chunk at the n-th
// character boundary and pushing the remainder back upstream.
func Take(n int) *pipe.Conduit[string, string] {
	var loop func(left int) *pipe.Conduit[string, string]
	loop = func(left int) *pipe.Conduit[string, string] {
		if left <= 0 {
			return doneLines()
		}
		return pipe.Await(
			func(chunk string) *pipe.Conduit[string, string] {
				if chunk == "" {
					return loop(left)
				}
				count := utf8.RuneCountInString(chunk)
				if count <= left {
					rest := left - count
					return pipe.Yield(chunk, func() *pipe.Conduit[string, string] {
						return loop(rest)
					})
				}
				idx := runeBoundary(chunk, left)
				pre, post := chunk[:idx], chunk[idx:]
				return pipe.Yield(pre, func() *pipe.Conduit[string, string] {
					return pipe.PutBack(post, doneLines)
				})
			},
			func(pipe.None) *pipe.Conduit[string, string] { return doneLines() },
		)
	}
	return loop(n)
}

// Drop consumes and discards exactly n characters, splitting a chunk at
// the n-th character boundary and pushing the remainder back upstream.
func Drop(n int) *pipe.Sink[string, pipe.None] {
	var loop func(left int) *pipe.Sink[string, pipe.None]
	loop = func(left int) *pipe.Sink[string, pipe.None] {
		if left <= 0 {
			return doneSink()
		}
		return pipe.Await(
			func(chunk string) *pipe.Sink[string, pipe.None] {
				count := utf8.RuneCountInString(chunk)
				if count < left {
					return loop(left - count)
				}
				if count == left {
					return doneSink()
				}
				idx := runeBoundary(chunk, left)
				return pipe.PutBack(chunk[idx:], doneSink)
			},
			func(pipe.None) *pipe.Sink[string, pipe.None] { return doneSink() },
		)
	}
	return loop(n)
}

func doneSink() *pipe.Sink[string, pipe.None] {
	return pipe.Done[string, pipe.None, pipe.None](pipe.None{})
}

// indexNotMatching returns the byte index of the first character failing
// pred, or -1 if every character matches.
func indexNotMatching(s string, pred func(rune) bool) int {
	for i, r := range s {
		if !pred(r) {
			return i
		}
	}
	return -1
}

// runeBoundary returns the byte index of the n-th character boundary.
func runeBoundary(s string, n int) int {
	seen := 0
	for i := range s {
		if seen == n {
			return i
		}
		seen++
	}
	return len(s)
}
