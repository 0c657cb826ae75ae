package text

import (
	"strings"

	"github.com/altos-research/conduit/pipe"
)

// FoldLines folds a consumer over each logical line of the stream: f maps
// the accumulator to a consumer run over just that line's characters (CR
// stripped, trailing LF consumed and discarded), and the consumer's result
// becomes the accumulator for the next line. f is never invoked on a
// wholly-exhausted stream.
func FoldLines[A any](f func(A) *pipe.Sink[string, A], initial A) *pipe.Sink[string, A] {
	return pipe.Then(pipe.Peek[string](), func(pk *string) *pipe.Sink[string, A] {
		if pk == nil {
			return pipe.Done[string, pipe.None, pipe.None](initial)
		}
		return pipe.Then(lineSink(f(initial)), func(a A) *pipe.Sink[string, A] {
			return FoldLines(f, a)
		})
	})
}

// WithLine processes exactly one logical line through the consumer (same
// CR/LF handling as FoldLines) and returns its result, or nil if the
// stream was already exhausted.
func WithLine[R any](snk *pipe.Sink[string, R]) *pipe.Sink[string, *R] {
	return pipe.Then(pipe.Peek[string](), func(pk *string) *pipe.Sink[string, *R] {
		if pk == nil {
			return pipe.Done[string, pipe.None, pipe.None, *R](nil)
		}
		return pipe.Then(lineSink(snk), func(r R) *pipe.Sink[string, *R] {
			return pipe.Done[string, pipe.None, pipe.None](&r)
		})
	})
}

// lineSink runs snk over the current line's characters, drains whatever of
// the line snk leaves unread, and consumes the terminating newline.
func lineSink[A any](snk *pipe.Sink[string, A]) *pipe.Sink[string, A] {
	window := pipe.Fuse(TakeWhile(func(r rune) bool { return r != '\n' }), pipe.Map(killCR))
	inner := pipe.Into(window, sinkThenDrain(snk))
	return pipe.Then(inner, func(a A) *pipe.Sink[string, A] {
		return pipe.Then(Drop(1), func(pipe.None) *pipe.Sink[string, A] {
			return pipe.Done[string, pipe.None, pipe.None](a)
		})
	})
}

// sinkThenDrain runs snk, then discards the rest of its input stream so
// the enclosing window is consumed to completion.
func sinkThenDrain[A any](snk *pipe.Sink[string, A]) *pipe.Sink[string, A] {
	return pipe.Then(snk, func(a A) *pipe.Sink[string, A] {
		return pipe.Then(pipe.SinkNull[string](), func(pipe.None) *pipe.Sink[string, A] {
			return pipe.Done[string, pipe.None, pipe.None](a)
		})
	})
}

// killCR strips a chunk-final CR; the line window splits chunks at the
// newline, so a CR preceding the newline always ends its chunk.
func killCR(s string) string {
	if strings.HasSuffix(s, "\r") {
		return s[:len(s)-1]
	}
	return s
}
