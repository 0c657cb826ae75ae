package text

import (
	"github.com/altos-research/conduit/errors"
	"github.com/altos-research/conduit/pipe"
)

// Decode converts a stream of byte chunks into a stream of text chunks
// using the codec's incremental decoder. Codepoints split across chunk
// boundaries are handled by threading the decode continuation. On an
// undecodable byte the successfully decoded prefix is still emitted, the
// undecoded remainder is pushed back upstream, and the pipeline fails with
// a decode error carrying the codec name, the consumed byte offset, and a
// short byte sample. End-of-input is flushed with an empty chunk so a
// final incomplete sequence surfaces as the same failure.
func Decode(c Codec) *pipe.Conduit[[]byte, string] {
	return decodeLoop(c, 0, c.NewDecoder())
}

func decodeLoop(c Codec, consumed int64, dec DecodeFunc) *pipe.Conduit[[]byte, string] {
	return pipe.Await(
		func(chunk []byte) *pipe.Conduit[[]byte, string] {
			if len(chunk) == 0 {
				return decodeLoop(c, consumed, dec)
			}
			return decodeStep(c, consumed, int64(len(chunk)), dec(chunk), false)
		},
		func(pipe.None) *pipe.Conduit[[]byte, string] {
			return decodeStep(c, consumed, 0, dec(nil), true)
		},
	)
}

func decodeStep(c Codec, consumed, chunkLen int64, res DecodeResult, eof bool) *pipe.Conduit[[]byte, string] {
	if res.Next != nil {
		next := func() *pipe.Conduit[[]byte, string] {
			if eof {
				return pipe.Done[[]byte, string, pipe.None](pipe.None{})
			}
			return decodeLoop(c, consumed+chunkLen, res.Next)
		}
		if res.Text != "" {
			return pipe.Yield(res.Text, next)
		}
		return next()
	}

	offset := consumed + chunkLen - int64(len(res.Undecoded))
	err := errors.DecodeFailed(c.Name(), offset, sampleBytes(res.Undecoded))
	fail := func() *pipe.Conduit[[]byte, string] {
		return pipe.PutBack(res.Undecoded, func() *pipe.Conduit[[]byte, string] {
			return pipe.Fail[[]byte, string, pipe.None, pipe.None](err)
		})
	}
	if res.Text != "" {
		return pipe.Yield(res.Text, fail)
	}
	return fail()
}

// Encode converts a stream of text chunks into byte chunks. Only codecs
// with a restricted repertoire (ASCII, ISO-8859-1) can fail, reporting the
// first unrepresentable character.
func Encode(c Codec) *pipe.Conduit[string, []byte] {
	var loop func() *pipe.Conduit[string, []byte]
	loop = func() *pipe.Conduit[string, []byte] {
		return pipe.Await(
			func(s string) *pipe.Conduit[string, []byte] {
				if s == "" {
					return loop()
				}
				b, err := c.Encode(s)
				if err != nil {
					return pipe.Fail[string, []byte, pipe.None, pipe.None](err)
				}
				return pipe.Yield(b, loop)
			},
			func(pipe.None) *pipe.Conduit[string, []byte] {
				return pipe.Done[string, []byte, pipe.None](pipe.None{})
			},
		)
	}
	return loop()
}

// DecodeFlush is a Flush-aware Decode: data chunks decode incrementally
// and the flush marker is forwarded downstream so later stages can emit
// what they have. Bytes held for an incomplete sequence stay pending
// across a flush; only end-of-input forces them out as a failure.
func DecodeFlush(c Codec) *pipe.Conduit[pipe.Flush[[]byte], pipe.Flush[string]] {
	return decodeFlushLoop(c, 0, c.NewDecoder())
}

func decodeFlushLoop(c Codec, consumed int64, dec DecodeFunc) *pipe.Conduit[pipe.Flush[[]byte], pipe.Flush[string]] {
	type fconduit = pipe.Conduit[pipe.Flush[[]byte], pipe.Flush[string]]
	return pipe.Await(
		func(elem pipe.Flush[[]byte]) *fconduit {
			chunk, ok := elem.Value()
			if !ok {
				return pipe.Yield(pipe.FlushMarker[string](), func() *fconduit {
					return decodeFlushLoop(c, consumed, dec)
				})
			}
			if len(chunk) == 0 {
				return decodeFlushLoop(c, consumed, dec)
			}
			res := dec(chunk)
			if res.Next != nil {
				next := func() *fconduit {
					return decodeFlushLoop(c, consumed+int64(len(chunk)), res.Next)
				}
				if res.Text != "" {
					return pipe.Yield(pipe.Chunk(res.Text), next)
				}
				return next()
			}
			offset := consumed + int64(len(chunk)) - int64(len(res.Undecoded))
			err := errors.DecodeFailed(c.Name(), offset, sampleBytes(res.Undecoded))
			fail := func() *fconduit {
				return pipe.PutBack(pipe.Chunk(res.Undecoded), func() *fconduit {
					return pipe.Fail[pipe.Flush[[]byte], pipe.Flush[string], pipe.None, pipe.None](err)
				})
			}
			if res.Text != "" {
				return pipe.Yield(pipe.Chunk(res.Text), fail)
			}
			return fail()
		},
		func(pipe.None) *fconduit {
			res := dec(nil)
			if res.Next != nil {
				if res.Text != "" {
					return pipe.Yield(pipe.Chunk(res.Text), func() *fconduit {
						return pipe.Done[pipe.Flush[[]byte], pipe.Flush[string], pipe.None](pipe.None{})
					})
				}
				return pipe.Done[pipe.Flush[[]byte], pipe.Flush[string], pipe.None](pipe.None{})
			}
			offset := consumed - int64(len(res.Undecoded))
			err := errors.DecodeFailed(c.Name(), offset, sampleBytes(res.Undecoded))
			return pipe.Fail[pipe.Flush[[]byte], pipe.Flush[string], pipe.None, pipe.None](err)
		},
	)
}
