// Package text provides incremental text decoding, encoding, and
// line-oriented re-chunking as streaming pipes. All stages tolerate
// codepoints and logical lines split arbitrarily across physical chunk
// boundaries.
//
// A Codec names a bidirectional text/byte conversion. Built-in codecs
// cover UTF-8, UTF-16LE/BE, UTF-32LE/BE, ASCII, and ISO-8859-1; the
// incremental decode continuation is immutable state threaded across
// chunks, so multi-byte sequences split mid-codepoint decode correctly.
// Whole-chunk codecs plug in through NewLegacyCodec.
//
//	src := pipe.FromSlice(chunks)
//	decoded := pipe.Through(src, text.Decode(text.UTF8))
//	lines := pipe.Through(decoded, text.Lines())
//	got, err := pipe.Connect(ctx, lines, pipe.SinkSlice[string]())
//
// Failures — an undecodable byte sequence, an unrepresentable character on
// encode, a line over the configured bound — abort the pipeline through
// the driver's error channel, running every live finalizer along the
// chain. Output already emitted before the failure point remains valid.
package text
