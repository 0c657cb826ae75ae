package text

// DecodeResult is the outcome of feeding one byte chunk to an incremental
// decoder. On success Next is the continuation for the following chunk and
// Undecoded is empty. On failure Next is nil and Undecoded holds the bytes
// that could not be decoded, starting at the offending byte; it is never
// empty.
type DecodeResult struct {
	// Text is the decoded prefix, possibly empty.
	Text string
	// Next continues decoding after this chunk. nil means the chunk could
	// not be fully decoded.
	Next DecodeFunc
	// Undecoded holds the remaining undecodable bytes on failure.
	Undecoded []byte
}

// DecodeFunc is an incremental decode continuation: immutable decoder
// state threaded by the caller across chunk boundaries, so multi-byte
// sequences split across chunks decode correctly. Feeding an empty chunk
// signals end-of-input: a decoder holding an incomplete sequence
// reports failure, one at a sequence boundary reports empty success.
type DecodeFunc func(chunk []byte) DecodeResult

// Codec is a named bidirectional text/byte conversion. The name is the
// human-readable string used in error messages.
type Codec interface {
	// Name returns the encoding's human-readable name.
	Name() string
	// Encode converts text to bytes, or reports the first unrepresentable
	// character.
	Encode(s string) ([]byte, error)
	// NewDecoder returns a fresh incremental decode continuation.
	NewDecoder() DecodeFunc
}

// codec is the common Codec implementation shared by the built-in
// encodings.
type codec struct {
	name    string
	encode  func(string) ([]byte, error)
	decoder func() DecodeFunc
}

func (c codec) Name() string                    { return c.name }
func (c codec) Encode(s string) ([]byte, error) { return c.encode(s) }
func (c codec) NewDecoder() DecodeFunc          { return c.decoder() }

// NewLegacyCodec adapts a whole-chunk codec to the incremental interface.
// The decode function converts as much of its input as possible and
// returns the converted text alongside the unconsumed suffix; the adapter
// accumulates that suffix as a prefix for the next chunk. A legacy codec
// cannot reject bytes mid-stream — bytes it does not consume simply stall
// until end-of-input, where a non-empty remainder is a decode failure.
func NewLegacyCodec(name string, encode func(string) ([]byte, error), decode func([]byte) (string, []byte)) Codec {
	return codec{
		name:    name,
		encode:  encode,
		decoder: func() DecodeFunc { return legacyDecoder(decode, nil) },
	}
}

func legacyDecoder(decode func([]byte) (string, []byte), prefix []byte) DecodeFunc {
	return func(chunk []byte) DecodeResult {
		if len(chunk) == 0 {
			if len(prefix) == 0 {
				return DecodeResult{Next: legacyDecoder(decode, nil)}
			}
			return DecodeResult{Undecoded: prefix}
		}
		buf := concat(prefix, chunk)
		text, rest := decode(buf)
		return DecodeResult{Text: text, Next: legacyDecoder(decode, rest)}
	}
}

// concat joins two byte slices into a fresh buffer, so decoder state never
// aliases a caller's chunk.
func concat(a, b []byte) []byte {
	buf := make([]byte, 0, len(a)+len(b))
	buf = append(buf, a...)
	return append(buf, b...)
}

// sampleBytes returns up to the first four bytes of b, for diagnostics.
func sampleBytes(b []byte) []byte {
	if len(b) > 4 {
		b = b[:4]
	}
	return b
}
