package text

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/altos-research/conduit/errors"
)

// Built-in codecs. Each name is the string carried by decode and encode
// errors.
var (
	UTF8    Codec = codec{name: "UTF-8", encode: encodeUTF8, decoder: func() DecodeFunc { return utf8Decoder(nil) }}
	UTF16LE Codec = codec{name: "UTF-16LE", encode: encodeUTF16(false), decoder: func() DecodeFunc { return utf16Decoder(false, nil) }}
	UTF16BE Codec = codec{name: "UTF-16BE", encode: encodeUTF16(true), decoder: func() DecodeFunc { return utf16Decoder(true, nil) }}
	UTF32LE Codec = codec{name: "UTF-32LE", encode: encodeUTF32(false), decoder: func() DecodeFunc { return utf32Decoder(false, nil) }}
	UTF32BE Codec = codec{name: "UTF-32BE", encode: encodeUTF32(true), decoder: func() DecodeFunc { return utf32Decoder(true, nil) }}
	ASCII   Codec = codec{name: "ASCII", encode: encodeASCII, decoder: func() DecodeFunc { return asciiDecoder() }}
	Latin1  Codec = codec{name: "ISO-8859-1", encode: encodeLatin1, decoder: func() DecodeFunc { return latin1Decoder() }}
)

// LookupCodec returns the built-in codec registered under name,
// case-insensitive. "Latin-1" is accepted as an alias for "ISO-8859-1".
func LookupCodec(name string) (Codec, bool) {
	switch strings.ToUpper(name) {
	case "UTF-8", "UTF8":
		return UTF8, true
	case "UTF-16LE":
		return UTF16LE, true
	case "UTF-16BE":
		return UTF16BE, true
	case "UTF-32LE":
		return UTF32LE, true
	case "UTF-32BE":
		return UTF32BE, true
	case "ASCII", "US-ASCII":
		return ASCII, true
	case "ISO-8859-1", "LATIN-1", "LATIN1":
		return Latin1, true
	}
	return nil, false
}

// --- UTF-8 ---

func encodeUTF8(s string) ([]byte, error) {
	return []byte(s), nil
}

// utf8SeqLen returns the expected sequence length for a lead byte, or 0 if
// the byte cannot start a sequence.
func utf8SeqLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC2: // continuation bytes and overlong leads
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	case b < 0xF5:
		return 4
	default:
		return 0
	}
}

func utf8Decoder(pending []byte) DecodeFunc {
	return func(chunk []byte) DecodeResult {
		if len(chunk) == 0 {
			if len(pending) == 0 {
				return DecodeResult{Next: utf8Decoder(nil)}
			}
			return DecodeResult{Undecoded: pending}
		}
		buf := concat(pending, chunk)
		pos := 0
		for pos < len(buf) {
			b := buf[pos]
			if b < 0x80 {
				pos++
				continue
			}
			size := utf8SeqLen(b)
			if size == 0 {
				return DecodeResult{Text: string(buf[:pos]), Undecoded: buf[pos:]}
			}
			if pos+size > len(buf) {
				// A sequence split at the chunk boundary: keep it pending if
				// the bytes so far are a valid prefix.
				for j := pos + 1; j < len(buf); j++ {
					if buf[j]&0xC0 != 0x80 {
						return DecodeResult{Text: string(buf[:pos]), Undecoded: buf[pos:]}
					}
				}
				break
			}
			if r, sz := utf8.DecodeRune(buf[pos : pos+size]); r == utf8.RuneError && sz <= 1 {
				return DecodeResult{Text: string(buf[:pos]), Undecoded: buf[pos:]}
			}
			pos += size
		}
		return DecodeResult{Text: string(buf[:pos]), Next: utf8Decoder(buf[pos:])}
	}
}

// --- UTF-16 ---

func encodeUTF16(bigEndian bool) func(string) ([]byte, error) {
	return func(s string) ([]byte, error) {
		units := utf16.Encode([]rune(s))
		out := make([]byte, 0, len(units)*2)
		for _, u := range units {
			if bigEndian {
				out = append(out, byte(u>>8), byte(u))
			} else {
				out = append(out, byte(u), byte(u>>8))
			}
		}
		return out, nil
	}
}

func utf16Decoder(bigEndian bool, pending []byte) DecodeFunc {
	return func(chunk []byte) DecodeResult {
		if len(chunk) == 0 {
			if len(pending) == 0 {
				return DecodeResult{Next: utf16Decoder(bigEndian, nil)}
			}
			return DecodeResult{Undecoded: pending}
		}
		buf := concat(pending, chunk)
		var sb strings.Builder
		pos := 0
		for pos+2 <= len(buf) {
			u := readUint16(buf[pos:], bigEndian)
			switch {
			case u >= 0xD800 && u < 0xDC00: // high surrogate: needs a partner
				if pos+4 > len(buf) {
					goto incomplete
				}
				u2 := readUint16(buf[pos+2:], bigEndian)
				if u2 < 0xDC00 || u2 >= 0xE000 {
					return DecodeResult{Text: sb.String(), Undecoded: buf[pos:]}
				}
				sb.WriteRune(utf16.DecodeRune(rune(u), rune(u2)))
				pos += 4
			case u >= 0xDC00 && u < 0xE000: // lone low surrogate
				return DecodeResult{Text: sb.String(), Undecoded: buf[pos:]}
			default:
				sb.WriteRune(rune(u))
				pos += 2
			}
		}
	incomplete:
		return DecodeResult{Text: sb.String(), Next: utf16Decoder(bigEndian, buf[pos:])}
	}
}

func readUint16(b []byte, bigEndian bool) uint16 {
	if bigEndian {
		return uint16(b[0])<<8 | uint16(b[1])
	}
	return uint16(b[1])<<8 | uint16(b[0])
}

// --- UTF-32 ---

func encodeUTF32(bigEndian bool) func(string) ([]byte, error) {
	return func(s string) ([]byte, error) {
		out := make([]byte, 0, len(s)*4)
		for _, r := range s {
			v := uint32(r)
			if bigEndian {
				out = append(out, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
			} else {
				out = append(out, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
			}
		}
		return out, nil
	}
}

func utf32Decoder(bigEndian bool, pending []byte) DecodeFunc {
	return func(chunk []byte) DecodeResult {
		if len(chunk) == 0 {
			if len(pending) == 0 {
				return DecodeResult{Next: utf32Decoder(bigEndian, nil)}
			}
			return DecodeResult{Undecoded: pending}
		}
		buf := concat(pending, chunk)
		var sb strings.Builder
		pos := 0
		for pos+4 <= len(buf) {
			var v uint32
			if bigEndian {
				v = uint32(buf[pos])<<24 | uint32(buf[pos+1])<<16 | uint32(buf[pos+2])<<8 | uint32(buf[pos+3])
			} else {
				v = uint32(buf[pos+3])<<24 | uint32(buf[pos+2])<<16 | uint32(buf[pos+1])<<8 | uint32(buf[pos])
			}
			if v > 0x10FFFF || (v >= 0xD800 && v < 0xE000) {
				return DecodeResult{Text: sb.String(), Undecoded: buf[pos:]}
			}
			sb.WriteRune(rune(v))
			pos += 4
		}
		return DecodeResult{Text: sb.String(), Next: utf32Decoder(bigEndian, buf[pos:])}
	}
}

// --- ASCII / ISO-8859-1 ---

func encodeASCII(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0x7F {
			return nil, errors.EncodeFailed("ASCII", r)
		}
		out = append(out, byte(r))
	}
	return out, nil
}

func asciiDecoder() DecodeFunc {
	var dec DecodeFunc
	dec = func(chunk []byte) DecodeResult {
		for i, b := range chunk {
			if b > 0x7F {
				return DecodeResult{Text: string(chunk[:i]), Undecoded: chunk[i:]}
			}
		}
		return DecodeResult{Text: string(chunk), Next: dec}
	}
	return dec
}

func encodeLatin1(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, errors.EncodeFailed("ISO-8859-1", r)
		}
		out = append(out, byte(r))
	}
	return out, nil
}

func latin1Decoder() DecodeFunc {
	var dec DecodeFunc
	dec = func(chunk []byte) DecodeResult {
		var sb strings.Builder
		sb.Grow(len(chunk))
		for _, b := range chunk {
			sb.WriteRune(rune(b))
		}
		return DecodeResult{Text: sb.String(), Next: dec}
	}
	return dec
}
