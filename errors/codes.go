package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Stream data errors
const (
	// ErrCodeDecode indicates an invalid or incomplete byte sequence for the
	// active codec.
	ErrCodeDecode ErrorCode = "DECODE_ERROR"
	// ErrCodeEncode indicates a character unrepresentable in the target
	// encoding.
	ErrCodeEncode ErrorCode = "ENCODE_ERROR"
	// ErrCodeLengthExceeded indicates a logical line exceeded the configured
	// maximum length.
	ErrCodeLengthExceeded ErrorCode = "LENGTH_EXCEEDED"
)

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates the pipeline configuration is invalid.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Internal errors
const (
	// ErrCodeForeign wraps an externally-raised fault passed through the
	// pipeline unchanged.
	ErrCodeForeign ErrorCode = "FOREIGN_FAULT"
	// ErrCodeInternal indicates an internal pipeline error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
