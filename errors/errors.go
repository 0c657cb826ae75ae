// Package errors provides unified error handling for streaming pipelines.
package errors

import (
	stderrors "errors"
	"fmt"
)

// StreamError is the unified pipeline error type.
type StreamError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *StreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *StreamError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *StreamError) WithCause(cause error) *StreamError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *StreamError) WithDetails(details map[string]any) *StreamError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *StreamError) WithDetail(key string, value any) *StreamError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new StreamError.
func New(code ErrorCode, message string) *StreamError {
	return &StreamError{Code: code, Message: message}
}

// --- Common Error Constructors ---

// DecodeFailed creates a new StreamError for an invalid or incomplete byte
// sequence. The offset is the number of bytes consumed before the first
// undecodable byte; sample holds up to the first four undecoded bytes.
func DecodeFailed(codec string, offset int64, sample []byte) *StreamError {
	return &StreamError{
		Code:    ErrCodeDecode,
		Message: fmt.Sprintf("invalid %s byte sequence at offset %d: % X", codec, offset, sample),
		Details: map[string]any{"codec": codec, "offset": offset, "sample": fmt.Sprintf("% X", sample)},
	}
}

// EncodeFailed creates a new StreamError for a character that cannot be
// represented in the target encoding.
func EncodeFailed(codec string, char rune) *StreamError {
	return &StreamError{
		Code:    ErrCodeEncode,
		Message: fmt.Sprintf("character %q cannot be encoded as %s", char, codec),
		Details: map[string]any{"codec": codec, "char": string(char)},
	}
}

// LengthExceeded creates a new StreamError for a logical line that exceeded
// the configured maximum length.
func LengthExceeded(max int) *StreamError {
	return &StreamError{
		Code:    ErrCodeLengthExceeded,
		Message: fmt.Sprintf("line length exceeded maximum of %d", max),
		Details: map[string]any{"max": max},
	}
}

// InvalidConfig creates a new StreamError for invalid configuration.
func InvalidConfig(reason string) *StreamError {
	return &StreamError{Code: ErrCodeInvalidConfig, Message: reason}
}

// Internal creates a new StreamError for an internal pipeline error.
func Internal(cause error) *StreamError {
	return &StreamError{
		Code:    ErrCodeInternal,
		Message: "an unexpected pipeline error occurred",
		Cause:   cause,
	}
}

// Foreign wraps an externally-raised fault so it can travel the pipeline's
// failure channel unchanged. If err is already a StreamError it is returned
// as-is.
func Foreign(err error) *StreamError {
	if err == nil {
		return nil
	}
	var se *StreamError
	if stderrors.As(err, &se) {
		return se
	}
	return &StreamError{
		Code:    ErrCodeForeign,
		Message: err.Error(),
		Cause:   err,
	}
}

// --- Helpers ---

// AsStreamError extracts a StreamError from an error chain.
func AsStreamError(err error) (*StreamError, bool) {
	var se *StreamError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	se, ok := AsStreamError(err)
	return ok && se.Code == code
}
