// Package apperrors defines the typed error kinds used throughout the
// server and client: ConfigurationError, ProtocolViolation,
// TransportError, and DecodeError.
package apperrors

import (
	"errors"
	"fmt"
)

// Code identifies the category of failure.
type Code string

const (
	// CodeConfiguration marks a bad flag or missing file, caught before
	// any network activity begins.
	CodeConfiguration Code = "CONFIGURATION_ERROR"
	// CodeProtocolViolation marks a peer sending a packet its role is
	// not allowed to send.
	CodeProtocolViolation Code = "PROTOCOL_VIOLATION"
	// CodeTransport marks a socket read/write failure mid-playback.
	CodeTransport Code = "TRANSPORT_ERROR"
	// CodeDecode marks a failure while parsing a MIDI file.
	CodeDecode Code = "DECODE_ERROR"
)

// AppError wraps a Code with a message and optional underlying cause.
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Configuration creates a CONFIGURATION_ERROR.
func Configuration(message string, cause error) *AppError {
	return &AppError{Code: CodeConfiguration, Message: message, Cause: cause}
}

// ProtocolViolation creates a PROTOCOL_VIOLATION error.
func ProtocolViolation(message string) *AppError {
	return &AppError{Code: CodeProtocolViolation, Message: message}
}

// Transport creates a TRANSPORT_ERROR wrapping the underlying socket error.
func Transport(message string, cause error) *AppError {
	return &AppError{Code: CodeTransport, Message: message, Cause: cause}
}

// Decode creates a DECODE_ERROR wrapping the underlying parse error.
func Decode(message string, cause error) *AppError {
	return &AppError{Code: CodeDecode, Message: message, Cause: cause}
}

// Is reports whether err carries the given code, walking the Unwrap chain.
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
