package ppg

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes client-side errors.
type ErrorCode int

const (
	ErrorUnknown ErrorCode = iota
	ErrorInvalidConfig
	ErrorConnection
	ErrorTimeout
	ErrorSerialization
	ErrorClosed
)

// String returns the string representation of an ErrorCode.
func (e ErrorCode) String() string {
	switch e {
	case ErrorInvalidConfig:
		return "invalid_config"
	case ErrorConnection:
		return "connection_error"
	case ErrorTimeout:
		return "timeout"
	case ErrorSerialization:
		return "serialization_error"
	case ErrorClosed:
		return "closed"
	default:
		return fmt.Sprintf("unknown_code_%d", e)
	}
}

// ClientError is a structured error with code and context.
type ClientError struct {
	Code    ErrorCode
	Message string
	Wrapped error
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Unwrap support.
func (e *ClientError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is comparison by code.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a ClientError with the given code and message.
func NewError(code ErrorCode, message string) *ClientError {
	return &ClientError{Code: code, Message: message}
}

// WrapError wraps an existing error with a ClientError.
func WrapError(code ErrorCode, message string, err error) *ClientError {
	return &ClientError{Code: code, Message: message, Wrapped: err}
}

// IsConnectionError reports whether err is a connection-level failure.
func IsConnectionError(err error) bool {
	var ce *ClientError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Code == ErrorConnection || ce.Code == ErrorTimeout
}
