package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Main loop errors
	ErrAlreadyRunning ErrorCode = "ALREADY_RUNNING"
	ErrClosed         ErrorCode = "CLOSED"

	// Fan-out errors
	ErrListenerPanic ErrorCode = "LISTENER_PANIC"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
)

// FanoutError represents a structured error with code and details
type FanoutError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *FanoutError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *FanoutError) Unwrap() error {
	return e.Wrapped
}

// Is matches any FanoutError carrying the same code
func (e *FanoutError) Is(target error) bool {
	var targetErr *FanoutError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new FanoutError with the given code and message
func New(code ErrorCode, message string) *FanoutError {
	return &FanoutError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new FanoutError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *FanoutError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a FanoutError. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *FanoutError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *FanoutError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *FanoutError) WithDetail(key string, value interface{}) *FanoutError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var fanoutErr *FanoutError
	if errors.As(err, &fanoutErr) {
		return fanoutErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a FanoutError
func GetErrorCode(err error) ErrorCode {
	var fanoutErr *FanoutError
	if errors.As(err, &fanoutErr) {
		return fanoutErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a FanoutError
func GetErrorDetails(err error) map[string]interface{} {
	var fanoutErr *FanoutError
	if errors.As(err, &fanoutErr) {
		return fanoutErr.Details
	}
	return nil
}
