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
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrPermission   ErrorCode = "PERMISSION"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// External tool errors
	ErrToolUnavailable ErrorCode = "TOOL_UNAVAILABLE"
	ErrToolTimeout     ErrorCode = "TOOL_TIMEOUT"
	ErrToolFailure     ErrorCode = "TOOL_FAILURE"

	// Deployment errors
	ErrLibNotFound   ErrorCode = "LIB_NOT_FOUND"
	ErrCopyFailed    ErrorCode = "COPY_FAILED"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrFixupFailed   ErrorCode = "FIXUP_FAILED"

	// Binary format errors
	ErrUnknownFormat   ErrorCode = "UNKNOWN_FORMAT"
	ErrUnknownPlatform ErrorCode = "UNKNOWN_PLATFORM"
)

// DeployError represents a structured error with code and details
type DeployError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DeployError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DeployError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DeployError) Is(target error) bool {
	var targetErr *DeployError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DeployError with the given code and message
func New(code ErrorCode, message string) *DeployError {
	return &DeployError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DeployError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DeployError {
	return &DeployError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DeployError
func Wrap(err error, code ErrorCode, message string) *DeployError {
	if err == nil {
		return nil
	}
	return &DeployError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DeployError {
	if err == nil {
		return nil
	}
	return &DeployError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DeployError) WithDetail(key string, value interface{}) *DeployError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var deployErr *DeployError
	if errors.As(err, &deployErr) {
		return deployErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DeployError
func GetErrorCode(err error) ErrorCode {
	var deployErr *DeployError
	if errors.As(err, &deployErr) {
		return deployErr.Code
	}
	return ErrUnknown
}
