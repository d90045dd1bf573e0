package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotSupported ErrorCode = "NOT_SUPPORTED"

	// Execution errors, derived from a platform status code
	ErrOperation     ErrorCode = "OPERATION"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrPermission    ErrorCode = "PERMISSION"
	ErrNotADirectory ErrorCode = "NOT_A_DIRECTORY"
	ErrIsADirectory  ErrorCode = "IS_A_DIRECTORY"
	ErrCancelled     ErrorCode = "CANCELLED"

	// Session errors
	ErrReentrant     ErrorCode = "REENTRANT"
	ErrSessionClosed ErrorCode = "SESSION_CLOSED"
	ErrUncommitted   ErrorCode = "UNCOMMITTED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
)

// OperationError is the root of every error the module returns. Status holds
// the raw platform status code when the error came from executing a batch.
type OperationError struct {
	Code    ErrorCode
	Message string
	Status  Status
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *OperationError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (%s)", msg, e.Status)
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", msg, e.Wrapped)
	}
	return msg
}

// Unwrap implements the errors.Unwrap interface
func (e *OperationError) Unwrap() error {
	return e.Wrapped
}

// Is matches another OperationError by code, and the standard library
// sentinels by category so callers can use errors.Is(err, fs.ErrNotExist).
func (e *OperationError) Is(target error) bool {
	var targetErr *OperationError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	switch target {
	case fs.ErrNotExist:
		return e.Code == ErrNotFound
	case fs.ErrExist:
		return e.Code == ErrAlreadyExists
	case fs.ErrPermission:
		return e.Code == ErrPermission
	case fs.ErrInvalid:
		return e.Code == ErrInvalidInput
	case syscall.ENOTDIR:
		return e.Code == ErrNotADirectory
	case syscall.EISDIR:
		return e.Code == ErrIsADirectory
	}
	return false
}

// New creates a new OperationError with the given code and message
func New(code ErrorCode, message string) *OperationError {
	return &OperationError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new OperationError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *OperationError {
	return &OperationError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an OperationError
func Wrap(err error, code ErrorCode, message string) *OperationError {
	if err == nil {
		return nil
	}
	return &OperationError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *OperationError {
	if err == nil {
		return nil
	}
	return &OperationError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *OperationError) WithDetail(key string, value interface{}) *OperationError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithStatus records the platform status code on the error
func (e *OperationError) WithStatus(status Status) *OperationError {
	e.Status = status
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an OperationError
func GetErrorCode(err error) ErrorCode {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an OperationError
func GetErrorDetails(err error) map[string]interface{} {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Details
	}
	return nil
}
