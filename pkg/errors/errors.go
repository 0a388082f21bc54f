package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode string

const (
	// Local, pre-submit
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeBusy             ErrorCode = "BUSY"
	ErrCodeNoActiveSession  ErrorCode = "NO_ACTIVE_SESSION"

	// Auth provider
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeEmailAlreadyInUse  ErrorCode = "EMAIL_ALREADY_IN_USE"
	ErrCodeNetworkError       ErrorCode = "NETWORK_ERROR"
	ErrCodeSessionExpired     ErrorCode = "SESSION_EXPIRED"
	ErrCodeTooManyRequests    ErrorCode = "TOO_MANY_REQUESTS"
	ErrCodeUnknown            ErrorCode = "UNKNOWN"

	// Document store
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeDecodeError   ErrorCode = "DECODE_ERROR"
	ErrCodeReadFailure   ErrorCode = "READ_FAILURE"
	ErrCodeWriteFailure  ErrorCode = "WRITE_FAILURE"
	ErrCodeDeleteFailure ErrorCode = "DELETE_FAILURE"
)

// Error represents a structured error with code, message, and optional details
type Error struct {
	Code    ErrorCode              // Unique error code
	Message string                 // Human-readable error message
	Details map[string]interface{} // Optional additional details
	Err     error                  // Wrapped underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// HTTPStatusCode returns the HTTP status used when the error is reported over the API
func (e *Error) HTTPStatusCode() int {
	return MapErrorCodeToHTTPStatus(e.Code)
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new Error with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with code and message
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error.
// Returns ErrCodeUnknown if the error is not a structured Error.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeUnknown
}

// Message returns the user-facing message of a structured error, or err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsStoreError reports whether the code belongs to the document store family.
func IsStoreError(code ErrorCode) bool {
	switch code {
	case ErrCodeNotFound, ErrCodeDecodeError, ErrCodeReadFailure, ErrCodeWriteFailure, ErrCodeDeleteFailure:
		return true
	}
	return false
}

// MapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func MapErrorCodeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest

	case ErrCodeInvalidCredentials, ErrCodeSessionExpired, ErrCodeNoActiveSession:
		return http.StatusUnauthorized

	case ErrCodeNotFound:
		return http.StatusNotFound

	case ErrCodeEmailAlreadyInUse, ErrCodeBusy:
		return http.StatusConflict

	case ErrCodeTooManyRequests:
		return http.StatusTooManyRequests

	case ErrCodeNetworkError:
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// ValidationFailed creates a "validation failed" error carrying the violated rule
func ValidationFailed(rule, message string) *Error {
	return New(ErrCodeValidationFailed, message).WithDetail("rule", rule)
}
