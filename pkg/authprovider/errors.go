package authprovider

import (
	"errors"
	"fmt"
)

// Code is a provider error code
type Code int

// Provider error codes
const (
	CodeInvalidCustomToken     Code = 17000
	CodeCustomTokenMismatch    Code = 17002
	CodeInvalidCredential      Code = 17004
	CodeUserDisabled           Code = 17005
	CodeOperationNotAllowed    Code = 17006
	CodeEmailAlreadyInUse      Code = 17007
	CodeInvalidEmail           Code = 17008
	CodeWrongPassword          Code = 17009
	CodeTooManyRequests        Code = 17010
	CodeUserNotFound           Code = 17011
	CodeRequiresRecentLogin    Code = 17014
	CodeInvalidUserToken       Code = 17017
	CodeNetworkError           Code = 17020
	CodeUserTokenExpired       Code = 17021
	CodeInvalidAPIKey          Code = 17023
	CodeUserMismatch           Code = 17024
	CodeWeakPassword           Code = 17026
	CodeMissingEmail           Code = 17034
	CodeKeychainError          Code = 17995
	CodeInternalError          Code = 17999
)

var codeNames = map[Code]string{
	CodeInvalidCustomToken:  "invalid custom token",
	CodeCustomTokenMismatch: "custom token mismatch",
	CodeInvalidCredential:   "invalid credential",
	CodeUserDisabled:        "user disabled",
	CodeOperationNotAllowed: "operation not allowed",
	CodeEmailAlreadyInUse:   "email already in use",
	CodeInvalidEmail:        "invalid email",
	CodeWrongPassword:       "wrong password",
	CodeTooManyRequests:     "too many requests",
	CodeUserNotFound:        "user not found",
	CodeRequiresRecentLogin: "requires recent login",
	CodeInvalidUserToken:    "invalid user token",
	CodeNetworkError:        "network error",
	CodeUserTokenExpired:    "user token expired",
	CodeInvalidAPIKey:       "invalid API key",
	CodeUserMismatch:        "user mismatch",
	CodeWeakPassword:        "weak password",
	CodeMissingEmail:        "missing email",
	CodeKeychainError:       "keychain error",
	CodeInternalError:       "internal error",
}

// Known reports whether c belongs to the provider's taxonomy
func (c Code) Known() bool {
	_, ok := codeNames[c]
	return ok
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code %d", int(c))
}

// Error is a failure reported by the provider
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("auth provider: %s (%d)", e.Code, int(e.Code))
	}
	return fmt.Sprintf("auth provider: %s (%d): %s", e.Code, int(e.Code), e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a provider error with a code and description
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf extracts the provider code from err
func CodeOf(err error) (Code, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code, true
	}
	return 0, false
}
