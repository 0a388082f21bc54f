package authflow

import (
	"github.com/ArtemSyntax/BibermobilSauna/pkg/authprovider"
	apperrors "github.com/ArtemSyntax/BibermobilSauna/pkg/errors"
)

// Classification is the category of an auth provider failure
type Classification int

const (
	ClassNone Classification = iota
	InvalidCredentials
	EmailAlreadyInUse
	NetworkError
	SessionExpired
	TooManyRequests
	Unknown
)

type classInfo struct {
	name    string
	code    apperrors.ErrorCode
	message string
}

var classes = map[Classification]classInfo{
	InvalidCredentials: {"invalid_credentials", apperrors.ErrCodeInvalidCredentials, "Invalid email or password."},
	EmailAlreadyInUse:  {"email_already_in_use", apperrors.ErrCodeEmailAlreadyInUse, "This email address is already in use."},
	NetworkError:       {"network_error", apperrors.ErrCodeNetworkError, "Network error. Please check your connection."},
	SessionExpired:     {"session_expired", apperrors.ErrCodeSessionExpired, "Your session has expired. Please sign in again."},
	TooManyRequests:    {"too_many_requests", apperrors.ErrCodeTooManyRequests, "Too many requests. Please try again later."},
	Unknown:            {"unknown", apperrors.ErrCodeUnknown, "An unknown error occurred."},
}

func (c Classification) String() string {
	if info, ok := classes[c]; ok {
		return info.name
	}
	return ""
}

// Message is the user-facing text of the classification
func (c Classification) Message() string {
	return classes[c].message
}

// ErrorCode is the structured error code recorded for the classification
func (c Classification) ErrorCode() apperrors.ErrorCode {
	if info, ok := classes[c]; ok {
		return info.code
	}
	return ""
}

var providerClasses = map[authprovider.Code]Classification{
	authprovider.CodeWrongPassword:     InvalidCredentials,
	authprovider.CodeUserNotFound:      InvalidCredentials,
	authprovider.CodeInvalidCredential: InvalidCredentials,
	authprovider.CodeInvalidEmail:      InvalidCredentials,
	authprovider.CodeEmailAlreadyInUse: EmailAlreadyInUse,
	authprovider.CodeNetworkError:      NetworkError,
	authprovider.CodeUserTokenExpired:  SessionExpired,
	authprovider.CodeTooManyRequests:   TooManyRequests,
}

// ClassifyCode maps a provider code to its classification. Every code maps to
// exactly one classification; anything not listed is Unknown.
func ClassifyCode(code authprovider.Code) Classification {
	if c, ok := providerClasses[code]; ok {
		return c
	}
	return Unknown
}

// Classify maps a provider error to its classification. Errors that carry no
// provider code are Unknown.
func Classify(err error) Classification {
	code, ok := authprovider.CodeOf(err)
	if !ok {
		return Unknown
	}
	return ClassifyCode(code)
}

// classificationOf recovers the classification recorded for a structured error
func classificationOf(err error) Classification {
	code := apperrors.GetCode(err)
	for c, info := range classes {
		if info.code == code {
			return c
		}
	}
	return ClassNone
}
