// Package errors provides the structured error type shared by the auth flow,
// the profile service and the HTTP surface.
//
// Every failure the flow controller records carries an ErrorCode from one of
// three families: local validation (VALIDATION_FAILED, BUSY, NO_ACTIVE_SESSION),
// auth provider classifications (INVALID_CREDENTIALS, EMAIL_ALREADY_IN_USE,
// NETWORK_ERROR, SESSION_EXPIRED, TOO_MANY_REQUESTS, UNKNOWN) and document
// store failures (NOT_FOUND, DECODE_ERROR, READ_FAILURE, WRITE_FAILURE,
// DELETE_FAILURE).
//
// # Basic Usage
//
//	import "github.com/ArtemSyntax/BibermobilSauna/pkg/errors"
//
//	err := errors.New(errors.ErrCodeNoActiveSession, "No user signed in.")
//
//	// Wrap a store failure
//	err := errors.Wrap(storeErr, errors.ErrCodeWriteFailure, "Failed to save the user")
//
//	if errors.IsCode(err, errors.ErrCodeNotFound) {
//		// profile document missing
//	}
//
// The Message field is what the presentation layer shows; the wrapped Err is
// kept for logs only.
package errors
