// Package errs contains sentinel errors and the tagged failure type used across layers.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email or token taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation indicates input rejected before reaching storage.
	ErrValidation = errors.New("validation")
)

// Session sentinels. Their text is shown to the user as is.
var (
	// ErrLoginRequired is returned by refresh when no local token exists.
	ErrLoginRequired = errors.New("Login Required")

	// ErrSessionExpired indicates the local token has no server-side record.
	ErrSessionExpired = errors.New("Session expired. Please log in again.")

	// ErrInvalidCredentials indicates no user matched the email/password pair.
	ErrInvalidCredentials = errors.New("Invalid email or password")

	// ErrStale indicates a response was discarded because a newer request was issued.
	ErrStale = errors.New("stale response discarded")
)
