package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the store and auth layers. Handlers map these to
// HTTP status codes; everything else is a 500.
var (
	// ErrNotFound covers both true absence and rows owned by another
	// user, so ownership failures never leak existence.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate signals a uniqueness violation (username, email,
	// per-user tag name, or an already-attached note/tag link).
	ErrDuplicate = errors.New("already exists")

	// ErrBadCredentials signals an unknown username or a wrong password.
	ErrBadCredentials = errors.New("invalid username or password")

	// ErrNoSession signals a request without a resolvable session.
	ErrNoSession = errors.New("no active session")
)

// ValidationError reports a field that failed its rule. The message is
// shown to the client verbatim.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
