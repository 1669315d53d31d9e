package errors

import (
	"errors"
	"fmt"
)

// Domain error values for the profile and link services. Expected business
// outcomes (missing resources, ownership mismatches, username conflicts) are
// returned as these typed values, never as panics or generic failures.

// ErrProfileNotFound is returned when no profile exists for the referenced
// owner or username.
var ErrProfileNotFound = errors.New("profile not found")

// ErrProfileExists is returned when an owner who already has a profile tries
// to create a second one.
var ErrProfileExists = errors.New("profile already exists for this user")

// ErrLinkNotFound is returned when a link does not exist or does not belong
// to the caller's profile.
var ErrLinkNotFound = errors.New("link not found")

// ErrForbidden is returned when the caller is authenticated but does not own
// the referenced resource.
var ErrForbidden = errors.New("caller does not own this resource")

// ErrUsernameTaken is returned when a profile create or update collides with
// an existing username.
var ErrUsernameTaken = errors.New("username is already taken")

// ValidationError reports a rejected input field. Validation happens before
// any write, so a ValidationError implies no partial state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidation builds a ValidationError for the given field.
func NewValidation(field, reason string) error {
	return ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
