package common

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden is returned when a privileged operation is refused locally
	// because the caller's role does not allow it. The server remains the
	// authoritative guard; this sentinel only prevents doomed requests.
	ErrForbidden = errors.New("operation requires ADMIN role")

	// ErrNotLoggedIn is returned when an authenticated operation is attempted
	// without a stored session token.
	ErrNotLoggedIn = errors.New("not logged in")
)

// ValidationError reports a local, pre-submission check failure scoped to a
// single input field. Validation errors never reach the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-scoped validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
