// Package apperr defines the error taxonomy shared by the store, auth and
// HTTP layers. Callers match sentinels with errors.Is and validation
// failures with errors.As.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned by stores when the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when an authenticated caller targets a resource
	// it does not own.
	ErrForbidden = errors.New("forbidden")
)

// ReasonValidation is the reason string carried by every ValidationError.
const ReasonValidation = "ValidationError"

// ValidationError is a user-correctable, field-located failure.
type ValidationError struct {
	Code     int    `json:"code"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
	Location string `json:"location"`
}

// NewValidationError builds a 422 ValidationError for the given field.
func NewValidationError(location, message string) *ValidationError {
	return &ValidationError{
		Code:     http.StatusUnprocessableEntity,
		Reason:   ReasonValidation,
		Message:  message,
		Location: location,
	}
}

func (e *ValidationError) Error() string {
	return e.Location + ": " + e.Message
}

// AsValidation unwraps err into a *ValidationError if it carries one.
func AsValidation(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
