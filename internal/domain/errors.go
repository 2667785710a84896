package domain

import "errors"

// ErrValidation is matched by every ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a required field that is missing or malformed.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
