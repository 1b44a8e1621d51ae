package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors services return. Handlers map these onto the error
// taxonomy: bad input, not found, conflict, unauthorized.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrFutureTimestamp    = errors.New("timestamp too far in the future")
	ErrNoHousehold        = errors.New("user does not belong to a household")
	ErrAlreadyInHousehold = errors.New("user already belongs to a household")
)

// ValidationError carries a field-level message for 400 responses.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-level validation failure.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AlreadyVoidedError is returned when a second void targets an event that
// already has one; ExistingID identifies the earlier void event.
type AlreadyVoidedError struct {
	ExistingID uuid.UUID
}

func (e *AlreadyVoidedError) Error() string {
	return fmt.Sprintf("event already voided by %s", e.ExistingID)
}
