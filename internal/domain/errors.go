package domain

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when a non-admin actor attempts an admin operation.
var ErrForbidden = errors.New("User is Forbidden from performing this action")

// ValidationError is malformed or missing input. Field names the offending input when known.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError is a reference to a listing/status/region/media that does not exist.
type NotFoundError struct {
	Entity string
	Key    interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

func NewNotFound(entity string, key interface{}) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key}
}

// ConflictError rejects an operation that clashes with existing data.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// ExternalServiceError wraps a failed call to translation, geocoding or media storage.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// TransactionError means a listing mutation was rolled back.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("Failed to %s listing", e.Op)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
