// Package services provides the application layer between HTTP handlers
// and the workflow, automation, and persistence packages.
package services

import (
	"errors"
	"fmt"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest      = errors.New("invalid request")
	ErrProjectNameRequired = errors.New("project name is required")
	ErrStaffNameRequired   = errors.New("staff name is required")
	ErrEmptyOrganizationID = errors.New("organization ID cannot be empty")
	ErrInvalidStatusFilter = errors.New("invalid status filter")

	// Business Logic Conflicts (409 Conflict).
	ErrProjectNotActive    = errors.New("project is not active")
	ErrTaskAlreadyDone     = errors.New("task is already completed")
	ErrTaskAlreadyAssigned = errors.New("task is already assigned")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrProjectNameRequired) ||
		errors.Is(err, ErrStaffNameRequired) ||
		errors.Is(err, ErrEmptyOrganizationID) ||
		errors.Is(err, ErrInvalidStatusFilter)
}

// IsConflictError checks if an error is a business logic conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrProjectNotActive) ||
		errors.Is(err, ErrTaskAlreadyDone) ||
		errors.Is(err, ErrTaskAlreadyAssigned)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewConflictError creates a new conflict error with context.
func NewConflictError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
