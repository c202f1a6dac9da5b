package domain

import (
	"errors"
	"fmt"

	"github.com/Pledgebase/pledgebase/pkg/geo"
)

// Common error types
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found with ID: %s", e.Entity, e.ID)
}

// NewNotFoundError creates a not found error for the given entity
func NewNotFoundError(entity, id string) error {
	return &ErrNotFound{Entity: entity, ID: id}
}

// IsNotFound reports whether err (or any error it wraps) is an ErrNotFound
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	return errors.As(err, &nf)
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}

// IsValidationError reports whether err wraps a ValidationError
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// InvariantViolationError is returned when an operation would break a rule of the
// group/list/contact graph. Nothing is written when it is returned.
type InvariantViolationError struct {
	Message string
}

func (e InvariantViolationError) Error() string {
	return e.Message
}

// NewInvariantViolation creates a new invariant violation error
func NewInvariantViolation(message string) error {
	return InvariantViolationError{Message: message}
}

// IsInvariantViolation reports whether err wraps an InvariantViolationError
func IsInvariantViolation(err error) bool {
	var iv InvariantViolationError
	return errors.As(err, &iv)
}

// PermissionError represents insufficient permissions for an operation
type PermissionError struct {
	TeamID  string `json:"team_id"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *PermissionError) Error() string {
	return e.Message
}

// NewPermissionError creates a new permission error
func NewPermissionError(teamID string, message string) *PermissionError {
	return &PermissionError{
		TeamID:  teamID,
		Message: message,
	}
}

// IsPermissionError reports whether err wraps a PermissionError
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

var (
	// ErrCentroidNotFound is returned by centroid lookups when no coordinates are
	// known for a postal code. Callers treat it as "no match".
	ErrCentroidNotFound = geo.ErrCentroidNotFound

	// ErrUnauthenticated is returned when no authenticated user is attached to the context
	ErrUnauthenticated = errors.New("user not authenticated")
)

// Messages of the invariant violations surfaced to API callers
const (
	MsgDefaultGroupDelete       = "Default group cannot be deleted"
	MsgDefaultGroupAssign       = "Cannot manually assign users to the default group"
	MsgDefaultGroupRemove       = "Cannot manually remove users from the default group"
	MsgSmartListContactMutation = "Cannot manually modify contacts for smart lists"
	MsgListNameRequired         = "List name is required"
	MsgContactEmailTaken        = "A contact with this email already exists in this team"
)
