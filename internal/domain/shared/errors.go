// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")
	ErrStateResolution = errors.New("state reference does not resolve to a known variant")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrOptimisticLock         = errors.New("optimistic lock failure")
	ErrSequenceExhausted      = errors.New("sequence reservation retry budget exhausted")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Persistence errors
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "standing", "sequence"
	Op      string // Operation that failed, e.g., "Create", "Reconcile"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Student domain errors
var (
	ErrStudentNotFound      = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrStudentAlreadyExists = NewDomainError("student", "Create", ErrAlreadyExists, "student already exists")
	ErrInvalidStudentNumber = NewDomainError("student", "Validate", ErrInvalidID, "invalid student number")
	ErrInvalidProvince      = NewDomainError("student", "Validate", ErrInvalidFormat, "invalid Canadian province code")
	ErrInvalidGPA           = NewDomainError("student", "Validate", ErrValueOutOfRange, "grade point average out of range [0, 4.5]")
	ErrStudentArchived      = NewDomainError("student", "CheckStatus", ErrInvalidState, "student record is archived")
)

// Standing domain errors
var (
	ErrStandingNotFound   = NewDomainError("standing", "Find", ErrNotFound, "grade point state not found")
	ErrUnknownVariant     = NewDomainError("standing", "Resolve", ErrStateResolution, "standing reference does not map to a known variant")
	ErrStandingConflict   = NewDomainError("standing", "CompareAndSet", ErrOptimisticLock, "conflicting standing update")
	ErrStandingUnassigned = NewDomainError("standing", "Resolve", ErrInvalidState, "student has no standing assigned")
)

// Sequence domain errors
var (
	ErrUnknownSequenceKind = NewDomainError("sequence", "Validate", ErrInvalidInput, "unknown sequence kind")
	ErrReservationConflict = NewDomainError("sequence", "Reserve", ErrOptimisticLock, "sequence reservation lost the race")
	ErrRetryBudgetExceeded = NewDomainError("sequence", "Next", ErrSequenceExhausted, "could not reserve a number within the retry budget")
)

// Course domain errors
var (
	ErrCourseNotFound    = NewDomainError("course", "Find", ErrNotFound, "course not found")
	ErrInvalidCourseType = NewDomainError("course", "Validate", ErrInvalidInput, "invalid course type")
	ErrInvalidWeights    = NewDomainError("course", "Validate", ErrInvalidInput, "assignment and exam weights must sum to 1.0")
	ErrCourseInUse       = NewDomainError("course", "Delete", ErrInvalidState, "course has active registrations")
)

// Registration domain errors
var (
	ErrRegistrationNotFound = NewDomainError("registration", "Find", ErrNotFound, "registration not found")
	ErrDuplicateEnrollment  = NewDomainError("registration", "Create", ErrAlreadyExists, "student already registered in this course")
	ErrInvalidGrade         = NewDomainError("registration", "Grade", ErrValueOutOfRange, "grade must be in range [0, 1]")
)

// Program domain errors
var (
	ErrProgramNotFound = NewDomainError("program", "Find", ErrNotFound, "academic program not found")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsConflict checks if the error signals a lost optimistic-concurrency race.
func IsConflict(err error) bool {
	return errors.Is(err, ErrOptimisticLock) ||
		errors.Is(err, ErrConcurrentModification)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConcurrentModification)
}
