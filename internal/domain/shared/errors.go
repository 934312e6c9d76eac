// Package shared holds the types every domain package leans on: error
// kinds, domain events, and value objects. Its only external dependency
// is decimal arithmetic.
package shared

import (
	"errors"
	"fmt"
)

// Error kinds. Every DomainError carries one of these so callers can
// classify failures with errors.Is without knowing the concrete error.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrStorage = errors.New("storage error")
)

// DomainError ties a failure to the domain and operation it came from.
// Domain and Op end up in the rendered message, Kind drives errors.Is
// classification, and Err preserves the cause for errors.Unwrap.
type DomainError struct {
	Domain  string
	Op      string
	Kind    error
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap exposes the cause when one exists, the kind otherwise, so a
// bare NewDomainError still matches its kind under errors.Is.
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is matches against both the kind and the wrapped cause. Unwrap alone
// would only follow one of the two chains.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

// NewDomainError builds a DomainError without an underlying cause.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{Domain: domain, Op: op, Kind: kind, Message: message}
}

// WrapError builds a DomainError around an underlying cause.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{Domain: domain, Op: op, Kind: kind, Message: message, Err: err}
}

// Well-known errors per domain. Defined here rather than in the domain
// packages so that application and interface layers can match on them
// without importing every entity package.

// Student domain errors
var (
	ErrStudentNotFound       = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrStudentAlreadyExists  = NewDomainError("student", "Create", ErrAlreadyExists, "student with this number already exists")
	ErrInvalidStudentNumber  = NewDomainError("student", "Validate", ErrInvalidFormat, "student number must be 10-20 digits")
	ErrDuplicateStudentEmail = NewDomainError("student", "Create", ErrAlreadyExists, "email already in use")
)

// Counselor domain errors
var (
	ErrCounselorNotFound      = NewDomainError("counselor", "Find", ErrNotFound, "counselor not found")
	ErrCounselorAlreadyExists = NewDomainError("counselor", "Create", ErrAlreadyExists, "counselor with this employee ID already exists")
)

// Submission domain errors
var (
	ErrSubmissionNotFound   = NewDomainError("submission", "Find", ErrNotFound, "submission not found")
	ErrSubmissionNotPending = NewDomainError("submission", "Review", ErrInvalidState, "submission has already been reviewed")
	ErrSubmissionDecided    = NewDomainError("submission", "Delete", ErrInvalidState, "reviewed submission cannot be deleted")
	ErrInvalidTransition    = NewDomainError("submission", "Transition", ErrStateTransition, "invalid submission status transition")
	ErrInvalidCategory      = NewDomainError("submission", "Validate", ErrInvalidInput, "unknown submission category")
)

// Rulebook domain errors
var (
	ErrRuleNotFound     = NewDomainError("rulebook", "Find", ErrNotFound, "rule not found")
	ErrInvalidRuleScore = NewDomainError("rulebook", "Validate", ErrValueOutOfRange, "rule score must be greater than zero")
)

// Notification domain errors
var (
	ErrNotificationNotFound = NewDomainError("notification", "Find", ErrNotFound, "notification not found")
)

// Identity domain errors
var (
	ErrAccountNotFound      = NewDomainError("identity", "Find", ErrNotFound, "account not found")
	ErrAccountAlreadyExists = NewDomainError("identity", "Register", ErrAlreadyExists, "account already exists")
	ErrInvalidCredentials   = NewDomainError("identity", "Authenticate", ErrUnauthorized, "invalid username or password")
	ErrPasswordMismatch     = NewDomainError("identity", "Register", ErrInvalidInput, "passwords do not match")
	ErrSessionNotFound      = NewDomainError("identity", "Session", ErrUnauthorized, "session not found or expired")
)

// Scoring domain errors
var (
	ErrInvalidScore   = NewDomainError("scoring", "Validate", ErrValueOutOfRange, "score is out of allowed range")
	ErrInvalidWeights = NewDomainError("scoring", "Validate", ErrInvalidInput, "score weights must sum to 1")
)

// Classification helpers. The HTTP layer maps these onto status codes.

// IsNotFound reports whether err is a missing-entity failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists reports whether err is a uniqueness failure.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation reports whether err stems from rejected input.
func IsValidation(err error) bool {
	for _, kind := range []error{ErrValidation, ErrInvalidID, ErrInvalidInput, ErrValueOutOfRange, ErrInvalidFormat} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// IsStateConflict reports whether err is a state machine violation.
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrInvalidState) || errors.Is(err, ErrStateTransition)
}

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden reports whether err is an authorization failure.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
