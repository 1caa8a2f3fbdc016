// Package sportserr defines the typed errors surfaced by the store, the entry
// service and the reports.
package sportserr

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks. Every typed error below matches exactly one
// of them (DuplicateRegistrationError also matches ErrDuplicate).
var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrDuplicate             = errors.New("duplicate")
	ErrDuplicateRegistration = errors.New("duplicate registration")
	ErrReferentialIntegrity  = errors.New("referential integrity violation")
	ErrNotRegistered         = errors.New("participant not registered for event")
	ErrStore                 = errors.New("store failure")
)

// ValidationError reports a malformed or out-of-range field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid is shorthand for a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced entity id that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound builds a NotFoundError for a numeric id.
func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: fmt.Sprint(id)}
}

// NotFoundPair builds a NotFoundError for a composite key.
func NotFoundPair(entity string, a, b int64) error {
	return &NotFoundError{Entity: entity, ID: fmt.Sprintf("(%d, %d)", a, b)}
}

// DuplicateError reports a uniqueness violation.
type DuplicateError struct {
	Entity     string
	Constraint string
}

func (e *DuplicateError) Error() string {
	if e.Constraint == "" {
		return fmt.Sprintf("%s already exists", e.Entity)
	}
	return fmt.Sprintf("%s already exists (%s)", e.Entity, e.Constraint)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// DuplicateRegistrationError reports a second registration of the same
// participant for the same event.
type DuplicateRegistrationError struct {
	EventID       int64
	ParticipantID int64
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("participant %d is already registered for event %d", e.ParticipantID, e.EventID)
}

func (e *DuplicateRegistrationError) Is(target error) bool {
	return target == ErrDuplicateRegistration || target == ErrDuplicate
}

// ReferentialIntegrityError reports a delete blocked by dependent rows.
type ReferentialIntegrityError struct {
	Entity     string
	ID         string
	Constraint string
}

func (e *ReferentialIntegrityError) Error() string {
	msg := fmt.Sprintf("%s %s is still referenced", e.Entity, e.ID)
	if e.Constraint != "" {
		msg += " (" + e.Constraint + ")"
	}
	return msg
}

func (e *ReferentialIntegrityError) Is(target error) bool { return target == ErrReferentialIntegrity }

// NotRegisteredError reports a result recorded for a participant without an
// event registration.
type NotRegisteredError struct {
	EventID       int64
	ParticipantID int64
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("participant %d is not registered for event %d", e.ParticipantID, e.EventID)
}

func (e *NotRegisteredError) Is(target error) bool { return target == ErrNotRegistered }

// StoreError wraps a backing-store failure that is not a constraint violation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

// IsDomain reports whether err is a business-rule failure the caller can act
// on, as opposed to an infrastructure error.
func IsDomain(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrStore):
		return false
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrReferentialIntegrity),
		errors.Is(err, ErrNotRegistered):
		return true
	}
	return false
}
