package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateEmail means a non-rejected request or an existing user
	// already holds the email.
	ErrDuplicateEmail = errors.New("email already registered or awaiting approval")

	// ErrInvalidState means a decision was attempted on a request that is
	// no longer pending.
	ErrInvalidState = errors.New("registration request is not pending")

	// ErrConflict means a concurrent decision won the race for the same
	// pending request. The losing call performed no provisioning.
	ErrConflict = errors.New("registration request was decided concurrently")

	ErrNotFound = errors.New("not found")
)

// ValidationError reports malformed or missing input on a single field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AuthProvisioningError means the external identity could not be created.
// The decision aborts with no local writes; the request stays pending.
type AuthProvisioningError struct {
	Err error
}

func (e *AuthProvisioningError) Error() string {
	return fmt.Sprintf("identity provisioning failed: %v", e.Err)
}

func (e *AuthProvisioningError) Unwrap() error { return e.Err }

// UserRecordError means the identity exists but the local user row could not
// be written. The decision aborts and the request stays pending; the
// provisioner attempts a compensating identity deletion, and the orphan
// sweep covers the case where that also fails.
type UserRecordError struct {
	Err error
}

func (e *UserRecordError) Error() string {
	return fmt.Sprintf("user record creation failed: %v", e.Err)
}

func (e *UserRecordError) Unwrap() error { return e.Err }
