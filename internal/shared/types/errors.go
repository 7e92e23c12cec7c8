package types

import (
	"errors"
	"fmt"
)

// ErrRideAlreadyActive is the conflict returned when booking over a live ride
var ErrRideAlreadyActive = errors.New("ride already active")

// ValidationError rejects malformed input before any mutation happens
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError signals a data-level lookup miss
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// ConflictError signals that current state forbids the action
type ConflictError struct {
	Reason string
	Err    error
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// UnknownAppError is returned when launching an unregistered app id
type UnknownAppError struct {
	AppID string
}

func (e *UnknownAppError) Error() string {
	return fmt.Sprintf("unknown app %q", e.AppID)
}

// RideAlreadyActiveError builds the conflict for a booking attempt over status
func RideAlreadyActiveError(status RideStatus) error {
	return &ConflictError{
		Reason: fmt.Sprintf("ride is %s", status),
		Err:    ErrRideAlreadyActive,
	}
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is (or wraps) a ConflictError
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// IsUnknownApp reports whether err is (or wraps) an UnknownAppError
func IsUnknownApp(err error) bool {
	var u *UnknownAppError
	return errors.As(err, &u)
}
