// Package common defines shared constants and sentinel errors used across
// the register core and its collaborators. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Operation flow control.
	ErrCancelled     = errors.New("cancelled by operator")
	ErrValidation    = errors.New("validation error")
	ErrPersistFailed = errors.New("failed to persist entries")

	// Permission gate.
	ErrPermissionDenied = errors.New("permission denied")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	ErrInvalidLoginPassword = errors.New("invalid login/password")
)

// PermissionError identifies the capability an operator was missing when a
// gated operation was rejected. It wraps ErrPermissionDenied so callers can
// match it generically with errors.Is.
type PermissionError struct {
	Module string
	Action string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s.%s", e.Module, e.Action)
}

func (e *PermissionError) Unwrap() error {
	return ErrPermissionDenied
}
