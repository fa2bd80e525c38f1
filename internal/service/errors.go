package service

import "fmt"

// Business-rule failures are typed so handlers can map them to HTTP
// statuses without string matching. All carry user-facing messages.

// ValidationError means the input was malformed or incomplete.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// AuthError means the credentials were wrong or the actor lacks
// permission for the entity.
type AuthError struct{ Msg string }

func (e *AuthError) Error() string { return e.Msg }

// NotFoundError means the entity does not exist within the actor's couple.
type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

// ConflictError means the operation collides with existing state, such
// as a taken username or an already-full couple.
type ConflictError struct{ Msg string }

func (e *ConflictError) Error() string { return e.Msg }

// StateError means the operation is invalid for the entity's current status.
type StateError struct{ Msg string }

func (e *StateError) Error() string { return e.Msg }

// InsufficientFundsError means the actor's balance does not cover the cost.
type InsufficientFundsError struct {
	Balance int
	Cost    int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient points: balance %d, cost %d", e.Balance, e.Cost)
}

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func authf(format string, args ...any) error {
	return &AuthError{Msg: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

func statef(format string, args ...any) error {
	return &StateError{Msg: fmt.Sprintf(format, args...)}
}
