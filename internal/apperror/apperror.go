package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the application's failure taxonomy.
//
// Call sites never compare AppError values directly — they use
// errors.Is(err, apperror.ErrNotFound) etc., which walks the wrap chain.
//
// ErrStore marks an underlying connectivity or query failure against the
// backing graph store. An absent record is NOT a store error: lookups
// return a nil record and listings return an empty slice for that, and the
// two must never be conflated.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
	ErrStore      = errors.New("store error")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports that a value collides with an existing record — a taken
// username, a duplicate node id. HTTP handlers map this to 409.
func Conflict(resource, value string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s %q is already in use", resource, value),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Store wraps a failure from the underlying graph store with the name of
// the operation that hit it. The cause stays reachable through errors.Is /
// errors.As via the wrap chain.
//
// No retries happen at this level — whoever sits above the store decides
// whether the operation is worth repeating.
func Store(op string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrStore, cause),
		Message: fmt.Sprintf("%s: store operation failed", op),
	}
}
