// Package apperr defines the error kinds coordinators surface to callers.
// Each kind needs different user-facing handling, so callers classify with
// errors.Is and render accordingly; the HTTP layer maps kinds to statuses.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed input: bad time ordering, out-of-range
	// duration, a past date.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState marks an operation attempted on an appointment that is
	// not in the required source state.
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict marks a failed availability check.
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks a referenced id absent from the store.
	ErrNotFound = errors.New("not found")
)

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

func InvalidStatef(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidState)
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}
