package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrValidation marks input that is missing, malformed or not allowed in the current state
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a referenced entity that does not exist
	ErrNotFound = errors.New("not found")
	// ErrForbidden marks an actor without permission for the operation
	ErrForbidden = errors.New("forbidden")
	// ErrConflict marks a duplicate or a write that lost a race
	ErrConflict = errors.New("conflict")
	// ErrStore marks a persistence failure
	ErrStore = errors.New("store error")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func forbiddenf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

func conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// storeErr classifies an error coming back from a repository. what names the
// entity for not-found messages.
func storeErr(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s already exists", ErrConflict, what)
	default:
		return fmt.Errorf("%w: %s: %w", ErrStore, what, err)
	}
}
