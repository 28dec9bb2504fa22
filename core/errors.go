package core

import (
	"errors"
)

// ErrNotFound is a sentinel error for "not found" cases
var ErrNotFound = errors.New("not found")

// ErrStoreNotInitialized is returned when a repository is used before the
// database connection has been established. This is a configuration error and
// is never silently defaulted.
var ErrStoreNotInitialized = errors.New("warning store not initialized")

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound)
}
