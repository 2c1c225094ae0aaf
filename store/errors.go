package store

import "errors"

// Stores wrap driver errors with fmt.Errorf("context: %w", err) and map
// missing rows and unique violations onto these sentinels. Handlers turn
// them into apperrors.
var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict indicates a unique constraint would be violated.
	ErrConflict = errors.New("conflict")
)
