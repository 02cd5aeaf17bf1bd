package script

import "errors"

// Errors for script operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrFunctionNotFound is returned when a rule names a function no
	// loaded script defines.
	ErrFunctionNotFound = errors.New("script function not found")
)
