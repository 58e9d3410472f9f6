package script

import "errors"

// Sentinel errors for script reducers.
var (
	// ErrReducerClosed is returned when calling a closed reducer.
	ErrReducerClosed = errors.New("script reducer is closed")

	// ErrMissingFunction is returned when the script does not define the
	// reducer function.
	ErrMissingFunction = errors.New("reducer function not defined")

	// ErrInvalidResult is returned when the reducer returns something other
	// than a table or nil.
	ErrInvalidResult = errors.New("reducer must return a table or nil")
)
