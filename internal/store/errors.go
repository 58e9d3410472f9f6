package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for the store.
var (
	// ErrNilReducer is returned when a store is created without a reducer.
	ErrNilReducer = errors.New("reducer cannot be nil")

	// ErrNilListener is returned when subscribing a nil listener.
	ErrNilListener = errors.New("listener cannot be nil")

	// ErrInvalidAction is returned when an action has no discriminant.
	ErrInvalidAction = errors.New("invalid action")

	// ErrDispatchInProgress is returned when Dispatch is called while another
	// dispatch is still reducing or notifying.
	ErrDispatchInProgress = errors.New("dispatch already in progress")

	// ErrReducerPanic is matched by ReducerError values caused by a panic.
	ErrReducerPanic = errors.New("reducer panicked")
)

// ReducerError reports a reducer failure. The store state is left unchanged.
type ReducerError struct {
	// Action is the discriminant of the action being reduced.
	Action string

	// Err is the error returned by the reducer, nil if it panicked.
	Err error

	// Value is the value passed to panic(), if any.
	Value any

	// Stack is the stack trace captured at the panic.
	Stack string
}

// Error implements the error interface.
func (e *ReducerError) Error() string {
	if e.Err != nil {
		return "reducer failed on action " + e.Action + ": " + e.Err.Error()
	}
	return fmt.Sprintf("reducer panicked on action %s: %v", e.Action, e.Value)
}

// Unwrap returns the underlying error.
func (e *ReducerError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is to match a panicking ReducerError with ErrReducerPanic.
func (e *ReducerError) Is(target error) bool {
	return target == ErrReducerPanic && e.Err == nil
}
