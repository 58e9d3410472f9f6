package binding

import (
	"errors"
	"fmt"
)

// Sentinel errors for bindings.
var (
	// ErrNilStore is returned when mounting without a store.
	ErrNilStore = errors.New("store cannot be nil")

	// ErrNilComponent is returned when wrapping a nil component.
	ErrNilComponent = errors.New("component cannot be nil")

	// ErrUnmounted is returned when updating a binding after Unmount.
	ErrUnmounted = errors.New("binding is unmounted")

	// ErrProviderClosed is returned when mounting through a closed provider.
	ErrProviderClosed = errors.New("provider is closed")

	// ErrBindingNotFound is returned when a provider does not track a binding.
	ErrBindingNotFound = errors.New("binding not found")

	// ErrSelectorPanic is matched by every SelectorError.
	ErrSelectorPanic = errors.New("selector panicked")
)

// SelectorError reports a panic raised by mapStateToProps or
// mapDispatchToProps. The binding keeps its previous cache.
type SelectorError struct {
	// BindingID identifies the binding whose selector failed.
	BindingID string

	// Selector names the failing selector.
	Selector string

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace captured at the panic.
	Stack string
}

// Error implements the error interface.
func (e *SelectorError) Error() string {
	return fmt.Sprintf("selector %s panicked in binding %s: %v", e.Selector, e.BindingID, e.Value)
}

// Is allows errors.Is to match SelectorError with ErrSelectorPanic.
func (e *SelectorError) Is(target error) bool {
	return target == ErrSelectorPanic
}

// RenderError wraps an error returned by a component's Render.
type RenderError struct {
	// BindingID identifies the binding that rendered.
	BindingID string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return "render failed in binding " + e.BindingID + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Err
}
