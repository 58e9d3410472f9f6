package store

import "fmt"

// Action is a tagged value consumed once by the reducer.
type Action struct {
	// Type is the action discriminant.
	Type string

	// Name is the legacy discriminant. When set it takes precedence over Type.
	Name string

	// Payload carries optional action data.
	Payload map[string]any
}

// Kind returns the discriminant the reducer should switch on.
func (a Action) Kind() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Type
}

// Validate reports whether the action carries a discriminant.
func (a Action) Validate() error {
	if a.Kind() == "" {
		return fmt.Errorf("%w: missing type", ErrInvalidAction)
	}
	return nil
}

// Value returns a payload field, or nil when the action has no such field.
func (a Action) Value(key string) any {
	if a.Payload == nil {
		return nil
	}
	return a.Payload[key]
}

// PayloadString returns the payload field as a string and whether it was one.
func (a Action) PayloadString(key string) (string, bool) {
	s, ok := a.Value(key).(string)
	return s, ok
}
