package app

import (
	"slices"

	"github.com/dshills/statebind/internal/config"
	"github.com/dshills/statebind/internal/props"
	"github.com/dshills/statebind/internal/store"
)

// State keys.
const (
	KeyText       = "text"
	KeyBottomText = "bottomText"
)

// Action kinds handled by Reduce.
const (
	ActionReverseText   = "reverse_text"
	ActionReverseButton = "reverse_button"
	ActionReset         = "reset"
)

// InitialState builds the starting state from configuration.
func InitialState(cfg config.StateConfig) props.Props {
	return props.Props{
		KeyText:       cfg.Text,
		KeyBottomText: cfg.BottomText,
	}
}

// ResetAction returns the action that replaces both texts with cfg's.
func ResetAction(cfg config.StateConfig) store.Action {
	return store.Action{
		Type: ActionReset,
		Payload: map[string]any{
			KeyText:       cfg.Text,
			KeyBottomText: cfg.BottomText,
		},
	}
}

// Reduce is the built-in reducer. It never mutates state; handled actions
// return a fresh bag so bindings see a new value.
func Reduce(state props.Props, action store.Action) props.Props {
	switch action.Kind() {
	case ActionReverseText:
		return with(state, KeyText, reverse(state.StringOf(KeyText)))
	case ActionReverseButton:
		return with(state, KeyBottomText, reverse(state.StringOf(KeyBottomText)))
	case ActionReset:
		next := with(state, "", nil)
		for _, key := range []string{KeyText, KeyBottomText} {
			if s, ok := action.PayloadString(key); ok {
				next[key] = s
			}
		}
		return next
	default:
		return state
	}
}

// with copies state and sets key (when not empty) to value.
func with(state props.Props, key string, value any) props.Props {
	next := state.Clone()
	if next == nil {
		next = props.Props{}
	}
	if key != "" {
		next[key] = value
	}
	return next
}

func reverse(s string) string {
	r := []rune(s)
	slices.Reverse(r)
	return string(r)
}
