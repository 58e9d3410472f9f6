package binding

import (
	"github.com/dshills/statebind/internal/props"
	"github.com/dshills/statebind/internal/store"
)

// MapStateFunc derives props from the store state.
type MapStateFunc[S any] func(state S) props.Props

// MapDispatchFunc derives props from the store's dispatch surface.
type MapDispatchFunc func(dispatch store.DispatchFunc) props.Props

// Component is a display component. Render receives the merged props as
// plain input and is only called when they changed.
type Component interface {
	Render(p props.Props) error
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(p props.Props) error

// Render calls f(p).
func (f ComponentFunc) Render(p props.Props) error {
	return f(p)
}

func emptyState[S any](S) props.Props {
	return props.Props{}
}

func emptyDispatch(store.DispatchFunc) props.Props {
	return props.Props{}
}

// Connector holds the selector pair shared by every component it wraps.
type Connector[S any] struct {
	mapState    MapStateFunc[S]
	mapDispatch MapDispatchFunc
}

// Connect creates a connector. Nil selectors default to functions that
// return an empty bag.
func Connect[S any](mapState MapStateFunc[S], mapDispatch MapDispatchFunc) *Connector[S] {
	if mapState == nil {
		mapState = emptyState[S]
	}
	if mapDispatch == nil {
		mapDispatch = emptyDispatch
	}
	return &Connector[S]{
		mapState:    mapState,
		mapDispatch: mapDispatch,
	}
}

// Wrap binds the connector's selectors to a component.
func (c *Connector[S]) Wrap(component Component) *Bound[S] {
	return &Bound[S]{
		connector: c,
		component: component,
	}
}

// Bound is a connected component ready to be mounted. It may be mounted any
// number of times; each mount is an independent Binding.
type Bound[S any] struct {
	connector *Connector[S]
	component Component
}

// Component returns the wrapped display component.
func (b *Bound[S]) Component() Component {
	return b.component
}

// Mount subscribes a new binding to st, renders the component once, and
// returns the mounted binding. On failure nothing stays subscribed.
func (b *Bound[S]) Mount(st *store.Store[S], ownProps props.Props) (*Binding[S], error) {
	if st == nil {
		return nil, ErrNilStore
	}
	if b.component == nil {
		return nil, ErrNilComponent
	}

	bnd := newBinding(st, b.connector, b.component)
	if err := bnd.mount(ownProps); err != nil {
		return nil, err
	}
	return bnd, nil
}
