package binding

import (
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/dshills/statebind/internal/props"
	"github.com/dshills/statebind/internal/store"
)

// LifecycleState represents the state of a binding.
type LifecycleState int32

const (
	// StateUnmounted means the binding is not subscribed and never renders.
	StateUnmounted LifecycleState = iota

	// StateMounted means the binding is subscribed and renders on change.
	StateMounted
)

// String returns a human-readable state name.
func (s LifecycleState) String() string {
	switch s {
	case StateUnmounted:
		return "unmounted"
	case StateMounted:
		return "mounted"
	default:
		return "unknown"
	}
}

// Binding is one mounted instance of a Bound component. It is driven from
// the store's dispatch path and is not safe for concurrent use.
type Binding[S any] struct {
	id        string
	store     *store.Store[S]
	connector *Connector[S]
	component Component

	merger *props.Merger
	sub    *store.Subscription
	state  LifecycleState

	// Set while mount runs; stale records a notification seen meanwhile.
	mounting bool
	stale    bool

	// Cache of the last render.
	merged        props.Merged
	stateProps    props.Props
	dispatchProps props.Props
	ownProps      props.Props

	renders uint64
}

func newBinding[S any](st *store.Store[S], c *Connector[S], component Component) *Binding[S] {
	return &Binding[S]{
		id:        uuid.NewString(),
		store:     st,
		connector: c,
		component: component,
		merger:    props.NewMerger(),
		state:     StateUnmounted,
	}
}

// mount subscribes, renders once, and caches the rendered inputs. A
// dispatch that lands during the first render (for example one issued by
// the component itself) is reconciled before mount returns.
func (b *Binding[S]) mount(ownProps props.Props) error {
	b.mounting = true
	defer func() { b.mounting = false }()

	sub, err := b.store.Subscribe(b.update)
	if err != nil {
		return err
	}
	b.sub = sub

	stateProps, dispatchProps, err := b.derive()
	if err != nil {
		sub.Unsubscribe()
		return err
	}

	merged := b.merger.Merge(stateProps, dispatchProps, ownProps)
	if err := b.render(merged); err != nil {
		sub.Unsubscribe()
		return err
	}

	b.remember(merged, stateProps, dispatchProps, ownProps)
	b.state = StateMounted
	b.mounting = false

	if b.stale {
		b.stale = false
		if err := b.reconcile(ownProps); err != nil {
			b.Unmount()
			return err
		}
	}
	return nil
}

// update is the store listener.
func (b *Binding[S]) update() error {
	if b.mounting {
		b.stale = true
		return nil
	}
	if b.state != StateMounted {
		return nil
	}
	return b.reconcile(b.ownProps)
}

// SetOwnProps supplies new external props. The component re-renders only
// if the merged result changed.
func (b *Binding[S]) SetOwnProps(ownProps props.Props) error {
	if b.state != StateMounted {
		return ErrUnmounted
	}
	return b.reconcile(ownProps)
}

// Refresh recomputes the selectors against the current state without a
// dispatch. It is a no-op when nothing observable changed.
func (b *Binding[S]) Refresh() error {
	return b.SetOwnProps(b.ownProps)
}

func (b *Binding[S]) reconcile(ownProps props.Props) error {
	stateProps, dispatchProps, err := b.derive()
	if err != nil {
		return err
	}

	merged := b.merger.Merge(stateProps, dispatchProps, ownProps)
	if merged.Same(b.merged) {
		return nil
	}

	if err := b.render(merged); err != nil {
		return err
	}
	b.remember(merged, stateProps, dispatchProps, ownProps)
	return nil
}

func (b *Binding[S]) render(merged props.Merged) error {
	if err := b.component.Render(merged.Props); err != nil {
		return &RenderError{BindingID: b.id, Err: err}
	}
	b.renders++
	return nil
}

func (b *Binding[S]) remember(merged props.Merged, stateProps, dispatchProps, ownProps props.Props) {
	b.merged = merged
	b.stateProps = stateProps
	b.dispatchProps = dispatchProps
	b.ownProps = ownProps
}

// derive runs both selectors against the current store.
func (b *Binding[S]) derive() (stateProps, dispatchProps props.Props, err error) {
	selector := "mapStateToProps"
	defer func() {
		if r := recover(); r != nil {
			err = &SelectorError{
				BindingID: b.id,
				Selector:  selector,
				Value:     r,
				Stack:     string(debug.Stack()),
			}
		}
	}()

	stateProps = b.connector.mapState(b.store.State())
	selector = "mapDispatchToProps"
	dispatchProps = b.connector.mapDispatch(b.store.Dispatch)
	return stateProps, dispatchProps, nil
}

// Unmount releases the subscription. It is safe to call more than once and
// from inside a store notification.
func (b *Binding[S]) Unmount() {
	if b.state != StateMounted {
		return
	}
	b.state = StateUnmounted
	b.sub.Unsubscribe()
}

// ID returns the binding's unique identifier.
func (b *Binding[S]) ID() string {
	return b.id
}

// State returns the lifecycle state.
func (b *Binding[S]) State() LifecycleState {
	return b.state
}

// Mounted reports whether the binding is mounted.
func (b *Binding[S]) Mounted() bool {
	return b.state == StateMounted
}

// Props returns the props of the last render.
func (b *Binding[S]) Props() props.Props {
	return b.merged.Props
}

// Merged returns the result of the last render, including its version token.
func (b *Binding[S]) Merged() props.Merged {
	return b.merged
}

// OwnProps returns the own props used by the last render.
func (b *Binding[S]) OwnProps() props.Props {
	return b.ownProps
}

// RenderCount returns how many times the component rendered.
func (b *Binding[S]) RenderCount() uint64 {
	return b.renders
}

// Subscription returns the binding's store subscription.
func (b *Binding[S]) Subscription() *store.Subscription {
	return b.sub
}
