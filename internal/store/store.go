package store

import (
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"
)

// Reducer maps the current state and an action to the next state. It must
// be total: unknown action kinds return the input state unchanged.
type Reducer[S any] func(state S, action Action) (S, error)

// Pure adapts a reducer that cannot fail.
func Pure[S any](fn func(state S, action Action) S) Reducer[S] {
	return func(state S, action Action) (S, error) {
		return fn(state, action), nil
	}
}

// DispatchFunc is the dispatch surface handed to selectors and components.
type DispatchFunc func(action Action) (Action, error)

// Store holds application state and notifies listeners after each dispatch.
type Store[S any] struct {
	mu      sync.Mutex
	state   S
	reducer Reducer[S]
	subs    []*Subscription
	nextID  uint64

	dispatching atomic.Bool

	// Stats
	dispatched atomic.Uint64
	rejected   atomic.Uint64
	notified   atomic.Uint64
}

// New creates a store with the given reducer and initial state.
func New[S any](reducer Reducer[S], initial S) (*Store[S], error) {
	if reducer == nil {
		return nil, ErrNilReducer
	}
	return &Store[S]{
		state:   initial,
		reducer: reducer,
	}, nil
}

// State returns the current state. The store does not copy it.
func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Dispatch reduces the action into the next state, then notifies every
// listener subscribed at that moment, in subscription order. The action is
// returned unchanged.
func (s *Store[S]) Dispatch(action Action) (Action, error) {
	if err := action.Validate(); err != nil {
		return action, err
	}
	if !s.dispatching.CompareAndSwap(false, true) {
		s.rejected.Add(1)
		return action, ErrDispatchInProgress
	}
	defer s.dispatching.Store(false)

	s.mu.Lock()
	current := s.state
	s.mu.Unlock()

	next, err := s.reduce(current, action)
	if err != nil {
		return action, err
	}

	s.mu.Lock()
	s.state = next
	snapshot := slices.Clone(s.subs)
	s.mu.Unlock()

	s.dispatched.Add(1)

	for _, sub := range snapshot {
		s.notified.Add(1)
		if err := sub.listener(); err != nil {
			return action, err
		}
	}
	return action, nil
}

// reduce runs the reducer, converting failures and panics into ReducerError.
func (s *Store[S]) reduce(state S, action Action) (next S, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ReducerError{
				Action: action.Kind(),
				Value:  r,
				Stack:  string(debug.Stack()),
			}
		}
	}()

	next, err = s.reducer(state, action)
	if err != nil {
		return state, &ReducerError{Action: action.Kind(), Err: err}
	}
	return next, nil
}

// Subscribe registers a listener invoked after every future dispatch.
// Subscribing the same listener twice yields two independent subscriptions.
func (s *Store[S]) Subscribe(listener Listener) (*Subscription, error) {
	if listener == nil {
		return nil, ErrNilListener
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	sub := newSubscription(s.nextID, listener, s.remove)
	s.subs = append(s.subs, sub)
	return sub, nil
}

// remove drops a subscription from the live list.
func (s *Store[S]) remove(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.Index(s.subs, sub)
	if idx < 0 {
		return
	}
	s.subs = slices.Delete(s.subs, idx, idx+1)
}

// Dispatcher returns the store's dispatch surface.
func (s *Store[S]) Dispatcher() DispatchFunc {
	return s.Dispatch
}

// Stats returns store statistics.
func (s *Store[S]) Stats() Stats {
	s.mu.Lock()
	subscribers := len(s.subs)
	s.mu.Unlock()

	return Stats{
		Dispatched:    s.dispatched.Load(),
		Rejected:      s.rejected.Load(),
		Notifications: s.notified.Load(),
		Subscribers:   subscribers,
	}
}

// Stats contains counters for a store.
type Stats struct {
	// Dispatched is the number of actions successfully reduced.
	Dispatched uint64

	// Rejected is the number of reentrant dispatches refused.
	Rejected uint64

	// Notifications is the number of listener invocations.
	Notifications uint64

	// Subscribers is the number of active subscriptions.
	Subscribers int
}
