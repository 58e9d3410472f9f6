package store

import "sync/atomic"

// SubscriptionState represents the state of a subscription.
type SubscriptionState int32

const (
	// SubscriptionStateActive means the listener is notified on dispatch.
	SubscriptionStateActive SubscriptionState = iota

	// SubscriptionStateCancelled means the subscription has been released.
	SubscriptionStateCancelled
)

// String returns a human-readable state name.
func (s SubscriptionState) String() string {
	switch s {
	case SubscriptionStateActive:
		return "active"
	case SubscriptionStateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Listener is invoked after every dispatch. A non-nil error stops the
// notification round and is returned to the dispatch caller.
type Listener func() error

// Subscription is the handle returned by Subscribe. Its only capability
// is releasing the listener.
type Subscription struct {
	id       uint64
	listener Listener
	state    atomic.Int32
	release  func(*Subscription)
}

func newSubscription(id uint64, l Listener, release func(*Subscription)) *Subscription {
	s := &Subscription{
		id:       id,
		listener: l,
		release:  release,
	}
	s.state.Store(int32(SubscriptionStateActive))
	return s
}

// ID returns the store-unique subscription identifier.
func (s *Subscription) ID() uint64 {
	return s.id
}

// State returns the current subscription state.
func (s *Subscription) State() SubscriptionState {
	return SubscriptionState(s.state.Load())
}

// Active returns true until Unsubscribe is called.
func (s *Subscription) Active() bool {
	return s.State() == SubscriptionStateActive
}

// Unsubscribe removes the listener from the store. Calling it more than
// once is a no-op.
func (s *Subscription) Unsubscribe() {
	if !s.state.CompareAndSwap(int32(SubscriptionStateActive), int32(SubscriptionStateCancelled)) {
		return
	}
	if s.release != nil {
		s.release(s)
	}
}
