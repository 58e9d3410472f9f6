// Package store provides the single mutable state container for statebind.
//
// A Store holds the current state, applies a reducer on every dispatched
// action, and synchronously notifies its listeners in subscription order.
//
//	st, err := store.New(store.Pure(reduce), initial)
//	if err != nil {
//	    return err
//	}
//	sub, _ := st.Subscribe(func() error {
//	    fmt.Println(st.State())
//	    return nil
//	})
//	defer sub.Unsubscribe()
//
//	if _, err := st.Dispatch(store.Action{Type: "reverse_text"}); err != nil {
//	    return err
//	}
//
// # Notification
//
// Listeners are notified from a snapshot of the subscriber list taken after
// the new state is installed. Subscribing or unsubscribing from inside a
// listener takes effect on the next dispatch.
//
// # Reentrancy
//
// Dispatching from a reducer or a listener is rejected with
// ErrDispatchInProgress. The store does not queue actions.
package store
