// Package binding connects display components to a store.
//
// Connect takes a pair of selectors and returns a Connector. Wrapping a
// Component yields a Bound component, and mounting a Bound component
// against a store yields a Binding: one subscription, one private merge
// cache, and a render callback.
//
//	header := binding.Connect(
//	    func(s props.Props) props.Props {
//	        return props.Props{"text": s["text"]}
//	    },
//	    func(dispatch store.DispatchFunc) props.Props {
//	        return props.Props{"reverse": func() { dispatch(store.Action{Type: "reverse_text"}) }}
//	    },
//	).Wrap(headerView)
//
//	b, err := header.Mount(st, nil)
//	if err != nil {
//	    return err
//	}
//	defer b.Unmount()
//
// # Re-render rule
//
// On every store notification and every own-props change the binding
// recomputes its selectors and asks its merger for a result. The component
// is rendered again only when the merger returns a result that is not the
// Same as the one last rendered, which happens exactly when the state props
// or own props stopped being shallow-equal.
//
// # Lifecycle
//
// A Binding is Mounted until Unmount releases its subscription. An
// unmounted binding never renders again; mount the Bound component again
// to get a fresh binding.
//
// # Provider
//
// Provider plays the role of the ambient store scope: every component it
// mounts is bound to the same store, and closing it unmounts them all.
package binding
