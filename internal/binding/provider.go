package binding

import (
	"slices"

	"github.com/dshills/statebind/internal/props"
	"github.com/dshills/statebind/internal/store"
)

// Provider mounts bound components against a single store and tracks the
// live bindings so they can be released together.
type Provider[S any] struct {
	store    *store.Store[S]
	bindings map[string]*Binding[S]
	order    []string
	closed   bool
}

// NewProvider creates a provider for st.
func NewProvider[S any](st *store.Store[S]) (*Provider[S], error) {
	if st == nil {
		return nil, ErrNilStore
	}
	return &Provider[S]{
		store:    st,
		bindings: make(map[string]*Binding[S]),
	}, nil
}

// Store returns the provider's store.
func (p *Provider[S]) Store() *store.Store[S] {
	return p.store
}

// Mount mounts a bound component against the provider's store.
func (p *Provider[S]) Mount(b *Bound[S], ownProps props.Props) (*Binding[S], error) {
	if p.closed {
		return nil, ErrProviderClosed
	}

	bnd, err := b.Mount(p.store, ownProps)
	if err != nil {
		return nil, err
	}

	p.bindings[bnd.ID()] = bnd
	p.order = append(p.order, bnd.ID())
	return bnd, nil
}

// Unmount unmounts and forgets the binding with the given ID.
func (p *Provider[S]) Unmount(id string) error {
	p.prune()
	bnd, ok := p.bindings[id]
	if !ok {
		return ErrBindingNotFound
	}
	bnd.Unmount()
	p.forget(id)
	return nil
}

// Get returns a tracked binding by ID. Bindings unmounted directly through
// Binding.Unmount are no longer tracked.
func (p *Provider[S]) Get(id string) (*Binding[S], bool) {
	p.prune()
	bnd, ok := p.bindings[id]
	return bnd, ok
}

// Bindings returns the mounted bindings in mount order.
func (p *Provider[S]) Bindings() []*Binding[S] {
	p.prune()
	result := make([]*Binding[S], 0, len(p.order))
	for _, id := range p.order {
		result = append(result, p.bindings[id])
	}
	return result
}

// Len returns the number of mounted bindings.
func (p *Provider[S]) Len() int {
	p.prune()
	return len(p.bindings)
}

// Close unmounts every tracked binding in reverse mount order. Further
// mounts fail with ErrProviderClosed.
func (p *Provider[S]) Close() {
	if p.closed {
		return
	}
	p.closed = true

	for i := len(p.order) - 1; i >= 0; i-- {
		p.bindings[p.order[i]].Unmount()
	}
	p.bindings = make(map[string]*Binding[S])
	p.order = nil
}

// prune forgets bindings that were unmounted behind the provider's back.
func (p *Provider[S]) prune() {
	for _, id := range slices.Clone(p.order) {
		if !p.bindings[id].Mounted() {
			p.forget(id)
		}
	}
}

func (p *Provider[S]) forget(id string) {
	delete(p.bindings, id)
	for i, v := range p.order {
		if v == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}
