package script

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/statebind/internal/props"
	"github.com/dshills/statebind/internal/store"
)

// Defaults for script reducers.
const (
	DefaultFunction = "reduce"
	DefaultTimeout  = time.Second
)

// Reducer runs a Lua reduce function. The underlying Lua state is not
// goroutine-safe; calls are serialized.
type Reducer struct {
	mu sync.Mutex
	L  *lua.LState

	function string
	timeout  time.Duration
	source   string
	closed   bool
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithFunction sets the name of the global reduce function.
func WithFunction(name string) Option {
	return func(r *Reducer) {
		if name != "" {
			r.function = name
		}
	}
}

// WithTimeout bounds each reduce call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Reducer) {
		r.timeout = d
	}
}

func newReducer(source string, opts []Option) *Reducer {
	r := &Reducer{
		function: DefaultFunction,
		timeout:  DefaultTimeout,
		source:   source,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	return r
}

// openSafeLibraries opens only libraries without file or process access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// The base library still exposes file loaders.
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
}

// Load compiles the script at path.
func Load(path string, opts ...Option) (*Reducer, error) {
	r := newReducer(path, opts)
	if err := r.L.DoFile(path); err != nil {
		r.L.Close()
		return nil, fmt.Errorf("loading script %s: %w", path, err)
	}
	if err := r.checkFunction(); err != nil {
		r.L.Close()
		return nil, err
	}
	return r, nil
}

// LoadString compiles a script from source.
func LoadString(src string, opts ...Option) (*Reducer, error) {
	r := newReducer("<string>", opts)
	if err := r.L.DoString(src); err != nil {
		r.L.Close()
		return nil, fmt.Errorf("loading script: %w", err)
	}
	if err := r.checkFunction(); err != nil {
		r.L.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reducer) checkFunction() error {
	if _, ok := r.L.GetGlobal(r.function).(*lua.LFunction); !ok {
		return fmt.Errorf("%w: %s in %s", ErrMissingFunction, r.function, r.source)
	}
	return nil
}

// Source returns the script path, or "<string>" for inline scripts.
func (r *Reducer) Source() string {
	return r.source
}

// Reduce calls the script with the state and action. A nil result keeps
// the current state.
func (r *Reducer) Reduce(state props.Props, action store.Action) (props.Props, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return state, ErrReducerClosed
	}

	fn, ok := r.L.GetGlobal(r.function).(*lua.LFunction)
	if !ok {
		return state, fmt.Errorf("%w: %s", ErrMissingFunction, r.function)
	}

	if r.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		r.L.SetContext(ctx)
		defer r.L.RemoveContext()
	}

	err := r.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, propsToTable(r.L, state), actionToTable(r.L, action))
	if err != nil {
		return state, fmt.Errorf("lua %s(%s): %w", r.function, action.Kind(), err)
	}

	ret := r.L.Get(-1)
	r.L.Pop(1)

	switch v := ret.(type) {
	case *lua.LNilType:
		return state, nil
	case *lua.LTable:
		return tableToProps(v), nil
	default:
		return state, fmt.Errorf("%w: got %s", ErrInvalidResult, ret.Type())
	}
}

// StoreReducer adapts the script to a store reducer.
func (r *Reducer) StoreReducer() store.Reducer[props.Props] {
	return r.Reduce
}

// Close releases the Lua state. Closing twice is a no-op.
func (r *Reducer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}
