package binding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/statebind/internal/props"
	"github.com/dshills/statebind/internal/store"
)

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// helloReducer copies the bag so selectors observe new values.
func helloReducer(state props.Props, action store.Action) props.Props {
	switch action.Kind() {
	case "reverse_text":
		next := state.Clone()
		next["text"] = reverse(state.StringOf("text"))
		return next
	case "reverse_button":
		next := state.Clone()
		next["bottomText"] = reverse(state.StringOf("bottomText"))
		return next
	default:
		return state
	}
}

func newHelloStore(t *testing.T) *store.Store[props.Props] {
	t.Helper()
	st, err := store.New(store.Pure(helloReducer), props.Props{
		"text":       "hello world",
		"bottomText": "click bottom",
	})
	require.NoError(t, err)
	return st
}

func selectText(s props.Props) props.Props {
	return props.Props{"text": s["text"]}
}

func selectBottom(s props.Props) props.Props {
	return props.Props{"bottomText": s["bottomText"]}
}

func reverseText(dispatch store.DispatchFunc) props.Props {
	return props.Props{
		"reverse": func() {
			_, _ = dispatch(store.Action{Type: "reverse_text"})
		},
	}
}

// recorder is a component that records every render.
type recorder struct {
	renders []props.Props
	err     error
}

func (r *recorder) Render(p props.Props) error {
	if r.err != nil {
		return r.err
	}
	r.renders = append(r.renders, p)
	return nil
}

func (r *recorder) last() props.Props {
	if len(r.renders) == 0 {
		return nil
	}
	return r.renders[len(r.renders)-1]
}

func TestMount_RendersOnce(t *testing.T) {
	st := newHelloStore(t)
	view := &recorder{}

	b, err := Connect(selectText, nil).Wrap(view).Mount(st, nil)
	require.NoError(t, err)
	defer b.Unmount()

	require.Len(t, view.renders, 1)
	assert.Equal(t, props.Props{"text": "hello world"}, view.last())
	assert.Equal(t, StateMounted, b.State())
	assert.True(t, b.Mounted())
	assert.Equal(t, uint64(1), b.RenderCount())
	assert.NotEmpty(t, b.ID())
	assert.Equal(t, 1, st.Stats().Subscribers)
}

func countReducer(state props.Props, action store.Action) props.Props {
	if action.Kind() != "inc" {
		return state
	}
	n, _ := state["n"].(int)
	return props.Props{"n": n + 1}
}

func selectCount(s props.Props) props.Props {
	return props.Props{"n": s["n"]}
}

func TestMount_DispatchDuringFirstRender(t *testing.T) {
	st, err := store.New(store.Pure(countReducer), props.Props{"n": 0})
	require.NoError(t, err)

	var rendered []props.Props
	view := ComponentFunc(func(p props.Props) error {
		rendered = append(rendered, p)
		if len(rendered) == 1 {
			_, err := st.Dispatch(store.Action{Type: "inc"})
			return err
		}
		return nil
	})

	b, err := Connect(selectCount, nil).Wrap(view).Mount(st, nil)
	require.NoError(t, err)
	defer b.Unmount()

	assert.Equal(t, 1, st.State()["n"])
	require.Len(t, rendered, 2, "mount must catch up with the dispatch issued while rendering")
	assert.Equal(t, 1, rendered[1]["n"])
	assert.Equal(t, 1, b.Props()["n"])
	assert.Equal(t, uint64(2), b.RenderCount())
	assert.True(t, b.Mounted())

	_, err = st.Dispatch(store.Action{Type: "other"})
	require.NoError(t, err)
	assert.Len(t, rendered, 2)
}

func TestMount_NoCatchUpWithoutDispatch(t *testing.T) {
	st, err := store.New(store.Pure(countReducer), props.Props{"n": 0})
	require.NoError(t, err)

	view := &recorder{}
	b, err := Connect(selectCount, nil).Wrap(view).Mount(st, nil)
	require.NoError(t, err)
	defer b.Unmount()

	assert.Len(t, view.renders, 1)
	assert.Equal(t, uint64(1), b.Merged().Version)
}

func TestMount_CatchUpRenderErrorUnmounts(t *testing.T) {
	st, err := store.New(store.Pure(countReducer), props.Props{"n": 0})
	require.NoError(t, err)

	renderErr := errors.New("second render failed")
	calls := 0
	view := ComponentFunc(func(props.Props) error {
		calls++
		if calls == 1 {
			_, err := st.Dispatch(store.Action{Type: "inc"})
			return err
		}
		return renderErr
	})

	_, err = Connect(selectCount, nil).Wrap(view).Mount(st, nil)
	require.ErrorIs(t, err, renderErr)
	assert.Equal(t, 0, st.Stats().Subscribers)
}

func TestUpdate_StableHandlerSkipsRender(t *testing.T) {
	handler := func() {}
	st, err := store.New(store.Pure(countReducer), props.Props{"n": 0, "h": handler})
	require.NoError(t, err)

	view := &recorder{}
	b, err := Connect(func(s props.Props) props.Props {
		return props.Props{"h": s["h"]}
	}, nil).Wrap(view).Mount(st, nil)
	require.NoError(t, err)
	defer b.Unmount()

	for range 3 {
		_, err = st.Dispatch(store.Action{Type: "other"})
		require.NoError(t, err)
	}
	assert.Len(t, view.renders, 1, "a handler passed through unchanged is the same value")
}

func TestMount_Errors(t *testing.T) {
	st := newHelloStore(t)

	_, err := Connect(selectText, nil).Wrap(&recorder{}).Mount(nil, nil)
	require.ErrorIs(t, err, ErrNilStore)

	_, err = Connect(selectText, nil).Wrap(nil).Mount(st, nil)
	require.ErrorIs(t, err, ErrNilComponent)
}

func TestConnect_DefaultSelectors(t *testing.T) {
	st := newHelloStore(t)
	view := &recorder{}

	b, err := Connect[props.Props](nil, nil).Wrap(view).Mount(st, props.Props{"label": "x"})
	require.NoError(t, err)

	assert.Equal(t, props.Props{"label": "x"}, view.last())

	_, err = st.Dispatch(store.Action{Type: "reverse_text"})
	require.NoError(t, err)
	assert.Len(t, view.renders, 1, "empty selectors never trigger re-render")
	assert.Equal(t, uint64(1), b.RenderCount())
}

func TestUpdate_SkipsUnrelatedDispatch(t *testing.T) {
	st := newHelloStore(t)
	view := &recorder{}

	b, err := Connect(selectText, reverseText).Wrap(view).Mount(st, nil)
	require.NoError(t, err)
	before := b.Merged()

	_, err = st.Dispatch(store.Action{Type: "unrelated"})
	require.NoError(t, err)
	assert.True(t, before.Same(b.Merged()))
	assert.Len(t, view.renders, 1)

	_, err = st.Dispatch(store.Action{Type: "reverse_button"})
	require.NoError(t, err)
	assert.True(t, before.Same(b.Merged()))
	assert.Len(t, view.renders, 1)
}

func TestUpdate_RerendersOnChange(t *testing.T) {
	st := newHelloStore(t)
	view := &recorder{}

	b, err := Connect(selectText, nil).Wrap(view).Mount(st, nil)
	require.NoError(t, err)
	before := b.Merged()

	_, err = st.Dispatch(store.Action{Type: "reverse_text"})
	require.NoError(t, err)

	require.Len(t, view.renders, 2)
	assert.Equal(t, props.Props{"text": "dlrow olleh"}, view.last())
	assert.False(t, before.Same(b.Merged()))
	assert.Equal(t, view.last(), b.Props())
}

func TestUpdate_DispatchPropsDriveStore(t *testing.T) {
	st := newHelloStore(t)
	view := &recorder{}

	_, err := Connect(selectText, reverseText).Wrap(view).Mount(st, nil)
	require.NoError(t, err)

	reverseFn := view.last().Func("reverse")
	require.NotNil(t, reverseFn)
	reverseFn()

	assert.Equal(t, "dlrow olleh", st.State().StringOf("text"))
	require.Len(t, view.renders, 2)
	assert.Equal(t, "dlrow olleh", view.last().StringOf("text"))
}

func TestUpdate_RapidMutations(t *testing.T) {
	st := newHelloStore(t)
	view := &recorder{}

	b, err := Connect(selectText, nil).Wrap(view).Mount(st, nil)
	require.NoError(t, err)

	for i := range 10 {
		_, err = st.Dispatch(store.Action{Type: "reverse_text"})
		require.NoError(t, err)
		_, err = st.Dispatch(store.Action{Type: "unrelated"})
		require.NoError(t, err)

		want := "hello world"
		if i%2 == 0 {
			want = "dlrow olleh"
		}
		assert.Equal(t, want, b.Props().StringOf("text"))
	}
	assert.Len(t, view.renders, 11)
}

func TestIndependentBindings(t *testing.T) {
	st := newHelloStore(t)
	headerView, bottomView := &recorder{}, &recorder{}

	header, err := Connect(selectText, nil).Wrap(headerView).Mount(st, nil)
	require.NoError(t, err)
	bottom, err := Connect(selectBottom, nil).Wrap(bottomView).Mount(st, nil)
	require.NoError(t, err)

	headerBefore, bottomBefore := header.Merged(), bottom.Merged()

	_, err = st.Dispatch(store.Action{Type: "reverse_text"})
	require.NoError(t, err)

	assert.False(t, headerBefore.Same(header.Merged()))
	assert.True(t, bottomBefore.Same(bottom.Merged()))
	assert.Len(t, headerView.renders, 2)
	assert.Len(t, bottomView.renders, 1)

	_, err = st.Dispatch(store.Action{Type: "reverse_button"})
	require.NoError(t, err)
	assert.Len(t, headerView.renders, 2)
	assert.Len(t, bottomView.renders, 2)
	assert.Equal(t, "mottob kcilc", bottomView.last().StringOf("bottomText"))
}

func TestSameBoundMountedTwice(t *testing.T) {
	st := newHelloStore(t)
	view := &recorder{}
	bound := Connect(selectText, nil).Wrap(view)

	first, err := bound.Mount(st, props.Props{"slot": 1})
	require.NoError(t, err)
	second, err := bound.Mount(st, props.Props{"slot": 2})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())

	first.Unmount()
	_, err = st.Dispatch(store.Action{Type: "reverse_text"})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first.RenderCount())
	assert.Equal(t, uint64(2), second.RenderCount())
	assert.Equal(t, 2, view.last()["slot"])
}

func TestSetOwnProps(t *testing.T) {
	st := newHelloStore(t)
	view := &recorder{}

	b, err := Connect(selectText, nil).Wrap(view).Mount(st, props.Props{"label": "a"})
	require.NoError(t, err)

	require.NoError(t, b.SetOwnProps(props.Props{"label": "a"}))
	assert.Len(t, view.renders, 1, "shallow-equal own props do not re-render")

	require.NoError(t, b.SetOwnProps(props.Props{"label": "b"}))
	require.Len(t, view.renders, 2)
	assert.Equal(t, props.Props{"label": "b", "text": "hello world"}, view.last())
	assert.Equal(t, props.Props{"label": "b"}, b.OwnProps())
}

func TestSetOwnProps_StateWinsOverOwn(t *testing.T) {
	st := newHelloStore(t)
	view := &recorder{}

	_, err := Connect(selectText, nil).Wrap(view).Mount(st, props.Props{"text": "own"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", view.last().StringOf("text"))
}

func TestUpdate_UsesLatestOwnProps(t *testing.T) {
	st := newHelloStore(t)
	view := &recorder{}

	b, err := Connect(selectText, nil).Wrap(view).Mount(st, props.Props{"label": "a"})
	require.NoError(t, err)
	require.NoError(t, b.SetOwnProps(props.Props{"label": "b"}))

	_, err = st.Dispatch(store.Action{Type: "reverse_text"})
	require.NoError(t, err)
	assert.Equal(t, props.Props{"label": "b", "text": "dlrow olleh"}, view.last())
}

func TestRefresh(t *testing.T) {
	st := newHelloStore(t)
	view := &recorder{}

	b, err := Connect(selectText, nil).Wrap(view).Mount(st, nil)
	require.NoError(t, err)

	require.NoError(t, b.Refresh())
	assert.Len(t, view.renders, 1)

	b.Unmount()
	require.ErrorIs(t, b.Refresh(), ErrUnmounted)
}

func TestUnmount(t *testing.T) {
	st := newHelloStore(t)
	view := &recorder{}

	b, err := Connect(selectText, nil).Wrap(view).Mount(st, nil)
	require.NoError(t, err)

	b.Unmount()
	assert.NotPanics(t, b.Unmount)
	assert.Equal(t, StateUnmounted, b.State())
	assert.False(t, b.Subscription().Active())
	assert.Equal(t, 0, st.Stats().Subscribers)

	_, err = st.Dispatch(store.Action{Type: "reverse_text"})
	require.NoError(t, err)
	assert.Len(t, view.renders, 1)
	require.ErrorIs(t, b.SetOwnProps(props.Props{"x": 1}), ErrUnmounted)
}

func TestUnmount_DuringNotification(t *testing.T) {
	st := newHelloStore(t)
	view := &recorder{}

	var b *Binding[props.Props]
	_, err := st.Subscribe(func() error {
		b.Unmount()
		return nil
	})
	require.NoError(t, err)

	b, err = Connect(selectText, nil).Wrap(view).Mount(st, nil)
	require.NoError(t, err)

	_, err = st.Dispatch(store.Action{Type: "reverse_text"})
	require.NoError(t, err)

	assert.Len(t, view.renders, 1, "binding unmounted earlier in the round must not render")
	assert.Equal(t, 1, st.Stats().Subscribers)
}

func TestSelectorPanic_OnMountReleasesSubscription(t *testing.T) {
	st := newHelloStore(t)

	bound := Connect(func(props.Props) props.Props {
		panic("bad selector")
	}, nil).Wrap(&recorder{})

	_, err := bound.Mount(st, nil)
	require.ErrorIs(t, err, ErrSelectorPanic)

	var se *SelectorError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "mapStateToProps", se.Selector)
	assert.Equal(t, "bad selector", se.Value)
	assert.Equal(t, 0, st.Stats().Subscribers)
}

func TestSelectorPanic_DispatchSelector(t *testing.T) {
	st := newHelloStore(t)

	_, err := Connect(selectText, func(store.DispatchFunc) props.Props {
		panic("bad dispatch selector")
	}).Wrap(&recorder{}).Mount(st, nil)

	var se *SelectorError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "mapDispatchToProps", se.Selector)
}

func TestSelectorPanic_OnUpdatePropagates(t *testing.T) {
	st := newHelloStore(t)
	view := &recorder{}

	b, err := Connect(func(s props.Props) props.Props {
		if s.StringOf("text") == "dlrow olleh" {
			panic("cannot select reversed text")
		}
		return selectText(s)
	}, nil).Wrap(view).Mount(st, nil)
	require.NoError(t, err)
	cached := b.Merged()

	_, err = st.Dispatch(store.Action{Type: "reverse_text"})
	require.ErrorIs(t, err, ErrSelectorPanic)
	assert.True(t, cached.Same(b.Merged()), "stale cache is kept")
	assert.Len(t, view.renders, 1)
}

func TestRenderError(t *testing.T) {
	st := newHelloStore(t)
	boom := errors.New("boom")

	_, err := Connect(selectText, nil).Wrap(&recorder{err: boom}).Mount(st, nil)
	require.ErrorIs(t, err, boom)

	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.NotEmpty(t, re.BindingID)
	assert.Equal(t, 0, st.Stats().Subscribers)
}

func TestRenderError_OnUpdate(t *testing.T) {
	st := newHelloStore(t)
	view := &recorder{}

	_, err := Connect(selectText, nil).Wrap(view).Mount(st, nil)
	require.NoError(t, err)

	boom := errors.New("boom")
	view.err = boom
	_, err = st.Dispatch(store.Action{Type: "reverse_text"})
	require.ErrorIs(t, err, boom)
}

func TestComponentFunc(t *testing.T) {
	st := newHelloStore(t)

	var got props.Props
	_, err := Connect(selectText, nil).Wrap(ComponentFunc(func(p props.Props) error {
		got = p
		return nil
	})).Mount(st, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got.StringOf("text"))
}

func TestLifecycleState_String(t *testing.T) {
	assert.Equal(t, "mounted", StateMounted.String())
	assert.Equal(t, "unmounted", StateUnmounted.String())
	assert.Equal(t, "unknown", LifecycleState(7).String())
}
