package app

import (
	"github.com/dshills/statebind/internal/binding"
	"github.com/dshills/statebind/internal/props"
	"github.com/dshills/statebind/internal/renderer/backend"
	"github.com/dshills/statebind/internal/store"
)

// Screen rows used by the demo.
const (
	titleRow  = 0
	headerRow = 2
	bottomRow = 4
)

// widget is the clickable region shared by the demo components.
type widget struct {
	out     backend.Backend
	row     int
	width   int
	props   props.Props
	renders int
}

// Contains reports whether the cell (x, y) lies inside the widget.
func (w *widget) Contains(x, y int) bool {
	return y == w.row && x >= 0 && x < w.width
}

// Click invokes the widget's onClick prop. It reports false when the
// widget has not rendered yet or has no handler.
func (w *widget) Click() bool {
	fn := w.props.Func("onClick")
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Props returns the last rendered props.
func (w *widget) Props() props.Props {
	return w.props
}

// Renders returns how many times the binding rendered the widget.
func (w *widget) Renders() int {
	return w.renders
}

// Header shows the state's text.
type Header struct {
	widget
}

// NewHeader creates a header drawing to out.
func NewHeader(out backend.Backend) *Header {
	return &Header{widget{out: out, row: headerRow}}
}

func (h *Header) Render(p props.Props) error {
	h.props = p
	h.renders++
	h.paint()
	return nil
}

func (h *Header) paint() {
	if h.props == nil {
		return
	}
	h.out.ClearLine(h.row)
	h.width = h.out.DrawText(0, h.row, h.props.StringOf(KeyText), backend.Style{Bold: true})
}

// Bottom is a button labelled with the state's bottomText.
type Bottom struct {
	widget
}

// NewBottom creates a bottom button drawing to out.
func NewBottom(out backend.Backend) *Bottom {
	return &Bottom{widget{out: out, row: bottomRow}}
}

func (b *Bottom) Render(p props.Props) error {
	b.props = p
	b.renders++
	b.paint()
	return nil
}

func (b *Bottom) paint() {
	if b.props == nil {
		return
	}
	b.out.ClearLine(b.row)
	b.width = b.out.DrawText(0, b.row, "[ "+b.props.StringOf(KeyBottomText)+" ]", backend.Style{Reverse: true})
}

// headerState selects the header's text.
func headerState(state props.Props) props.Props {
	return props.Props{KeyText: state[KeyText]}
}

// bottomState selects the button label.
func bottomState(state props.Props) props.Props {
	return props.Props{KeyBottomText: state[KeyBottomText]}
}

// clickDispatcher binds onClick to an action of the given kind. Dispatch
// failures are reported through report.
func clickDispatcher(kind string, report func(store.Action, error)) binding.MapDispatchFunc {
	return func(dispatch store.DispatchFunc) props.Props {
		return props.Props{
			"onClick": func() {
				report(dispatch(store.Action{Type: kind}))
			},
		}
	}
}
