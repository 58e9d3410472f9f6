package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullBackend_DrawText(t *testing.T) {
	b := NewNullBackend(10, 3)
	require.NoError(t, b.Init())

	n := b.DrawText(2, 1, "hello world", Style{Bold: true})
	assert.Equal(t, 8, n, "text is clipped at the right edge")
	assert.Equal(t, "  hello wo", b.Line(1))
	assert.True(t, b.StyleAt(2, 1).Bold)
	assert.Equal(t, 0, b.DrawText(0, 5, "off screen", Style{}))

	b.ClearLine(1)
	assert.Empty(t, b.Line(1))

	b.DrawText(0, 0, "x", Style{})
	b.Clear()
	assert.Empty(t, b.Line(0))

	b.Show()
	assert.Equal(t, 1, b.Shows())
}

func TestNullBackend_Events(t *testing.T) {
	b := NewNullBackend(10, 3)
	require.NoError(t, b.Init())

	b.Inject(Event{Type: EventKey, Key: KeyRune, Rune: 'q'})
	require.NoError(t, b.Interrupt("reload"))
	b.Resize(20, 4)

	ev := b.PollEvent()
	assert.Equal(t, EventKey, ev.Type)
	assert.Equal(t, 'q', ev.Rune)

	ev = b.PollEvent()
	assert.Equal(t, EventInterrupt, ev.Type)
	assert.Equal(t, "reload", ev.Data)

	ev = b.PollEvent()
	assert.Equal(t, EventResize, ev.Type)
	w, h := b.Size()
	assert.Equal(t, 20, w)
	assert.Equal(t, 4, h)
}

func TestModMask_Has(t *testing.T) {
	m := ModCtrl | ModAlt
	assert.True(t, m.Has(ModCtrl))
	assert.False(t, m.Has(ModShift))
}

func TestStringWidth(t *testing.T) {
	assert.Equal(t, 11, StringWidth("hello world"))
	assert.Equal(t, 4, StringWidth("日本"))
}

func TestTerminal_Simulation(t *testing.T) {
	term, sim := NewSimulation(40, 5)
	require.NoError(t, term.Init())
	defer term.Shutdown()

	w, h := term.Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 5, h)

	assert.Equal(t, 11, term.DrawText(0, 0, "hello world", Style{Reverse: true}))
	assert.Equal(t, 2, term.DrawText(38, 1, "abcd", Style{}), "clipped, returns columns drawn")
	term.ClearLine(0)
	term.Show()

	sim.InjectKey(tcell.KeyRune, 'b', tcell.ModNone)
	ev := nextEvent(term)
	assert.Equal(t, EventKey, ev.Type)
	assert.Equal(t, KeyRune, ev.Key)
	assert.Equal(t, 'b', ev.Rune)

	require.NoError(t, term.Interrupt(42))
	ev = nextEvent(term)
	assert.Equal(t, EventInterrupt, ev.Type)
	assert.Equal(t, 42, ev.Data)
}

// nextEvent skips the resize events a simulation screen posts on setup.
func nextEvent(b Backend) Event {
	for {
		if ev := b.PollEvent(); ev.Type != EventResize {
			return ev
		}
	}
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		in   tcell.Key
		want Key
	}{
		{tcell.KeyRune, KeyRune},
		{tcell.KeyEscape, KeyEscape},
		{tcell.KeyEnter, KeyEnter},
		{tcell.KeyCtrlC, KeyCtrlC},
		{tcell.KeyCtrlL, KeyCtrlL},
		{tcell.KeyF1, KeyNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, convertKey(tt.in))
	}
}

func TestConvertMouseButton(t *testing.T) {
	assert.Equal(t, MouseLeft, convertMouseButton(tcell.Button1))
	assert.Equal(t, MouseRight, convertMouseButton(tcell.Button2))
	assert.Equal(t, MouseMiddle, convertMouseButton(tcell.Button3))
	assert.Equal(t, MouseNone, convertMouseButton(tcell.ButtonNone))
}
