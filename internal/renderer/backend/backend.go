// Package backend provides the display backend display components draw to.
package backend

import (
	"sync"

	"github.com/rivo/uniseg"
)

// EventType identifies the type of backend event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventInterrupt
)

// Event represents a backend event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields
	MouseX, MouseY int
	MouseButton    MouseButton

	// Resize event fields
	Width, Height int

	// Interrupt event payload
	Data any
}

// Key represents a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyCtrlC
	KeyCtrlL
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton represents mouse button state.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
)

// Style describes how text is drawn.
type Style struct {
	Bold      bool
	Reverse   bool
	Underline bool
}

// Backend is a display surface plus its event source.
type Backend interface {
	// Init initializes the backend. Must be called before any other method.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current dimensions.
	Size() (width, height int)

	// DrawText draws text starting at (x, y), clipped to the screen width.
	// It returns the number of columns drawn.
	DrawText(x, y int, text string, style Style) int

	// ClearLine blanks row y.
	ClearLine(y int)

	// Clear clears the entire screen.
	Clear()

	// Show flushes pending drawing to the display.
	Show()

	// PollEvent waits for and returns the next event. It returns an
	// EventNone event once the backend is shut down.
	PollEvent() Event

	// Interrupt queues an EventInterrupt carrying data. It is safe to call
	// from any goroutine.
	Interrupt(data any) error
}

// StringWidth returns the number of columns text occupies.
func StringWidth(text string) int {
	return uniseg.StringWidth(text)
}

// NullBackend is an in-memory backend for testing.
type NullBackend struct {
	mu     sync.Mutex
	width  int
	height int
	rows   [][]rune
	styles map[[2]int]Style
	shows  int
	events chan Event
}

// NewNullBackend creates a null backend with the given dimensions.
func NewNullBackend(width, height int) *NullBackend {
	return &NullBackend{
		width:  width,
		height: height,
		events: make(chan Event, 100),
	}
}

func (b *NullBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.reset()
	return nil
}

func (b *NullBackend) reset() {
	b.rows = make([][]rune, b.height)
	for i := range b.rows {
		b.rows[i] = []rune(blank(b.width))
	}
	b.styles = make(map[[2]int]Style)
}

func blank(n int) string {
	r := make([]rune, n)
	for i := range r {
		r[i] = ' '
	}
	return string(r)
}

func (b *NullBackend) Shutdown() {}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.width, b.height
}

func (b *NullBackend) DrawText(x, y int, text string, style Style) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if y < 0 || y >= b.height {
		return 0
	}
	col := x
	for _, r := range text {
		if col >= b.width {
			break
		}
		if col >= 0 {
			b.rows[y][col] = r
			b.styles[[2]int{col, y}] = style
		}
		col++
	}
	return col - x
}

func (b *NullBackend) ClearLine(y int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if y < 0 || y >= b.height {
		return
	}
	b.rows[y] = []rune(blank(b.width))
}

func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.reset()
}

func (b *NullBackend) Show() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.shows++
}

func (b *NullBackend) PollEvent() Event {
	ev, ok := <-b.events
	if !ok {
		return Event{Type: EventNone}
	}
	return ev
}

func (b *NullBackend) Interrupt(data any) error {
	b.events <- Event{Type: EventInterrupt, Data: data}
	return nil
}

// Inject queues an event for PollEvent.
func (b *NullBackend) Inject(ev Event) {
	b.events <- ev
}

// Resize changes the dimensions and queues a resize event.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.width, b.height = width, height
	b.reset()
	b.mu.Unlock()

	b.events <- Event{Type: EventResize, Width: width, Height: height}
}

// Line returns row y with trailing spaces removed.
func (b *NullBackend) Line(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if y < 0 || y >= len(b.rows) {
		return ""
	}
	row := b.rows[y]
	end := len(row)
	for end > 0 && row[end-1] == ' ' {
		end--
	}
	return string(row[:end])
}

// StyleAt returns the style of the cell at (x, y).
func (b *NullBackend) StyleAt(x, y int) Style {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.styles[[2]int{x, y}]
}

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.shows
}
