package app

import (
	"github.com/dshills/statebind/internal/config"
	"github.com/dshills/statebind/internal/renderer/backend"
)

// quitRequest is posted by Shutdown to stop the event loop.
type quitRequest struct{}

// eventLoop blocks on backend events until one of them asks to quit.
func (app *Application) eventLoop() error {
	for {
		ev := app.backend.PollEvent()

		timer := StartTimer()
		err := app.handleBackendEvent(ev)
		app.metrics.RecordEvent(timer.Elapsed())
		if err != nil {
			return err
		}

		app.backend.Show()
	}
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventNone:
		return ErrBackendClosed
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventMouse:
		app.handleMouseEvent(ev)
	case backend.EventResize:
		app.repaint()
	case backend.EventInterrupt:
		return app.handleInterrupt(ev.Data)
	}
	return nil
}

// handleKeyEvent processes keyboard input events.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyCtrlL:
		app.repaint()
	case backend.KeyRune:
		switch ev.Rune {
		case 'q':
			return ErrQuit
		case 't':
			app.header.Click()
		case 'b':
			app.bottom.Click()
		}
	}
	return nil
}

// handleMouseEvent clicks the widget under the pointer when the left button
// goes down. Drags and releases are ignored.
func (app *Application) handleMouseEvent(ev backend.Event) {
	pressed := ev.MouseButton == backend.MouseLeft && app.button != backend.MouseLeft
	app.button = ev.MouseButton
	if !pressed {
		return
	}

	for _, w := range []*widget{&app.header.widget, &app.bottom.widget} {
		if w.Contains(ev.MouseX, ev.MouseY) {
			w.Click()
			return
		}
	}
}

// handleInterrupt handles work posted from other goroutines.
func (app *Application) handleInterrupt(data any) error {
	switch data := data.(type) {
	case quitRequest:
		return ErrQuit
	case config.Reload:
		app.applyReload(data)
	}
	return nil
}

// applyReload resets the state to the reloaded config's texts. A failed
// reload keeps the current config.
func (app *Application) applyReload(r config.Reload) {
	if r.Err != nil {
		app.logger.Warn("config reload failed", "error", r.Err)
		return
	}

	app.mu.Lock()
	prev := app.cfg
	app.cfg = r.Config
	app.mu.Unlock()

	if r.Config.ReducerScript != prev.ReducerScript {
		app.logger.Warn("reducer script changes apply on restart", "path", r.Config.ReducerScript)
	}

	action, err := app.store.Dispatch(ResetAction(r.Config.State))
	app.report(action, err)
	app.metrics.RecordReload()

	app.paintChrome()
	app.logger.Info("config reloaded", "at", r.Time)
}

// repaint redraws the whole screen from the components' cached props.
func (app *Application) repaint() {
	app.backend.Clear()
	app.paintChrome()
	app.header.paint()
	app.bottom.paint()
	app.metrics.RecordRepaint()
}

// paintChrome draws the title and help lines.
func (app *Application) paintChrome() {
	app.mu.RLock()
	title := app.cfg.Title
	app.mu.RUnlock()

	app.backend.ClearLine(titleRow)
	app.backend.DrawText(0, titleRow, title, backend.Style{Underline: true})

	_, height := app.backend.Size()
	if height > bottomRow+1 {
		app.backend.ClearLine(height - 1)
		app.backend.DrawText(0, height-1, helpText, backend.Style{})
	}
}
