// Package app runs the statebind demo: a store holding two strings, two
// connected components and a terminal event loop that dispatches to the
// store in response to keys, clicks and config reloads.
package app

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/statebind/internal/binding"
	"github.com/dshills/statebind/internal/config"
	"github.com/dshills/statebind/internal/props"
	"github.com/dshills/statebind/internal/renderer/backend"
	"github.com/dshills/statebind/internal/script"
	"github.com/dshills/statebind/internal/store"
)

const helpText = "t/click: reverse text  b/click: reverse button  q: quit"

// Application wires the store, its bindings and the terminal together.
type Application struct {
	mu sync.RWMutex

	cfg    config.Config
	opts   Options
	logger *slog.Logger

	store    *store.Store[props.Props]
	provider *binding.Provider[props.Props]
	script   *script.Reducer
	watcher  *config.Watcher
	backend  backend.Backend
	metrics  *Metrics

	header *Header
	bottom *Bottom
	button backend.MouseButton

	running atomic.Bool
	closed  atomic.Bool
}

// Options configures the application.
type Options struct {
	// ConfigPath is the file watched for reloads when Config.Watch is set.
	ConfigPath string

	// Logger receives structured logs. Defaults to discarding.
	Logger *slog.Logger

	// Metrics collects event loop timing. Defaults to a fresh tracker.
	Metrics *Metrics
}

// New creates an application from a resolved configuration.
func New(cfg config.Config, opts Options) (*Application, error) {
	app := &Application{
		cfg:     cfg,
		opts:    opts,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	if app.logger == nil {
		app.logger = slog.New(slog.DiscardHandler)
	}
	if app.metrics == nil {
		app.metrics = NewMetrics()
	}

	if err := app.bootstrap(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// bootstrap builds the reducer, store and provider.
func (app *Application) bootstrap() error {
	reducer := store.Pure(Reduce)
	if app.cfg.ReducerScript != "" {
		r, err := script.Load(app.cfg.ReducerScript)
		if err != nil {
			return &InitError{Component: "reducer script", Err: err}
		}
		app.script = r
		reducer = r.StoreReducer()
		app.logger.Info("using script reducer", "path", app.cfg.ReducerScript)
	}

	st, err := store.New(reducer, InitialState(app.cfg.State))
	if err != nil {
		return &InitError{Component: "store", Err: err}
	}
	app.store = st

	app.provider, err = binding.NewProvider(st)
	if err != nil {
		return &InitError{Component: "provider", Err: err}
	}
	return nil
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

// Run mounts the components and runs the event loop until the user quits
// or Shutdown is called. An application runs once.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.mu.RLock()
	b := app.backend
	app.mu.RUnlock()
	if b == nil {
		return &InitError{Component: "backend", Err: ErrNoBackend}
	}

	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	if err := app.mount(); err != nil {
		return &InitError{Component: "bindings", Err: err}
	}
	defer app.provider.Close()

	if err := app.startWatcher(); err != nil {
		app.logger.Warn("config watch disabled", "path", app.opts.ConfigPath, "error", err)
	}
	defer app.stopWatcher()

	app.repaint()
	b.Show()

	err := app.eventLoop()
	app.logStats()
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// mount connects the header and bottom components and mounts them.
func (app *Application) mount() error {
	app.header = NewHeader(app.backend)
	app.bottom = NewBottom(app.backend)

	header := binding.Connect[props.Props](headerState, clickDispatcher(ActionReverseText, app.report)).
		Wrap(app.header)
	bottom := binding.Connect[props.Props](bottomState, clickDispatcher(ActionReverseButton, app.report)).
		Wrap(app.bottom)

	for _, bound := range []*binding.Bound[props.Props]{header, bottom} {
		bnd, err := app.provider.Mount(bound, nil)
		if err != nil {
			return err
		}
		app.logger.Debug("mounted binding", "id", bnd.ID())
	}
	return nil
}

// report records the outcome of a dispatch.
func (app *Application) report(action store.Action, err error) {
	app.metrics.RecordDispatch(err)
	if err != nil {
		app.logger.Warn("dispatch failed", "action", action.Kind(), "error", err)
		return
	}
	app.logger.Debug("dispatched", "action", action.Kind())
}

// startWatcher watches the config file when enabled. Reloads are posted to
// the backend so the event loop is the only goroutine touching the store.
func (app *Application) startWatcher() error {
	if !app.cfg.Watch || app.opts.ConfigPath == "" {
		return nil
	}

	w, err := config.NewWatcher(app.opts.ConfigPath)
	if err != nil {
		return err
	}
	app.watcher = w

	go func() {
		for r := range w.Reloads() {
			if err := app.backend.Interrupt(r); err != nil {
				app.logger.Warn("dropping config reload", "error", err)
			}
		}
	}()

	app.logger.Info("watching config", "path", w.Path())
	return nil
}

func (app *Application) stopWatcher() {
	if app.watcher == nil {
		return
	}
	if err := app.watcher.Close(); err != nil {
		app.logger.Warn("closing config watcher", "error", err)
	}
}

func (app *Application) logStats() {
	st := app.store.Stats()
	m := app.metrics.Snapshot()
	app.logger.Info("session finished",
		"dispatched", st.Dispatched,
		"rejected", st.Rejected,
		"notifications", st.Notifications,
		"events", m.EventCount,
		"avg_event", time.Duration(m.AvgEventNs),
		"reloads", m.ReloadCount,
		"uptime", m.Uptime,
	)
}

// Shutdown asks a running event loop to exit.
func (app *Application) Shutdown() {
	if !app.running.Load() {
		return
	}

	app.mu.RLock()
	b := app.backend
	app.mu.RUnlock()

	if err := b.Interrupt(quitRequest{}); err != nil {
		app.logger.Warn("posting quit", "error", err)
	}
}

// Close releases the script reducer. Safe to call more than once.
func (app *Application) Close() {
	if !app.closed.CompareAndSwap(false, true) {
		return
	}
	if app.script != nil {
		app.script.Close()
	}
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Store returns the application store.
func (app *Application) Store() *store.Store[props.Props] {
	return app.store
}

// Provider returns the binding provider.
func (app *Application) Provider() *binding.Provider[props.Props] {
	return app.provider
}

// Config returns the active configuration.
func (app *Application) Config() config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.cfg
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Header returns the header component (nil before Run).
func (app *Application) Header() *Header {
	return app.header
}

// Bottom returns the bottom component (nil before Run).
func (app *Application) Bottom() *Bottom {
	return app.bottom
}
