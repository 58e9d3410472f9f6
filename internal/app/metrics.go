package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks event loop timing.
type Metrics struct {
	eventCount   atomic.Uint64
	eventTotalNs atomic.Int64
	eventMaxNs   atomic.Int64

	dispatchCount  atomic.Uint64
	dispatchErrors atomic.Uint64

	repaintCount atomic.Uint64
	reloadCount  atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordEvent records how long handling one backend event took.
func (m *Metrics) RecordEvent(duration time.Duration) {
	ns := duration.Nanoseconds()

	m.eventCount.Add(1)
	m.eventTotalNs.Add(ns)

	for {
		old := m.eventMaxNs.Load()
		if ns <= old {
			break
		}
		if m.eventMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordDispatch records a dispatch and whether it failed.
func (m *Metrics) RecordDispatch(err error) {
	m.dispatchCount.Add(1)
	if err != nil {
		m.dispatchErrors.Add(1)
	}
}

// RecordRepaint records a full repaint.
func (m *Metrics) RecordRepaint() {
	m.repaintCount.Add(1)
}

// RecordReload records an applied config reload.
func (m *Metrics) RecordReload() {
	m.reloadCount.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	count := m.eventCount.Load()

	var avg int64
	if count > 0 {
		avg = m.eventTotalNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		Uptime:         time.Since(m.startTime),
		EventCount:     count,
		AvgEventNs:     avg,
		MaxEventNs:     m.eventMaxNs.Load(),
		DispatchCount:  m.dispatchCount.Load(),
		DispatchErrors: m.dispatchErrors.Load(),
		RepaintCount:   m.repaintCount.Load(),
		ReloadCount:    m.reloadCount.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime         time.Duration
	EventCount     uint64
	AvgEventNs     int64
	MaxEventNs     int64
	DispatchCount  uint64
	DispatchErrors uint64
	RepaintCount   uint64
	ReloadCount    uint64
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
