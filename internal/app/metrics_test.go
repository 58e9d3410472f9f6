package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordEvent(t *testing.T) {
	m := NewMetrics()
	m.RecordEvent(10 * time.Millisecond)
	m.RecordEvent(30 * time.Millisecond)

	s := m.Snapshot()
	assert.Equal(t, uint64(2), s.EventCount)
	assert.Equal(t, (20 * time.Millisecond).Nanoseconds(), s.AvgEventNs)
	assert.Equal(t, (30 * time.Millisecond).Nanoseconds(), s.MaxEventNs)
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()
	m.RecordDispatch(nil)
	m.RecordDispatch(errors.New("boom"))
	m.RecordRepaint()
	m.RecordReload()

	s := m.Snapshot()
	assert.Equal(t, uint64(2), s.DispatchCount)
	assert.Equal(t, uint64(1), s.DispatchErrors)
	assert.Equal(t, uint64(1), s.RepaintCount)
	assert.Equal(t, uint64(1), s.ReloadCount)
}

func TestMetrics_EmptySnapshot(t *testing.T) {
	s := NewMetrics().Snapshot()
	assert.Zero(t, s.EventCount)
	assert.Zero(t, s.AvgEventNs)
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(time.Millisecond)
	assert.GreaterOrEqual(t, timer.Elapsed(), time.Millisecond)
}
