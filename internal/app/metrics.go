package app

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dshills/rearrange/internal/arrange"
)

// Metrics counts the work of a runner across files.
type Metrics struct {
	files     atomic.Uint64
	changed   atomic.Uint64
	failed    atomic.Uint64
	skipped   atomic.Uint64
	frames    atomic.Uint64
	edits     atomic.Uint64
	moves     atomic.Uint64
	unresolve atomic.Uint64

	passCount   atomic.Uint64
	passTotalNs atomic.Int64
	passMinNs   atomic.Int64
	passMaxNs   atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{startTime: time.Now()}
	m.passMinNs.Store(1<<63 - 1)
	return m
}

// RecordPass records a completed pass over one file.
func (m *Metrics) RecordPass(res *arrange.Result, duration time.Duration) {
	m.files.Add(1)
	if res != nil {
		if res.Changed() {
			m.changed.Add(1)
		}
		m.frames.Add(uint64(res.Frames))
		m.edits.Add(uint64(res.Edits))
		m.moves.Add(uint64(res.Moves))
		m.unresolve.Add(uint64(len(res.Unresolved)))
	}

	ns := duration.Nanoseconds()
	m.passCount.Add(1)
	m.passTotalNs.Add(ns)
	for {
		old := m.passMinNs.Load()
		if ns >= old || m.passMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.passMaxNs.Load()
		if ns <= old || m.passMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordFailure records a file that could not be arranged.
func (m *Metrics) RecordFailure() {
	m.files.Add(1)
	m.failed.Add(1)
}

// RecordWriteFailure records a file that was arranged but could not be
// written back. The file was already counted by RecordPass.
func (m *Metrics) RecordWriteFailure() {
	m.failed.Add(1)
}

// RecordSkip records a file without a rearranger.
func (m *Metrics) RecordSkip() {
	m.skipped.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	count := m.passCount.Load()
	var avg int64
	if count > 0 {
		avg = m.passTotalNs.Load() / int64(count)
	}
	minNs := m.passMinNs.Load()
	if minNs == 1<<63-1 {
		minNs = 0
	}

	return MetricsSnapshot{
		Elapsed:    time.Since(m.startTime),
		Files:      m.files.Load(),
		Changed:    m.changed.Load(),
		Failed:     m.failed.Load(),
		Skipped:    m.skipped.Load(),
		Frames:     m.frames.Load(),
		Edits:      m.edits.Load(),
		Moves:      m.moves.Load(),
		Unresolved: m.unresolve.Load(),
		AvgPassNs:  avg,
		MinPassNs:  minNs,
		MaxPassNs:  m.passMaxNs.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Elapsed    time.Duration
	Files      uint64
	Changed    uint64
	Failed     uint64
	Skipped    uint64
	Frames     uint64
	Edits      uint64
	Moves      uint64
	Unresolved uint64
	AvgPassNs  int64
	MinPassNs  int64
	MaxPassNs  int64
}

// String formats the snapshot as a one-line summary.
func (s MetricsSnapshot) String() string {
	return fmt.Sprintf("%d files, %d changed, %d failed, %d skipped (%d frames, %d edits, %d moves) in %s",
		s.Files, s.Changed, s.Failed, s.Skipped, s.Frames, s.Edits, s.Moves, s.Elapsed.Round(time.Millisecond))
}
