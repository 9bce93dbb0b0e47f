package tracing

import (
	"sync"
	"time"

	"github.com/tracelab/taskprobe/probe"
)

type workerState struct {
	parked     bool
	since      time.Time
	busyTime   time.Duration
	parkedTime time.Duration
	stopped    bool
}

// A UtilizationTracer accounts, per worker thread, the time spent running
// versus parked, from the worker-thread event stream alone. A worker is
// considered busy from start (or unpark) until the next park (or stop).
type UtilizationTracer struct {
	mu      sync.Mutex
	workers map[uint64]*workerState
}

// NewUtilizationTracer creates a UtilizationTracer.
func NewUtilizationTracer() *UtilizationTracer {
	return &UtilizationTracer{workers: make(map[uint64]*workerState)}
}

// TaskSpawn does nothing.
func (t *UtilizationTracer) TaskSpawn(_ probe.Event) {
	// Do nothing.
}

// PollStart does nothing.
func (t *UtilizationTracer) PollStart(_ probe.Event) {
	// Do nothing.
}

// PollEnd does nothing.
func (t *UtilizationTracer) PollEnd(_ probe.Event) {
	// Do nothing.
}

// TaskTerminate does nothing.
func (t *UtilizationTracer) TaskTerminate(_ probe.Event) {
	// Do nothing.
}

// WorkerEvent folds one worker-thread event into the per-thread accounting.
func (t *UtilizationTracer) WorkerEvent(ev probe.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, ok := t.workers[ev.Thread]
	if !ok {
		// Attached mid-life: treat the first sighting of the thread as
		// its start.
		w = &workerState{since: ev.Time}
		t.workers[ev.Thread] = w
	}

	switch ev.Kind {
	case probe.KindWorkerThreadStart:
		w.since = ev.Time
		w.parked = false
	case probe.KindWorkerThreadPark:
		w.busyTime += ev.Time.Sub(w.since)
		w.since = ev.Time
		w.parked = true
	case probe.KindWorkerThreadUnpark:
		w.parkedTime += ev.Time.Sub(w.since)
		w.since = ev.Time
		w.parked = false
	case probe.KindWorkerThreadStop:
		if w.parked {
			w.parkedTime += ev.Time.Sub(w.since)
		} else {
			w.busyTime += ev.Time.Sub(w.since)
		}
		w.stopped = true
	}
}

// Workers returns the number of worker threads observed.
func (t *UtilizationTracer) Workers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.workers)
}

// BusyTime returns the total busy time over all observed workers, up to each
// worker's last event.
func (t *UtilizationTracer) BusyTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	var total time.Duration
	for _, w := range t.workers {
		total += w.busyTime
	}

	return total
}

// ParkedTime returns the total parked time over all observed workers.
func (t *UtilizationTracer) ParkedTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	var total time.Duration
	for _, w := range t.workers {
		total += w.parkedTime
	}

	return total
}

// Utilization returns busy / (busy + parked) over all observed workers, or
// zero when nothing has been accounted yet.
func (t *UtilizationTracer) Utilization() float64 {
	busy := t.BusyTime()
	parked := t.ParkedTime()

	if busy+parked == 0 {
		return 0
	}

	return float64(busy) / float64(busy+parked)
}
