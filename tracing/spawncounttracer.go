package tracing

import (
	"sync"

	"github.com/tracelab/taskprobe/probe"
)

// A SpawnCountTracer counts task spawns and the number of currently live
// tasks.
type SpawnCountTracer struct {
	mu      sync.Mutex
	spawned uint64
	live    int64
}

// NewSpawnCountTracer creates a SpawnCountTracer.
func NewSpawnCountTracer() *SpawnCountTracer {
	return &SpawnCountTracer{}
}

// TaskSpawn counts the spawn.
func (t *SpawnCountTracer) TaskSpawn(_ probe.Event) {
	t.mu.Lock()
	t.spawned++
	t.live++
	t.mu.Unlock()
}

// PollStart does nothing.
func (t *SpawnCountTracer) PollStart(_ probe.Event) {
	// Do nothing.
}

// PollEnd does nothing.
func (t *SpawnCountTracer) PollEnd(_ probe.Event) {
	// Do nothing.
}

// TaskTerminate counts the task down. A terminate for a task spawned before
// the tracer attached can push the live count below what was spawned while
// attached; it is clamped at zero.
func (t *SpawnCountTracer) TaskTerminate(_ probe.Event) {
	t.mu.Lock()
	if t.live > 0 {
		t.live--
	}
	t.mu.Unlock()
}

// WorkerEvent does nothing.
func (t *SpawnCountTracer) WorkerEvent(_ probe.Event) {
	// Do nothing.
}

// Spawned returns the number of spawns observed.
func (t *SpawnCountTracer) Spawned() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.spawned
}

// Live returns the observed number of live tasks.
func (t *SpawnCountTracer) Live() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live
}
