package tracing

import (
	"sync"
	"time"

	"github.com/tracelab/taskprobe/probe"
)

type pollStart struct {
	taskID uint64
	at     time.Time
}

// A PollTimer matches each task-poll-end with its poll-start using the
// per-thread rule of the correlation convention: starts are keyed by the
// emitting thread, because a thread polls one task at a time.
type PollTimer struct {
	mu     sync.Mutex
	starts map[uint64]pollStart
}

// NewPollTimer creates an empty PollTimer.
func NewPollTimer() *PollTimer {
	return &PollTimer{starts: make(map[uint64]pollStart)}
}

// RecordStart notes a task-poll-start event.
func (pt *PollTimer) RecordStart(ev probe.Event) {
	pt.mu.Lock()
	pt.starts[ev.Thread] = pollStart{taskID: ev.TaskID, at: ev.Time}
	pt.mu.Unlock()
}

// RecordEnd consumes the recorded start on the event's thread and returns the
// elapsed poll time attributed to the task. ok is false when no matching
// start exists (the consumer attached mid-poll, or events were dropped); such
// poll-ends must simply be skipped.
func (pt *PollTimer) RecordEnd(ev probe.Event) (
	taskID uint64,
	elapsed time.Duration,
	ok bool,
) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	start, found := pt.starts[ev.Thread]
	delete(pt.starts, ev.Thread)

	if !found || start.taskID != ev.TaskID {
		return 0, 0, false
	}

	return ev.TaskID, ev.Time.Sub(start.at), true
}

// InFlight returns the number of threads currently inside a poll, as far as
// the consumer has observed.
func (pt *PollTimer) InFlight() int {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return len(pt.starts)
}

// TaskStats is the per-task aggregate kept between spawn and terminate.
type TaskStats struct {
	SpawnTime time.Time
	PollTime  time.Duration
	Polls     uint64
}

// A TaskAggregator keeps per-task aggregates keyed by task ID and evicts them
// on terminate, since IDs may be reused afterwards.
type TaskAggregator struct {
	mu    sync.Mutex
	tasks map[uint64]*TaskStats
}

// NewTaskAggregator creates an empty TaskAggregator.
func NewTaskAggregator() *TaskAggregator {
	return &TaskAggregator{tasks: make(map[uint64]*TaskStats)}
}

// OnSpawn starts tracking a task.
func (a *TaskAggregator) OnSpawn(ev probe.Event) {
	a.mu.Lock()
	a.tasks[ev.TaskID] = &TaskStats{SpawnTime: ev.Time}
	a.mu.Unlock()
}

// AddPoll folds one completed poll into the task's aggregate. Polls of tasks
// spawned before the consumer attached are tracked from zero.
func (a *TaskAggregator) AddPoll(taskID uint64, elapsed time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats, ok := a.tasks[taskID]
	if !ok {
		stats = &TaskStats{}
		a.tasks[taskID] = stats
	}

	stats.PollTime += elapsed
	stats.Polls++
}

// Finalize evicts and returns the task's aggregate.
func (a *TaskAggregator) Finalize(taskID uint64) (TaskStats, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats, ok := a.tasks[taskID]
	if !ok {
		return TaskStats{}, false
	}

	delete(a.tasks, taskID)

	return *stats, true
}

// Live returns the number of tasks currently tracked.
func (a *TaskAggregator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.tasks)
}
