package tracing

import (
	"sync"
	"time"

	"github.com/tracelab/taskprobe/probe"
)

// A PollTimeTracer collects the distribution of poll durations and, per
// completed task, the total time spent polling it. It is the consumer behind
// the poll-duration histogram tooling.
type PollTimeTracer struct {
	timer *PollTimer
	agg   *TaskAggregator
	hist  DurationHistogram

	mu             sync.Mutex
	completedCount uint64
	completedTime  time.Duration
}

// NewPollTimeTracer creates a PollTimeTracer with no samples.
func NewPollTimeTracer() *PollTimeTracer {
	return &PollTimeTracer{
		timer: NewPollTimer(),
		agg:   NewTaskAggregator(),
	}
}

// TaskSpawn starts tracking the task.
func (t *PollTimeTracer) TaskSpawn(ev probe.Event) {
	t.agg.OnSpawn(ev)
}

// PollStart records the poll start on the event's thread.
func (t *PollTimeTracer) PollStart(ev probe.Event) {
	t.timer.RecordStart(ev)
}

// PollEnd folds the completed poll into the histogram and the task's
// aggregate.
func (t *PollTimeTracer) PollEnd(ev probe.Event) {
	taskID, elapsed, ok := t.timer.RecordEnd(ev)
	if !ok {
		return
	}

	t.hist.Observe(elapsed)
	t.agg.AddPoll(taskID, elapsed)
}

// TaskTerminate finalizes the task's aggregate.
func (t *PollTimeTracer) TaskTerminate(ev probe.Event) {
	stats, ok := t.agg.Finalize(ev.TaskID)
	if !ok {
		return
	}

	t.mu.Lock()
	t.completedCount++
	t.completedTime += stats.PollTime
	t.mu.Unlock()
}

// WorkerEvent does nothing.
func (t *PollTimeTracer) WorkerEvent(_ probe.Event) {
	// Do nothing.
}

// Histogram returns the poll-duration histogram.
func (t *PollTimeTracer) Histogram() *DurationHistogram {
	return &t.hist
}

// PollCount returns the number of completed polls observed.
func (t *PollTimeTracer) PollCount() uint64 {
	return t.hist.Count()
}

// AverageTaskTime returns the mean total poll time of completed tasks.
func (t *PollTimeTracer) AverageTaskTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.completedCount == 0 {
		return 0
	}

	return t.completedTime / time.Duration(t.completedCount)
}

// CompletedTasks returns the number of tasks whose terminate event has been
// observed.
func (t *PollTimeTracer) CompletedTasks() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completedCount
}
