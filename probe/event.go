package probe

import "time"

// An Event is one observed occurrence of a probe. Events are transient: the
// provider stamps them at the emission site and hands them to subscribers
// without ever storing them.
type Event struct {
	// Kind is the probe that fired.
	Kind Kind

	// TaskID is arg0 for task-scoped kinds. It is the ID assigned by the
	// runtime at spawn time, unique among concurrently live tasks. It is
	// zero for worker-thread kinds.
	TaskID uint64

	// Thread is the OS thread ID of the worker that emitted the event, or
	// zero on platforms where thread IDs are unavailable. Matching
	// poll-start and poll-end events carry the same Thread: a task is never
	// polled on two threads at once.
	Thread uint64

	// Time is the wall-clock time at which the probe fired.
	Time time.Time
}
