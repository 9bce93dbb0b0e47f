package sched

import "context"

// Poll is the outcome of one task poll.
type Poll int

const (
	// PollPending means the task is not finished and will be polled again
	// after its Waker fires.
	PollPending Poll = iota

	// PollReady means the task has produced its final result and will
	// never be polled again.
	PollReady
)

// TaskID identifies a task while it is live. IDs are assigned by the runtime
// at spawn time and are unique among concurrently live tasks; consumers must
// not assume an ID is never reused after the task terminates.
type TaskID uint64

// TaskMeta is the payload handed to task-scoped runtime hooks.
type TaskMeta struct {
	ID TaskID
}

// A Task is a unit of asynchronous work. The runtime polls it repeatedly; a
// task returning PollPending must have arranged for its Waker to fire, or it
// will never run again.
type Task interface {
	Poll(tc *Context) Poll
}

// TaskFunc adapts a run-to-completion function into a Task that is ready
// after a single poll.
type TaskFunc func(ctx context.Context)

// Poll runs the function and reports the task ready.
func (f TaskFunc) Poll(tc *Context) Poll {
	f(tc.Context())
	return PollReady
}

// Context is the per-poll view a task gets of the runtime.
type Context struct {
	ctx   context.Context
	waker *Waker
}

// Context returns the runtime's context. It is cancelled when the runtime
// shuts down.
func (tc *Context) Context() context.Context {
	return tc.ctx
}

// Waker returns the waker that reschedules this task. The waker may be
// retained beyond the poll and fired from any goroutine.
func (tc *Context) Waker() *Waker {
	return tc.waker
}
