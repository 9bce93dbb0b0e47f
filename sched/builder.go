package sched

import (
	"context"
	"runtime"
)

const defaultQueueSize = 1024

// hookSet holds the lifecycle callbacks of one runtime instance. Hooks are
// plain function fields assigned once at build time and nil-checked inline at
// the call sites, keeping the poll path monomorphic.
type hookSet struct {
	onTaskSpawn      func(TaskMeta)
	onBeforeTaskPoll func(TaskMeta)
	onAfterTaskPoll  func(TaskMeta)
	onTaskTerminate  func(TaskMeta)

	onThreadStart  func()
	onThreadStop   func()
	onThreadPark   func()
	onThreadUnpark func()

	onTaskPanic func(TaskMeta, any)
}

// A Builder configures and constructs a Runtime. Hooks can only be set here:
// they are frozen into the runtime at Build time and stay installed for the
// runtime's entire lifetime.
type Builder struct {
	workers   int
	queueSize int
	hooks     hookSet
}

// NewBuilder creates a Builder with the worker count defaulting to the number
// of CPUs.
func NewBuilder() *Builder {
	return &Builder{
		workers:   runtime.NumCPU(),
		queueSize: defaultQueueSize,
	}
}

// Workers sets the number of worker threads.
func (b *Builder) Workers(n int) *Builder {
	b.workers = n
	return b
}

// QueueSize sets the capacity of the ready queue.
func (b *Builder) QueueSize(n int) *Builder {
	b.queueSize = n
	return b
}

// OnTaskSpawn sets the hook fired when a task is created, before its first
// poll.
func (b *Builder) OnTaskSpawn(h func(TaskMeta)) *Builder {
	b.hooks.onTaskSpawn = h
	return b
}

// OnBeforeTaskPoll sets the hook fired right before a task is polled.
func (b *Builder) OnBeforeTaskPoll(h func(TaskMeta)) *Builder {
	b.hooks.onBeforeTaskPoll = h
	return b
}

// OnAfterTaskPoll sets the hook fired right after a task's poll returns. If
// the poll completed the task, the OnTaskTerminate hook fires first.
func (b *Builder) OnAfterTaskPoll(h func(TaskMeta)) *Builder {
	b.hooks.onAfterTaskPoll = h
	return b
}

// OnTaskTerminate sets the hook fired when a task produces its final result.
func (b *Builder) OnTaskTerminate(h func(TaskMeta)) *Builder {
	b.hooks.onTaskTerminate = h
	return b
}

// OnThreadStart sets the hook fired by each worker thread before it polls any
// task.
func (b *Builder) OnThreadStart(h func()) *Builder {
	b.hooks.onThreadStart = h
	return b
}

// OnThreadStop sets the hook fired by each worker thread right before it
// exits.
func (b *Builder) OnThreadStop(h func()) *Builder {
	b.hooks.onThreadStop = h
	return b
}

// OnThreadPark sets the hook fired when a worker has no ready work and is
// about to suspend.
func (b *Builder) OnThreadPark(h func()) *Builder {
	b.hooks.onThreadPark = h
	return b
}

// OnThreadUnpark sets the hook fired when a parked worker resumes because
// work became available.
func (b *Builder) OnThreadUnpark(h func()) *Builder {
	b.hooks.onThreadUnpark = h
	return b
}

// OnTaskPanic sets the handler invoked when a task's Poll panics. The panic
// is contained by the worker and the task is treated as terminated; the
// default handler does nothing beyond that.
func (b *Builder) OnTaskPanic(h func(TaskMeta, any)) *Builder {
	b.hooks.onTaskPanic = h
	return b
}

// Build constructs the runtime and starts its workers.
func (b *Builder) Build() *Runtime {
	workers := b.workers
	if workers <= 0 {
		workers = 1
	}

	queueSize := b.queueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	rt := &Runtime{
		hooks:  b.hooks,
		queue:  make(chan *taskState, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < workers; i++ {
		rt.wg.Add(1)
		go rt.worker()
	}

	return rt
}
