// Package sched is a small poll-based task runtime. Tasks are polled by a
// fixed set of worker threads; a task returning PollPending sleeps until its
// Waker fires. The runtime exposes builder-time lifecycle hooks so that
// instrumentation (see the root taskprobe package) can observe task and
// worker events without the runtime knowing anything about tracing.
package sched

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// Task scheduling states. A task is owned by exactly one place at a time:
// the ready queue (queued), a worker (polling), or its waker (idle). This
// single-ownership rule is what guarantees a task is never polled on two
// threads concurrently.
const (
	taskIdle int32 = iota
	taskQueued
	taskPolling
	taskNotified // woken while being polled; requeue after the poll
	taskDone
)

type taskState struct {
	id    TaskID
	task  Task
	state atomic.Int32
}

// A Runtime polls spawned tasks on its worker threads until shut down.
type Runtime struct {
	hooks  hookSet
	queue  chan *taskState
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	nextID   atomic.Uint64
	shutdown atomic.Bool
}

// Spawn submits a task and returns its ID. The spawn hook fires before the
// task becomes pollable, so it always precedes the task's first poll-start.
// Spawning after Shutdown returns 0 and drops the task.
func (rt *Runtime) Spawn(t Task) TaskID {
	if rt.shutdown.Load() {
		return 0
	}

	id := TaskID(rt.nextID.Add(1))
	ts := &taskState{id: id, task: t}
	ts.state.Store(taskQueued)

	if h := rt.hooks.onTaskSpawn; h != nil {
		h(TaskMeta{ID: id})
	}

	rt.enqueue(ts)

	return id
}

// Shutdown stops the runtime: workers exit after their current poll, and
// pending tasks are dropped. It waits for the workers to finish or for ctx to
// expire.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	rt.shutdown.Store(true)
	rt.cancel()

	done := make(chan struct{})
	go func() {
		rt.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (rt *Runtime) enqueue(ts *taskState) {
	select {
	case rt.queue <- ts:
	case <-rt.ctx.Done():
		// Shutting down; the task is dropped without a poll-end, which
		// consumers are required to tolerate.
	}
}

func (rt *Runtime) worker() {
	defer rt.wg.Done()

	// Workers own their OS thread so that the ambient thread identity seen
	// by the tracing facility is stable for the worker's lifetime.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if h := rt.hooks.onThreadStart; h != nil {
		h()
	}
	defer func() {
		if h := rt.hooks.onThreadStop; h != nil {
			h()
		}
	}()

	for {
		select {
		case <-rt.ctx.Done():
			return
		default:
		}

		select {
		case ts := <-rt.queue:
			rt.poll(ts)
			continue
		default:
		}

		// No ready work. Park until a task arrives or the runtime stops;
		// a park is always followed by an unpark or by thread-stop.
		if h := rt.hooks.onThreadPark; h != nil {
			h()
		}

		select {
		case ts := <-rt.queue:
			if h := rt.hooks.onThreadUnpark; h != nil {
				h()
			}
			rt.poll(ts)
		case <-rt.ctx.Done():
			return
		}
	}
}

func (rt *Runtime) poll(ts *taskState) {
	ts.state.Store(taskPolling)
	meta := TaskMeta{ID: ts.id}

	if h := rt.hooks.onBeforeTaskPoll; h != nil {
		h(meta)
	}

	res := rt.pollTask(ts, meta)

	if res == PollReady {
		ts.state.Store(taskDone)
		// Terminate must be observed strictly before the poll-end of the
		// poll that completed the task.
		if h := rt.hooks.onTaskTerminate; h != nil {
			h(meta)
		}
	}

	if h := rt.hooks.onAfterTaskPoll; h != nil {
		h(meta)
	}

	if res == PollPending {
		if !ts.state.CompareAndSwap(taskPolling, taskIdle) {
			// The waker fired during the poll; run it again.
			ts.state.Store(taskQueued)
			rt.enqueue(ts)
		}
	}
}

func (rt *Runtime) pollTask(ts *taskState, meta TaskMeta) (res Poll) {
	defer func() {
		if r := recover(); r != nil {
			// A panicking task must never take down the worker. The
			// task is treated as terminated.
			res = PollReady
			if h := rt.hooks.onTaskPanic; h != nil {
				h(meta, r)
			}
		}
	}()

	tc := &Context{
		ctx:   rt.ctx,
		waker: &Waker{rt: rt, ts: ts},
	}

	return ts.task.Poll(tc)
}

// A Waker reschedules its task after the task returned PollPending. Wake is
// safe to call from any goroutine, any number of times; redundant wakes
// coalesce.
type Waker struct {
	rt *Runtime
	ts *taskState
}

// Wake marks the task ready. If the task is currently being polled, it is
// requeued as soon as that poll returns Pending.
func (w *Waker) Wake() {
	ts := w.ts

	for {
		switch s := ts.state.Load(); s {
		case taskIdle:
			if ts.state.CompareAndSwap(taskIdle, taskQueued) {
				w.rt.enqueue(ts)
				return
			}
		case taskPolling:
			if ts.state.CompareAndSwap(taskPolling, taskNotified) {
				return
			}
		default:
			// Already queued, already notified, or done.
			return
		}
	}
}
