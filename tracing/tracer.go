package tracing

import (
	"sync"

	"github.com/tracelab/taskprobe/probe"
)

// A Tracer consumes lifecycle events. Implementations that do not care about
// a particular event group implement it as a no-op.
type Tracer interface {
	// TaskSpawn handles a task-spawn event.
	TaskSpawn(ev probe.Event)

	// PollStart handles a task-poll-start event.
	PollStart(ev probe.Event)

	// PollEnd handles a task-poll-end event.
	PollEnd(ev probe.Event)

	// TaskTerminate handles a task-terminate event.
	TaskTerminate(ev probe.Event)

	// WorkerEvent handles the four worker-thread events.
	WorkerEvent(ev probe.Event)
}

// Dispatch routes one event to the matching Tracer method.
func Dispatch(t Tracer, ev probe.Event) {
	switch ev.Kind {
	case probe.KindTaskSpawn:
		t.TaskSpawn(ev)
	case probe.KindTaskPollStart:
		t.PollStart(ev)
	case probe.KindTaskPollEnd:
		t.PollEnd(ev)
	case probe.KindTaskTerminate:
		t.TaskTerminate(ev)
	default:
		t.WorkerEvent(ev)
	}
}

// A Collection is a running attachment of one Tracer to a provider.
type Collection struct {
	sub *probe.Subscription
	wg  sync.WaitGroup
}

// Collect subscribes the tracer to the provider's probes (all kinds if none
// are given) and dispatches events to it on a dedicated goroutine, so tracer
// work never runs on the instrumented runtime's worker threads.
func Collect(p *probe.Provider, t Tracer, kinds ...probe.Kind) *Collection {
	c := &Collection{sub: p.Subscribe(kinds...)}

	c.wg.Add(1)
	go c.run(t)

	return c
}

func (c *Collection) run(t Tracer) {
	defer c.wg.Done()

	for {
		select {
		case ev := <-c.sub.Events():
			Dispatch(t, ev)
		case <-c.sub.Done():
			// Drain what was buffered before the detach.
			for {
				select {
				case ev := <-c.sub.Events():
					Dispatch(t, ev)
				default:
					return
				}
			}
		}
	}
}

// Dropped returns the number of events lost because the tracer fell behind.
func (c *Collection) Dropped() uint64 {
	return c.sub.Dropped()
}

// Stop detaches the tracer and waits until all buffered events have been
// dispatched.
func (c *Collection) Stop() {
	c.sub.Close()
	c.wg.Wait()
}
