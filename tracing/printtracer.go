package tracing

import (
	"fmt"
	"io"
	"sync"

	"github.com/tracelab/taskprobe/probe"
)

// A PrintTracer writes one line per observed event. It is the in-process
// equivalent of attaching a print-everything tracing script.
type PrintTracer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPrintTracer creates a PrintTracer writing to w.
func NewPrintTracer(w io.Writer) *PrintTracer {
	return &PrintTracer{w: w}
}

func (t *PrintTracer) print(ev probe.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ev.Kind.TaskScoped() {
		fmt.Fprintf(t.w, "%s [%d] %s task=%d\n",
			ev.Time.Format("15:04:05.000000"),
			ev.Thread, ev.Kind, ev.TaskID)
		return
	}

	fmt.Fprintf(t.w, "%s [%d] %s\n",
		ev.Time.Format("15:04:05.000000"), ev.Thread, ev.Kind)
}

// TaskSpawn prints the event.
func (t *PrintTracer) TaskSpawn(ev probe.Event) { t.print(ev) }

// PollStart prints the event.
func (t *PrintTracer) PollStart(ev probe.Event) { t.print(ev) }

// PollEnd prints the event.
func (t *PrintTracer) PollEnd(ev probe.Event) { t.print(ev) }

// TaskTerminate prints the event.
func (t *PrintTracer) TaskTerminate(ev probe.Event) { t.print(ev) }

// WorkerEvent prints the event.
func (t *PrintTracer) WorkerEvent(ev probe.Event) { t.print(ev) }
