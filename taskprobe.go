// Package taskprobe wires the lifecycle hooks of a sched.Runtime to
// dynamically-observable probes, so that external tools can watch task and
// worker-thread events of a live process with near-zero cost while nobody is
// attached.
//
// Typical usage registers every hook at builder time:
//
//	builder := sched.NewBuilder().Workers(8)
//	if _, err := taskprobe.RegisterHooks(builder); err != nil {
//		// The process works fine without external tracing; the error
//		// only means outside tools cannot attach.
//		log.Printf("WARNING: could not register probes: %v", err)
//	}
//	rt := builder.Build()
//
// The runtime only allows a single function per hook, so applications that
// need their own hook code should wrap the exported hook functions:
//
//	builder.OnTaskSpawn(func(meta sched.TaskMeta) {
//		taskprobe.OnTaskSpawn(meta)
//		myOwnSpawnBookkeeping(meta)
//	})
//
// The bridge itself is stateless: it maps each hook payload to a probe
// emission and nothing else. Correlating poll-starts with poll-ends and
// aggregating durations is the consumer's job; see the tracing package for
// the convention and ready-made consumers.
package taskprobe

import (
	"fmt"

	"github.com/tracelab/taskprobe/probe"
	"github.com/tracelab/taskprobe/sched"
)

// RegisterHooks installs the probe hooks on the builder and registers the
// process's probe namespace with the tracing facility.
//
// The returned error reports that external tracers will not be able to attach
// (for example, the attach socket could not be created on this platform). The
// hooks are installed regardless, the error may be ignored, and the
// instrumented application is never otherwise affected: emission simply stays
// disabled until a subscriber exists.
func RegisterHooks(b *sched.Builder) (*sched.Builder, error) {
	b.OnTaskSpawn(OnTaskSpawn).
		OnBeforeTaskPoll(OnBeforeTaskPoll).
		OnAfterTaskPoll(OnAfterTaskPoll).
		OnTaskTerminate(OnTaskTerminate).
		OnThreadStart(OnThreadStart).
		OnThreadStop(OnThreadStop).
		OnThreadPark(OnThreadPark).
		OnThreadUnpark(OnThreadUnpark)

	if err := probe.Register(); err != nil {
		return b, fmt.Errorf("taskprobe: registration failed: %w", err)
	}

	return b, nil
}

// OnTaskSpawn is the hook for Builder.OnTaskSpawn.
func OnTaskSpawn(meta sched.TaskMeta) {
	probe.Default().EmitTask(probe.KindTaskSpawn, uint64(meta.ID))
}

// OnBeforeTaskPoll is the hook for Builder.OnBeforeTaskPoll.
func OnBeforeTaskPoll(meta sched.TaskMeta) {
	probe.Default().EmitTask(probe.KindTaskPollStart, uint64(meta.ID))
}

// OnAfterTaskPoll is the hook for Builder.OnAfterTaskPoll.
func OnAfterTaskPoll(meta sched.TaskMeta) {
	probe.Default().EmitTask(probe.KindTaskPollEnd, uint64(meta.ID))
}

// OnTaskTerminate is the hook for Builder.OnTaskTerminate. The runtime fires
// it before the poll-end of the completing poll, and the bridge preserves
// that order.
func OnTaskTerminate(meta sched.TaskMeta) {
	probe.Default().EmitTask(probe.KindTaskTerminate, uint64(meta.ID))
}

// OnThreadStart is the hook for Builder.OnThreadStart.
func OnThreadStart() {
	probe.Default().EmitWorker(probe.KindWorkerThreadStart)
}

// OnThreadStop is the hook for Builder.OnThreadStop.
func OnThreadStop() {
	probe.Default().EmitWorker(probe.KindWorkerThreadStop)
}

// OnThreadPark is the hook for Builder.OnThreadPark.
func OnThreadPark() {
	probe.Default().EmitWorker(probe.KindWorkerThreadPark)
}

// OnThreadUnpark is the hook for Builder.OnThreadUnpark.
func OnThreadUnpark() {
	probe.Default().EmitWorker(probe.KindWorkerThreadUnpark)
}
