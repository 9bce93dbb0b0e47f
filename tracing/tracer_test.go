package tracing

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/tracelab/taskprobe/probe"
)

var _ = Describe("Dispatch", func() {
	var (
		mockCtrl *gomock.Controller
		tracer   *MockTracer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		tracer = NewMockTracer(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should route each task event to the matching method", func() {
		spawn := probe.Event{Kind: probe.KindTaskSpawn, TaskID: 3}
		start := probe.Event{Kind: probe.KindTaskPollStart, TaskID: 3}
		end := probe.Event{Kind: probe.KindTaskPollEnd, TaskID: 3}
		term := probe.Event{Kind: probe.KindTaskTerminate, TaskID: 3}

		tracer.EXPECT().TaskSpawn(spawn)
		tracer.EXPECT().PollStart(start)
		tracer.EXPECT().PollEnd(end)
		tracer.EXPECT().TaskTerminate(term)

		Dispatch(tracer, spawn)
		Dispatch(tracer, start)
		Dispatch(tracer, end)
		Dispatch(tracer, term)
	})

	It("should route all worker events to WorkerEvent", func() {
		kinds := []probe.Kind{
			probe.KindWorkerThreadStart,
			probe.KindWorkerThreadStop,
			probe.KindWorkerThreadPark,
			probe.KindWorkerThreadUnpark,
		}

		tracer.EXPECT().WorkerEvent(gomock.Any()).Times(len(kinds))

		for _, k := range kinds {
			Dispatch(tracer, probe.Event{Kind: k, Thread: 11})
		}
	})
})

var _ = Describe("Collect", func() {
	var (
		mockCtrl *gomock.Controller
		tracer   *MockTracer
		provider *probe.Provider
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		tracer = NewMockTracer(mockCtrl)
		provider = probe.NewProvider()
	})

	AfterEach(func() {
		mockCtrl.Finish()
		provider.Close()
	})

	It("should dispatch emitted events and drain on Stop", func() {
		tracer.EXPECT().TaskSpawn(gomock.Any())
		tracer.EXPECT().PollStart(gomock.Any())
		tracer.EXPECT().PollEnd(gomock.Any())
		tracer.EXPECT().TaskTerminate(gomock.Any())

		c := Collect(provider, tracer)

		provider.EmitTask(probe.KindTaskSpawn, 1)
		provider.EmitTask(probe.KindTaskPollStart, 1)
		provider.EmitTask(probe.KindTaskPollEnd, 1)
		provider.EmitTask(probe.KindTaskTerminate, 1)

		c.Stop()

		Expect(c.Dropped()).To(BeZero())
	})

	It("should only receive the requested kinds", func() {
		tracer.EXPECT().TaskSpawn(gomock.Any()).Times(2)

		c := Collect(provider, tracer, probe.KindTaskSpawn)

		provider.EmitTask(probe.KindTaskSpawn, 1)
		provider.EmitTask(probe.KindTaskPollStart, 1)
		provider.EmitTask(probe.KindTaskSpawn, 2)
		provider.EmitWorker(probe.KindWorkerThreadPark)

		c.Stop()
	})

	It("should stop the provider from emitting after Stop", func() {
		c := Collect(provider, tracer, probe.KindTaskSpawn)

		Eventually(func() bool {
			return provider.Enabled(probe.KindTaskSpawn)
		}).Should(BeTrue())

		c.Stop()

		Expect(provider.Enabled(probe.KindTaskSpawn)).To(BeFalse())
	})
})

var _ = Describe("PrintTracer", func() {
	It("should write one line per event", func() {
		var buf bytes.Buffer

		t := NewPrintTracer(&buf)
		t.TaskSpawn(probe.Event{
			Kind:   probe.KindTaskSpawn,
			TaskID: 42,
			Thread: 7,
			Time:   time.Unix(0, 0),
		})
		t.WorkerEvent(probe.Event{
			Kind:   probe.KindWorkerThreadPark,
			Thread: 7,
			Time:   time.Unix(0, 0),
		})

		out := buf.String()
		Expect(out).To(ContainSubstring("task-spawn"))
		Expect(out).To(ContainSubstring("42"))
		Expect(out).To(ContainSubstring("worker-thread-park"))
	})
})
