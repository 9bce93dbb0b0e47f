package tracing

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tracelab/taskprobe/probe"
)

var _ = Describe("MetricsTracer", func() {
	var (
		reg    *prometheus.Registry
		tracer *MetricsTracer
		base   time.Time
	)

	BeforeEach(func() {
		reg = prometheus.NewRegistry()
		tracer = NewMetricsTracer(reg)
		base = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	})

	It("should track spawn and termination counters", func() {
		tracer.TaskSpawn(pollEvent(probe.KindTaskSpawn, 1, 100, base))
		tracer.TaskSpawn(pollEvent(probe.KindTaskSpawn, 2, 100, base))
		tracer.TaskTerminate(
			pollEvent(probe.KindTaskTerminate, 1, 100, base))

		Expect(testutil.ToFloat64(tracer.spawnsTotal)).To(Equal(2.0))
		Expect(testutil.ToFloat64(tracer.tasksDone)).To(Equal(1.0))
		Expect(testutil.ToFloat64(tracer.liveTasks)).To(Equal(1.0))
	})

	It("should observe completed polls only", func() {
		tracer.PollStart(pollEvent(probe.KindTaskPollStart, 1, 100, base))
		tracer.PollEnd(pollEvent(probe.KindTaskPollEnd, 1, 100,
			base.Add(5*time.Millisecond)))

		// No matching start recorded for this one.
		tracer.PollEnd(pollEvent(probe.KindTaskPollEnd, 2, 200,
			base.Add(time.Millisecond)))

		mfs, err := reg.Gather()
		Expect(err).ToNot(HaveOccurred())

		var samples uint64
		for _, mf := range mfs {
			if mf.GetName() == "taskprobe_poll_duration_seconds" {
				samples = mf.GetMetric()[0].GetHistogram().GetSampleCount()
			}
		}
		Expect(samples).To(Equal(uint64(1)))
	})

	It("should track the parked-worker gauge", func() {
		tracer.WorkerEvent(probe.Event{
			Kind: probe.KindWorkerThreadPark, Thread: 100, Time: base})
		tracer.WorkerEvent(probe.Event{
			Kind: probe.KindWorkerThreadPark, Thread: 200, Time: base})
		tracer.WorkerEvent(probe.Event{
			Kind: probe.KindWorkerThreadUnpark, Thread: 100, Time: base})

		Expect(testutil.ToFloat64(tracer.parkedWorkers)).To(Equal(1.0))
	})
})
