package tracing

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tracelab/taskprobe/probe"
)

func pollEvent(
	kind probe.Kind,
	taskID, thread uint64,
	at time.Time,
) probe.Event {
	return probe.Event{Kind: kind, TaskID: taskID, Thread: thread, Time: at}
}

var _ = Describe("PollTimer", func() {
	var (
		timer *PollTimer
		base  time.Time
	)

	BeforeEach(func() {
		timer = NewPollTimer()
		base = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	})

	It("should attribute the elapsed time to the polled task", func() {
		timer.RecordStart(
			pollEvent(probe.KindTaskPollStart, 5, 100, base))

		taskID, elapsed, ok := timer.RecordEnd(
			pollEvent(probe.KindTaskPollEnd, 5, 100,
				base.Add(3*time.Millisecond)))

		Expect(ok).To(BeTrue())
		Expect(taskID).To(Equal(uint64(5)))
		Expect(elapsed).To(Equal(3 * time.Millisecond))
		Expect(timer.InFlight()).To(Equal(0))
	})

	It("should keep concurrent threads independent", func() {
		timer.RecordStart(
			pollEvent(probe.KindTaskPollStart, 1, 100, base))
		timer.RecordStart(
			pollEvent(probe.KindTaskPollStart, 2, 200,
				base.Add(time.Millisecond)))
		Expect(timer.InFlight()).To(Equal(2))

		_, elapsed1, ok := timer.RecordEnd(
			pollEvent(probe.KindTaskPollEnd, 1, 100,
				base.Add(5*time.Millisecond)))
		Expect(ok).To(BeTrue())
		Expect(elapsed1).To(Equal(5 * time.Millisecond))

		_, elapsed2, ok := timer.RecordEnd(
			pollEvent(probe.KindTaskPollEnd, 2, 200,
				base.Add(2*time.Millisecond)))
		Expect(ok).To(BeTrue())
		Expect(elapsed2).To(Equal(time.Millisecond))
	})

	It("should skip a poll-end with no recorded start", func() {
		_, _, ok := timer.RecordEnd(
			pollEvent(probe.KindTaskPollEnd, 5, 100, base))
		Expect(ok).To(BeFalse())
	})

	It("should skip a poll-end whose task differs from the start", func() {
		timer.RecordStart(
			pollEvent(probe.KindTaskPollStart, 5, 100, base))

		_, _, ok := timer.RecordEnd(
			pollEvent(probe.KindTaskPollEnd, 6, 100,
				base.Add(time.Millisecond)))

		Expect(ok).To(BeFalse())
		Expect(timer.InFlight()).To(Equal(0),
			"a mismatched end still consumes the stale start")
	})
})

var _ = Describe("TaskAggregator", func() {
	var (
		agg  *TaskAggregator
		base time.Time
	)

	BeforeEach(func() {
		agg = NewTaskAggregator()
		base = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	})

	It("should accumulate polls per task", func() {
		agg.OnSpawn(pollEvent(probe.KindTaskSpawn, 5, 100, base))
		agg.AddPoll(5, 2*time.Millisecond)
		agg.AddPoll(5, 3*time.Millisecond)

		stats, ok := agg.Finalize(5)
		Expect(ok).To(BeTrue())
		Expect(stats.SpawnTime).To(Equal(base))
		Expect(stats.Polls).To(Equal(uint64(2)))
		Expect(stats.PollTime).To(Equal(5 * time.Millisecond))
	})

	It("should evict the task on finalize", func() {
		agg.OnSpawn(pollEvent(probe.KindTaskSpawn, 5, 100, base))
		Expect(agg.Live()).To(Equal(1))

		_, ok := agg.Finalize(5)
		Expect(ok).To(BeTrue())
		Expect(agg.Live()).To(Equal(0))

		_, ok = agg.Finalize(5)
		Expect(ok).To(BeFalse())
	})

	It("should track polls of a task it never saw spawn", func() {
		agg.AddPoll(9, time.Millisecond)

		stats, ok := agg.Finalize(9)
		Expect(ok).To(BeTrue())
		Expect(stats.SpawnTime.IsZero()).To(BeTrue())
		Expect(stats.Polls).To(Equal(uint64(1)))
	})

	It("should keep a reused id separate from the finalized task", func() {
		agg.OnSpawn(pollEvent(probe.KindTaskSpawn, 5, 100, base))
		agg.AddPoll(5, 10*time.Millisecond)
		agg.Finalize(5)

		agg.OnSpawn(pollEvent(probe.KindTaskSpawn, 5, 100,
			base.Add(time.Second)))
		agg.AddPoll(5, time.Millisecond)

		stats, ok := agg.Finalize(5)
		Expect(ok).To(BeTrue())
		Expect(stats.PollTime).To(Equal(time.Millisecond))
	})
})
