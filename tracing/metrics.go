package tracing

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tracelab/taskprobe/probe"
)

// A MetricsTracer exports the probe stream as Prometheus metrics: a poll
// duration histogram, spawn/completion counters, a live-task gauge, and a
// parked-worker gauge.
type MetricsTracer struct {
	timer *PollTimer

	pollDuration  prometheus.Histogram
	spawnsTotal   prometheus.Counter
	tasksDone     prometheus.Counter
	liveTasks     prometheus.Gauge
	parkedWorkers prometheus.Gauge
}

// NewMetricsTracer creates a MetricsTracer and registers its collectors with
// reg.
func NewMetricsTracer(reg prometheus.Registerer) *MetricsTracer {
	t := &MetricsTracer{
		timer: NewPollTimer(),
		pollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "taskprobe_poll_duration_seconds",
			Help:    "Duration of individual task polls.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 2, 24),
		}),
		spawnsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskprobe_task_spawns_total",
			Help: "Tasks spawned since the tracer attached.",
		}),
		tasksDone: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskprobe_task_terminations_total",
			Help: "Tasks terminated since the tracer attached.",
		}),
		liveTasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "taskprobe_live_tasks",
			Help: "Currently live tasks, as observed.",
		}),
		parkedWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "taskprobe_parked_workers",
			Help: "Worker threads currently parked, as observed.",
		}),
	}

	reg.MustRegister(
		t.pollDuration,
		t.spawnsTotal,
		t.tasksDone,
		t.liveTasks,
		t.parkedWorkers,
	)

	return t
}

// TaskSpawn counts the spawn.
func (t *MetricsTracer) TaskSpawn(_ probe.Event) {
	t.spawnsTotal.Inc()
	t.liveTasks.Inc()
}

// PollStart records the poll start.
func (t *MetricsTracer) PollStart(ev probe.Event) {
	t.timer.RecordStart(ev)
}

// PollEnd observes the completed poll's duration.
func (t *MetricsTracer) PollEnd(ev probe.Event) {
	if _, elapsed, ok := t.timer.RecordEnd(ev); ok {
		t.pollDuration.Observe(elapsed.Seconds())
	}
}

// TaskTerminate counts the completion.
func (t *MetricsTracer) TaskTerminate(_ probe.Event) {
	t.tasksDone.Inc()
	t.liveTasks.Dec()
}

// WorkerEvent tracks the parked-worker gauge.
func (t *MetricsTracer) WorkerEvent(ev probe.Event) {
	switch ev.Kind {
	case probe.KindWorkerThreadPark:
		t.parkedWorkers.Inc()
	case probe.KindWorkerThreadUnpark:
		t.parkedWorkers.Dec()
	}
}
