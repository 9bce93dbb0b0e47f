// Package tracing contains consumers of the probe stream: the correlation
// convention that turns raw lifecycle events into durations, and a set of
// ready-made tracers built on it.
//
// # Correlation convention
//
// The probe bridge is stateless, so reconstructing durations is the
// consumer's job, under two rules:
//
// Per-thread poll timing: on a task-poll-start event the consumer records the
// event time keyed by the event's thread stamp, not by task ID. A worker
// thread polls exactly one task at a time, so the next task-poll-end on the
// same thread belongs to the same poll, and both events carry the same task
// ID. PollTimer implements this rule.
//
// Per-task aggregation: a table keyed by task ID accumulates spawn time,
// cumulative poll time, and poll count. The entry must be evicted when the
// task's terminate event is observed, both to bound memory and because task
// IDs are only unique among concurrently live tasks. TaskAggregator
// implements this rule.
//
// Consumers must tolerate missing events: an attach that happens mid-poll
// sees a poll-end with no recorded start, and an abrupt shutdown can leave a
// poll-start with no end. PollTimer drops the former; aggregation state for
// the latter is bounded by eviction or by the consumer's own timeout policy.
package tracing
