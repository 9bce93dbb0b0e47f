package probe

// A Kind identifies one lifecycle probe. The set of kinds is closed: adding a
// kind is a breaking change for any consumer that matches probes by name.
type Kind uint8

const (
	// KindTaskSpawn fires when the runtime creates a new task.
	KindTaskSpawn Kind = iota

	// KindTaskPollStart fires right before the runtime resumes a task.
	KindTaskPollStart

	// KindTaskPollEnd fires right after the runtime suspends a task.
	KindTaskPollEnd

	// KindTaskTerminate fires when a task produces its final result. It is
	// emitted strictly before the poll-end of the poll that completed the
	// task.
	KindTaskTerminate

	// KindWorkerThreadStart fires when a worker thread begins executing,
	// before it polls any task.
	KindWorkerThreadStart

	// KindWorkerThreadStop fires when a worker thread is about to exit.
	KindWorkerThreadStop

	// KindWorkerThreadPark fires when a worker thread runs out of ready work
	// and is about to suspend.
	KindWorkerThreadPark

	// KindWorkerThreadUnpark fires when a parked worker thread resumes.
	KindWorkerThreadUnpark

	numKinds
)

var kindNames = [numKinds]string{
	KindTaskSpawn:          "task-spawn",
	KindTaskPollStart:      "task-poll-start",
	KindTaskPollEnd:        "task-poll-end",
	KindTaskTerminate:      "task-terminate",
	KindWorkerThreadStart:  "worker-thread-start",
	KindWorkerThreadStop:   "worker-thread-stop",
	KindWorkerThreadPark:   "worker-thread-park",
	KindWorkerThreadUnpark: "worker-thread-unpark",
}

// String returns the probe name as listed to external tracers.
func (k Kind) String() string {
	if k >= numKinds {
		return "unknown"
	}

	return kindNames[k]
}

// TaskScoped tells whether the kind carries a task ID as arg0. Worker-thread
// kinds carry no arguments.
func (k Kind) TaskScoped() bool {
	return k <= KindTaskTerminate
}

// ArgNames returns the argument names of the kind, in order. Task-scoped
// kinds have a single argument, arg0, holding the task ID.
func (k Kind) ArgNames() []string {
	if k.TaskScoped() {
		return []string{"arg0"}
	}

	return nil
}

// KindByName resolves a probe name back to its Kind.
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}

	return 0, false
}

// Kinds returns all probe kinds in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, numKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}

	return kinds
}
