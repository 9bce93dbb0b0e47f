package tracing

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	// Events are recorded over SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/tracelab/taskprobe/probe"
)

const recorderBatchSize = 10000

type eventRow struct {
	kind   string
	taskID uint64
	thread uint64
	timeNS int64
}

// A Recorder writes every observed event into a SQLite database for offline
// analysis. Rows are buffered and inserted in batches; the buffer is flushed
// at process exit and on Close.
type Recorder struct {
	db   *sql.DB
	path string

	mu  sync.Mutex
	buf []eventRow
}

// NewRecorder creates a Recorder backed by the SQLite file at path, which
// must not exist yet. An empty path picks a unique name in the working
// directory.
func NewRecorder(path string) (*Recorder, error) {
	if path == "" {
		path = "taskprobe_trace_" + xid.New().String() + ".sqlite3"
	}

	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("tracing: %s already exists", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("tracing: cannot open %s: %w", path, err)
	}

	_, err = db.Exec(`CREATE TABLE trace_events (
		kind TEXT,
		task_id INTEGER,
		thread INTEGER,
		time_ns INTEGER
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("tracing: cannot create table: %w", err)
	}

	r := &Recorder{db: db, path: path}
	atexit.Register(func() { r.Flush() })

	return r, nil
}

// Path returns the database file path.
func (r *Recorder) Path() string {
	return r.path
}

func (r *Recorder) record(ev probe.Event) {
	r.mu.Lock()
	r.buf = append(r.buf, eventRow{
		kind:   ev.Kind.String(),
		taskID: ev.TaskID,
		thread: ev.Thread,
		timeNS: ev.Time.UnixNano(),
	})
	full := len(r.buf) >= recorderBatchSize
	r.mu.Unlock()

	if full {
		r.Flush()
	}
}

// Flush writes all buffered rows to the database.
func (r *Recorder) Flush() {
	r.mu.Lock()
	rows := r.buf
	r.buf = nil
	r.mu.Unlock()

	if len(rows) == 0 {
		return
	}

	tx, err := r.db.Begin()
	if err != nil {
		return
	}

	stmt, err := tx.Prepare(
		"INSERT INTO trace_events (kind, task_id, thread, time_ns) " +
			"VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return
	}

	for _, row := range rows {
		_, _ = stmt.Exec(row.kind, row.taskID, row.thread, row.timeNS)
	}

	stmt.Close()
	_ = tx.Commit()
}

// Close flushes the buffer and closes the database.
func (r *Recorder) Close() error {
	r.Flush()
	return r.db.Close()
}

// TaskSpawn records the event.
func (r *Recorder) TaskSpawn(ev probe.Event) { r.record(ev) }

// PollStart records the event.
func (r *Recorder) PollStart(ev probe.Event) { r.record(ev) }

// PollEnd records the event.
func (r *Recorder) PollEnd(ev probe.Event) { r.record(ev) }

// TaskTerminate records the event.
func (r *Recorder) TaskTerminate(ev probe.Event) { r.record(ev) }

// WorkerEvent records the event.
func (r *Recorder) WorkerEvent(ev probe.Event) { r.record(ev) }
