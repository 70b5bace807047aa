package events

import (
	"time"
)

// Event is the base interface for all events.
type Event interface {
	EventType() string
	TaskID() string
}

// Topic constants
const (
	TopicTask = "task"
	TopicPool = "pool"
)

// Kind identifies what happened to a pool.Task.
type Kind string

// Kind / event type constants.
const (
	TaskSubmitted Kind = "task.submitted"
	TaskStarted   Kind = "task.started"
	TaskCompleted Kind = "task.completed"
	TaskFailed    Kind = "task.failed"
	TaskAborted   Kind = "task.aborted"

	EventTypePoolProgress = "pool.progress"
	EventTypeTaskOutput   = "task.output"
)

// TaskEvent is published for every lifecycle transition a pool.Task goes
// through: submission, start, completion (success or error), and abort.
type TaskEvent struct {
	Kind      Kind
	Name      string
	Seq       uint64
	Err       error
	Timestamp time.Time
}

func (e TaskEvent) EventType() string { return string(e.Kind) }
func (e TaskEvent) TaskID() string    { return e.Name }

// PoolProgressEvent is a point-in-time snapshot of a pool's registry,
// published so a dashboard can render occupancy without polling.
type PoolProgressEvent struct {
	Total     int
	Running   int
	Waiting   int
	Ready     int
	Completed int
	Aborted   int
	Timestamp time.Time
}

func (e PoolProgressEvent) EventType() string { return EventTypePoolProgress }
func (e PoolProgressEvent) TaskID() string    { return "" }

// TaskOutputEvent carries one line of captured stdout/stderr from a task
// that shells out to an external tool (osm2pgsql, ogr2ogr). Tasks that
// don't invoke a subprocess never publish this.
type TaskOutputEvent struct {
	Name      string
	Line      string
	Timestamp time.Time
}

func (e TaskOutputEvent) EventType() string { return EventTypeTaskOutput }
func (e TaskOutputEvent) TaskID() string    { return e.Name }
