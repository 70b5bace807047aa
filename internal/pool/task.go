package pool

// State is a Task's position in its lifecycle.
type State int

const (
	StateUnsubmitted State = iota // never passed to Pool.Submit
	StateWaiting                  // submitted, pending predecessors remain
	StateReady                    // predecessors resolved, waiting for a worker
	StateRunning                  // a worker is executing the function
	StateCompleted                // function returned (or returned an error)
	StateAborted                  // never ran; an ancestor cancelled it
)

func (s State) String() string {
	switch s {
	case StateUnsubmitted:
		return "unsubmitted"
	case StateWaiting:
		return "waiting"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Flow is the directive a Task's function can leave behind for the
// Coordinator to act on once the function returns.
type Flow int

const (
	FlowContinue       Flow = iota // default: release successors normally
	FlowStopDependents             // abort this Task's transitive successors
	FlowStopAll                    // abort the whole pool, transiently
)

// Func is the work a Task performs. A non-nil error is captured the way a
// thrown exception would be in the source design: delivered on the Task's
// ResultHandle if it has one, while the Task itself is still considered
// Completed for dependency-resolution purposes.
type Func func() (any, error)

// Task is a deferred, possibly dependent unit of work. The zero value
// (via NewTask) is a valid Unsubmitted Task with no function.
type Task struct {
	// Name is purely cosmetic — used in events and logging. The pool never
	// looks tasks up by it; identity is the *Task pointer itself.
	Name string

	fn      Func
	state   State
	flow    Flow
	preds   []*Task
	succs   []*Task
	pending int
	result  *resultChannel
	seq     uint64
}

// NewTask constructs an empty, Unsubmitted Task with no function set.
func NewTask() *Task {
	return &Task{}
}

// NewFunc constructs an Unsubmitted Task with fn already installed.
func NewFunc(fn Func) *Task {
	return &Task{fn: fn}
}

// SetFunction installs fn on the Task. Permitted only while the Task is
// Unsubmitted; replaces any function set by a constructor.
func (t *Task) SetFunction(fn Func) error {
	if t.state != StateUnsubmitted {
		return &ContractViolationError{Msg: "SetFunction called on a task that is no longer Unsubmitted"}
	}
	t.fn = fn
	return nil
}

// SetFunctionWithResult is SetFunction plus a ResultHandle that will deliver
// fn's return value once the Task completes, or ErrAborted if it doesn't.
func (t *Task) SetFunctionWithResult(fn Func) (*ResultHandle, error) {
	if err := t.SetFunction(fn); err != nil {
		return nil, err
	}
	t.result = newResultChannel()
	return &ResultHandle{rc: t.result}, nil
}

// AddDependency attaches other as a predecessor of t: other must complete
// before t becomes Ready. Safe to call with no extra synchronization before
// t is submitted.
//
// Once t is submitted, calling this directly is a contract violation this
// method has no way to detect on its own — use Pool.AddDependency instead,
// under the owning Pool's TaskLockGuard, so t's pending-predecessor count
// and ready-queue membership stay consistent with the new edge.
func (t *Task) AddDependency(other *Task) {
	t.preds = append(t.preds, other)
	other.succs = append(other.succs, t)
}

// SetFlow records the flow directive that takes effect once t's function
// returns. Meaningful only when called from inside that function; calling
// it from outside races with the worker reading it back.
func (t *Task) SetFlow(f Flow) {
	t.flow = f
}

// State reports t's current lifecycle state. Once t is submitted, read it
// only while holding the owning Pool's TaskLockGuard, or expect it to be
// stale the instant the lock is released.
func (t *Task) State() State {
	return t.state
}

// Seq is the order in which the pool admitted the task into its registry.
// Zero until the task is submitted. Used for event/log correlation only.
func (t *Task) Seq() uint64 {
	return t.seq
}
