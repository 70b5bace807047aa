package pool

import "errors"

// ContractViolationError signals that a caller broke a precondition of this
// package's contract (submitting a Task with no function, calling
// SetFunction on an already-submitted Task, calling LateInit twice). These
// are programmer errors; the pool does not attempt to recover from them.
type ContractViolationError struct {
	Msg string
}

func (e *ContractViolationError) Error() string {
	return "pool: contract violation: " + e.Msg
}

// ErrAborted is returned by ResultHandle.Get when the Task it belongs to was
// aborted by an ancestor's StopDependents or StopAll flow directive rather
// than run to completion.
var ErrAborted = errors.New("pool: task aborted")
