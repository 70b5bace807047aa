package pool

import (
	"time"

	"github.com/aristath/geoflow/internal/events"
)

// submitLocked admits t (and, transitively, any of its predecessors that
// aren't already in the registry) into the pool. Must be called with p.mu
// held.
func (p *Pool) submitLocked(t *Task) error {
	if t.state != StateUnsubmitted {
		// Already submitted (directly, or pulled in as somebody else's
		// predecessor earlier in this same call). Nothing to do.
		return nil
	}
	if t.fn == nil {
		return &ContractViolationError{Msg: "Submit called on a task with no function"}
	}

	for _, pred := range t.preds {
		if pred.state == StateUnsubmitted {
			if err := p.submitLocked(pred); err != nil {
				return err
			}
		}
	}

	p.nextSeq++
	t.seq = p.nextSeq
	p.registry[t] = struct{}{}

	if pendingPreds := unresolvedPredCount(t); pendingPreds > 0 {
		t.pending = pendingPreds
		t.state = StateWaiting
	} else {
		p.markReadyLocked(t)
	}
	p.publish(events.TaskSubmitted, t)
	p.publishProgressLocked()
	// markReadyLocked above can hit the stillborn path and abort t's entire
	// successor cone (including successors registered by an earlier,
	// separate Submit call), which can drain the registry to empty. A
	// Wait() caller blocked before this call started must be woken.
	p.signalIfDrainedLocked()
	return nil
}

// AddDependency attaches other as a predecessor of t, the way
// Task.AddDependency does, but additionally keeps t's scheduling state
// consistent if t has already been submitted. Must be called while holding
// the guard returned by TaskLockGuard — exactly the situation
// Task.AddDependency's own doc describes as requiring it (a running task
// wiring a new predecessor onto an already-submitted successor).
//
// Without this, a predecessor added after Submit would never be counted:
// t.pending was frozen at Submit time and is only ever decremented, so an
// already-Waiting t would reach zero pending predecessors — and an
// already-Ready t would already be sitting in the ready queue — the
// instant its *existing* predecessors finished, regardless of whether
// other had finished yet.
func (p *Pool) AddDependency(t, other *Task) error {
	switch t.state {
	case StateRunning, StateCompleted, StateAborted:
		return &ContractViolationError{Msg: "AddDependency called on a task that is already Running, Completed, or Aborted"}
	}

	t.preds = append(t.preds, other)
	other.succs = append(other.succs, t)

	if t.state == StateUnsubmitted {
		// unresolvedPredCount will see this edge when t is eventually
		// submitted; nothing to reconcile yet.
		return nil
	}

	switch other.state {
	case StateCompleted:
		// Already resolved; t's pending count doesn't need to account for it.
		return nil
	case StateAborted:
		// Stillborn, same as a predecessor that was already aborted at
		// Submit time: t can never satisfy this edge.
		p.abortTaskAndConeLocked(t)
		p.signalIfDrainedLocked()
		return nil
	}

	if t.state == StateReady {
		p.removeFromReadyLocked(t)
		t.state = StateWaiting
		t.pending = 1
		p.publishProgressLocked()
		return nil
	}

	// t.state == StateWaiting: already has at least one unresolved
	// predecessor, this is one more.
	t.pending++
	return nil
}

// unresolvedPredCount counts t's predecessors that haven't reached a
// terminal state yet. A predecessor that is already Aborted does not count
// as resolved — it propagates the abort to t instead, handled by the
// caller.
func unresolvedPredCount(t *Task) int {
	n := 0
	for _, pred := range t.preds {
		switch pred.state {
		case StateCompleted:
			// resolved, doesn't block t
		case StateAborted:
			// handled via abort propagation; doesn't block t in the
			// pending-count sense, but markReadyLocked checks for this
			// case separately.
		default:
			n++
		}
	}
	return n
}

// markReadyLocked transitions t into the ready queue and wakes a worker.
func (p *Pool) markReadyLocked(t *Task) {
	// A task submitted with an already-Aborted predecessor is stillborn:
	// it can never meaningfully run the dependency chain it was submitted
	// for, so it is aborted immediately rather than left to run with a
	// hole in its dependency graph.
	for _, pred := range t.preds {
		if pred.state == StateAborted {
			p.abortTaskAndConeLocked(t)
			return
		}
	}
	t.state = StateReady
	p.ready = append(p.ready, t)
	p.cond.Signal()
}

// releaseSuccessorsLocked runs after t completes normally (FlowContinue).
// Each successor's pending count drops by one; a successor that reaches
// zero becomes Ready.
func (p *Pool) releaseSuccessorsLocked(t *Task) {
	for _, s := range t.succs {
		if s.state != StateWaiting {
			// Already resolved via another path (e.g. aborted by a
			// different predecessor), or not submitted at all.
			continue
		}
		s.pending--
		if s.pending <= 0 {
			p.markReadyLocked(s)
		}
	}
}

// abortSuccessorsLocked runs after t completes with FlowStopDependents:
// every transitive successor of t is aborted, regardless of whether it has
// other, unaffected predecessors.
func (p *Pool) abortSuccessorsLocked(t *Task) {
	for _, s := range t.succs {
		p.abortTaskAndConeLocked(s)
	}
}

// abortTaskAndConeLocked marks t Aborted and recursively aborts its entire
// successor cone. Idempotent: a task already in a terminal state, or
// already Running, is left alone (a Running task has already committed to
// executing and will report its own outcome).
func (p *Pool) abortTaskAndConeLocked(t *Task) {
	switch t.state {
	case StateAborted, StateCompleted, StateRunning:
		return
	}

	t.state = StateAborted
	p.removeFromReadyLocked(t)
	delete(p.registry, t)
	p.abortedCount++
	if t.result != nil {
		t.result.deliverAborted()
	}
	p.publish(events.TaskAborted, t)
	p.publishProgressLocked()

	for _, s := range t.succs {
		p.abortTaskAndConeLocked(s)
	}
}

// removeFromReadyLocked excises t from the ready queue if present. Used
// when an abort reaches a task that was already queued but not yet picked
// up by a worker.
func (p *Pool) removeFromReadyLocked(t *Task) {
	for i, r := range p.ready {
		if r == t {
			p.ready = append(p.ready[:i], p.ready[i+1:]...)
			return
		}
	}
}

// stopAllLocked is FlowStopAll's effect: every task still Waiting or Ready
// is aborted. Tasks already Running finish on their own; the pool is left
// transiently "stopping" until Wait next observes it empty and idle.
func (p *Pool) stopAllLocked() {
	p.stopping = true

	pending := make([]*Task, 0, len(p.registry))
	for t := range p.registry {
		if t.state == StateWaiting || t.state == StateReady {
			pending = append(pending, t)
		}
	}
	for _, t := range pending {
		p.abortTaskAndConeLocked(t)
	}
}

// signalIfDrainedLocked wakes any Wait() callers if the registry is empty
// and no worker is running. Must be called with p.mu held after any state
// transition that could have emptied the pool.
func (p *Pool) signalIfDrainedLocked() {
	if len(p.registry) == 0 && p.runningCount == 0 {
		p.waitCond.Broadcast()
	}
}

func (p *Pool) publish(kind events.Kind, t *Task) {
	p.publishErr(kind, t, nil)
}

func (p *Pool) publishErr(kind events.Kind, t *Task, err error) {
	if p.bus == nil {
		return
	}
	p.bus.Publish(events.TopicTask, events.TaskEvent{
		Kind:      kind,
		Name:      t.Name,
		Seq:       t.seq,
		Err:       err,
		Timestamp: time.Now(),
	})
}

// publishProgressLocked emits a snapshot of the registry's state. Must be
// called with p.mu held, after whatever transition changed the counts it
// reports.
func (p *Pool) publishProgressLocked() {
	if p.bus == nil {
		return
	}

	var waiting, ready, running int
	for t := range p.registry {
		switch t.state {
		case StateWaiting:
			waiting++
		case StateReady:
			ready++
		case StateRunning:
			running++
		}
	}

	p.bus.Publish(events.TopicPool, events.PoolProgressEvent{
		Total:     len(p.registry),
		Running:   running,
		Waiting:   waiting,
		Ready:     ready,
		Completed: p.completedCount,
		Aborted:   p.abortedCount,
		Timestamp: time.Now(),
	})
}
