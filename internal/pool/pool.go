// Package pool implements a fixed-size worker pool whose submitted units of
// work — Tasks — may declare dependencies on one another. A Task runs
// exactly once, after every Task it depends on has completed, and may
// itself cancel its successors or the whole pool by setting a flow
// directive before it returns.
//
// The pool performs no priority scheduling, no work affinity, no cycle
// detection (callers are responsible for submitting an acyclic graph), and
// persists nothing across its own teardown.
package pool

import (
	"sync"

	"github.com/aristath/geoflow/internal/events"
)

// Pool is the Coordinator described by the package doc: the single mutex
// and pair of condition variables guarding the task registry, ready queue,
// and liveness counters for a fixed set of worker goroutines.
//
// The zero value is a valid, uninitialized Pool; call LateInit once before
// using it, or use New to construct and initialize in one step.
type Pool struct {
	mu       sync.Mutex
	cond     *sync.Cond // workers wait on this
	waitCond *sync.Cond // external Wait() callers wait on this

	registry map[*Task]struct{}
	ready    []*Task

	runningCount   int
	workerCount    int
	nextSeq        uint64
	completedCount int
	abortedCount   int

	initialized  bool
	stopping     bool // transient; cleared once Wait() observes an empty, idle pool
	shuttingDown bool // permanent; set by Close

	workersWG sync.WaitGroup

	bus *events.EventBus // optional; nil means "don't publish"
}

// New constructs and starts a Pool with the given number of workers.
func New(workerCount int) *Pool {
	p := &Pool{}
	p.initUnlocked(workerCount)
	return p
}

// LateInit initializes a default-constructed Pool with workerCount workers.
// Must be called at most once, and only on a Pool that wasn't already
// initialized by New or a prior LateInit call.
func (p *Pool) LateInit(workerCount int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return &ContractViolationError{Msg: "LateInit called on an already-initialized pool"}
	}
	p.initUnlocked(workerCount)
	return nil
}

func (p *Pool) initUnlocked(workerCount int) {
	p.registry = make(map[*Task]struct{})
	p.cond = sync.NewCond(&p.mu)
	p.waitCond = sync.NewCond(&p.mu)
	p.workerCount = workerCount
	p.initialized = true

	p.workersWG.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.workerLoop()
	}
}

// SetEventBus wires an events.EventBus that the pool will publish task
// lifecycle events to. Not required for correct operation — queries work
// without it — but lets external observers (a dashboard, a log sink) watch
// the pool without polling it.
func (p *Pool) SetEventBus(bus *events.EventBus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bus = bus
}

// Submit inserts t, and any of t's transitive predecessors that aren't
// submitted yet, into the pool. Tasks with no unsatisfied predecessors
// become Ready immediately and wake a worker.
func (p *Pool) Submit(t *Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitLocked(t)
}

// TaskLockGuard acquires the Coordinator's mutex and returns a handle that
// releases it on Unlock. A running Task's function uses this to mutate
// another already-submitted Task's dependency edges (via Pool.AddDependency)
// atomically with respect to completion accounting.
type TaskLockGuard struct {
	p *Pool
}

// Unlock releases the guard. Safe to call exactly once.
func (g *TaskLockGuard) Unlock() {
	g.p.mu.Unlock()
}

// TaskLockGuard locks the Coordinator mutex and returns a guard to release
// it. See Pool.AddDependency's doc for when this is required.
func (p *Pool) TaskLockGuard() *TaskLockGuard {
	p.mu.Lock()
	return &TaskLockGuard{p: p}
}

// Pending is the number of tasks in the registry: Waiting + Ready + Running.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.registry)
}

// Empty reports whether Pending() == 0.
func (p *Pool) Empty() bool {
	return p.Pending() == 0
}

// Idle reports whether no worker is currently executing a task.
func (p *Pool) Idle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runningCount == 0
}

// Busy is the negation of Idle.
func (p *Pool) Busy() bool {
	return !p.Idle()
}

// Stopping reports whether the pool-wide stop flag is currently set. It is
// always false once Wait returns, regardless of whether a StopAll ran
// during the preceding batch — the flag is transient.
func (p *Pool) Stopping() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopping
}

// Wait blocks until the pool has nothing pending and no worker is running a
// task. Calling Wait from inside a Task's own function deadlocks; that is a
// contract violation this package does not attempt to detect.
func (p *Pool) Wait() {
	p.mu.Lock()
	for !(len(p.registry) == 0 && p.runningCount == 0) {
		p.waitCond.Wait()
	}
	p.stopping = false
	p.mu.Unlock()
}

// Stop is the out-of-band equivalent of a Task setting FlowStopAll: it
// drains the ready queue, aborts every still-Waiting task, and lets
// currently Running tasks finish undisturbed. The stopping flag clears once
// Wait observes the pool empty and idle.
func (p *Pool) Stop() {
	p.mu.Lock()
	p.stopAllLocked()
	p.signalIfDrainedLocked()
	p.mu.Unlock()
}

// Close permanently shuts the pool down: it wakes every worker, waits for
// them to exit, and discards whatever remains in the registry. Submitting
// after Close has been called is undefined, exactly as for the pool this
// package's tests were written against.
func (p *Pool) Close() {
	p.mu.Lock()
	p.shuttingDown = true
	p.cond.Broadcast()
	p.mu.Unlock()

	p.workersWG.Wait()

	p.mu.Lock()
	p.registry = make(map[*Task]struct{})
	p.ready = nil
	p.mu.Unlock()
}
