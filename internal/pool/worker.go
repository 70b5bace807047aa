package pool

import "github.com/aristath/geoflow/internal/events"

// workerLoop is the body run by each of the pool's fixed worker goroutines.
// It waits for a Ready task, runs its function outside the lock, and then
// reacquires the lock to apply the task's flow directive.
func (p *Pool) workerLoop() {
	defer p.workersWG.Done()

	for {
		p.mu.Lock()
		for len(p.ready) == 0 && !p.shuttingDown {
			p.cond.Wait()
		}
		if p.shuttingDown {
			p.mu.Unlock()
			return
		}

		t := p.ready[0]
		p.ready = p.ready[1:]
		t.state = StateRunning
		p.runningCount++
		p.publish(events.TaskStarted, t)
		p.publishProgressLocked()
		p.mu.Unlock()

		value, err := t.fn()

		p.mu.Lock()
		p.completeLocked(t, value, err)
		p.mu.Unlock()
	}
}

// completeLocked applies a Running task's outcome: delivers its result,
// publishes an event, removes it from the registry, and acts on whatever
// flow directive the function left behind before releasing or aborting its
// successors.
func (p *Pool) completeLocked(t *Task, value any, err error) {
	t.state = StateCompleted
	p.runningCount--
	delete(p.registry, t)
	p.completedCount++

	if t.result != nil {
		t.result.deliver(value, err)
	}
	if err != nil {
		p.publishErr(events.TaskFailed, t, err)
	} else {
		p.publish(events.TaskCompleted, t)
	}

	switch t.flow {
	case FlowStopAll:
		p.stopAllLocked()
	case FlowStopDependents:
		p.abortSuccessorsLocked(t)
	default:
		p.releaseSuccessorsLocked(t)
	}

	p.publishProgressLocked()
	p.signalIfDrainedLocked()
}
