package pool

// resultChannel is a single-producer (the worker running the Task),
// single-consumer (the external waiter) one-shot delivery slot. The buffered
// channel of size 1 means deliver never blocks its producer, matching the
// "never blocks the producer" guarantee in the data model.
type resultChannel struct {
	ch chan outcome
}

type outcome struct {
	value   any
	err     error
	aborted bool
}

func newResultChannel() *resultChannel {
	return &resultChannel{ch: make(chan outcome, 1)}
}

func (r *resultChannel) deliver(value any, err error) {
	r.ch <- outcome{value: value, err: err}
}

func (r *resultChannel) deliverAborted() {
	r.ch <- outcome{aborted: true}
}

// ResultHandle is returned by Task.SetFunctionWithResult. Get blocks until
// the Task reaches a terminal state, then yields the function's return
// value and error, or ErrAborted if the Task never ran because an ancestor
// aborted it.
type ResultHandle struct {
	rc *resultChannel
}

// Get blocks until the underlying Task completes or is aborted.
func (h *ResultHandle) Get() (any, error) {
	res := <-h.rc.ch
	if res.aborted {
		return nil, ErrAborted
	}
	return res.value, res.err
}
