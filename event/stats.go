package event

import "sync/atomic"

// Stats is a point-in-time copy of dispatcher counters.
type Stats struct {
	Submitted uint64 // dispatch tasks handed to the executor
	Completed uint64 // dispatch tasks that walked their whole snapshot
	Calls     uint64 // observer calls attempted
	Faults    uint64 // observer calls that panicked or exited
	Pending   int    // tasks queued in an owned worker pool
}

type counters struct {
	submitted atomic.Uint64
	completed atomic.Uint64
	calls     atomic.Uint64
	faults    atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Submitted: c.submitted.Load(),
		Completed: c.completed.Load(),
		Calls:     c.calls.Load(),
		Faults:    c.faults.Load(),
	}
}
