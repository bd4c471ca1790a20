package event

// Executor runs submitted tasks on some worker.
type Executor interface {
	// Execute schedules task to run once at some later time and returns immediately.
	Execute(task func())
}

// Stopper is implemented by executors that own a lifecycle. StopNow stops
// the workers without waiting, drops queued tasks and returns how many were dropped.
type Stopper interface {
	StopNow() int
}

// ExecutorFunc adapts a function to an Executor with no lifecycle.
type ExecutorFunc func(task func())

// Execute calls f(task).
func (f ExecutorFunc) Execute(task func()) {
	f(task)
}

// Inline runs every task in the calling goroutine.
var Inline Executor = inline{}

type inline struct{}

func (inline) Execute(task func()) {
	task()
}
