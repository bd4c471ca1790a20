package event

import (
	"fmt"
	"sync"

	"github.com/yinyihanbing/gutils/logs"
)

// WorkerPool runs tasks on a fixed number of goroutines fed from an
// unbounded FIFO queue. Execute never blocks on a busy pool.
type WorkerPool struct {
	size    int
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	stopped bool
	wg      sync.WaitGroup
}

// NewWorkerPool starts a pool with n workers.
func NewWorkerPool(n int) (*WorkerPool, error) {
	if n < 1 {
		return nil, fmt.Errorf("worker pool size %d: %w", n, ErrInvalidThreadCount)
	}

	p := &WorkerPool{size: n}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p, nil
}

// Execute queues task. Tasks submitted after StopNow are dropped.
func (p *WorkerPool) Execute(task func()) {
	if task == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		logs.Debug("worker pool stopped, task dropped")
		return
	}
	p.queue = append(p.queue, task)
	p.cond.Signal()
}

// StopNow stops the workers and drops queued tasks. Tasks already running
// finish; their goroutines exit afterwards. It returns the number of dropped tasks.
func (p *WorkerPool) StopNow() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return 0
	}

	p.stopped = true
	dropped := len(p.queue)
	p.queue = nil
	p.cond.Broadcast()
	return dropped
}

// Wait blocks until every worker has exited. It only returns after StopNow.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

// Size returns the number of workers.
func (p *WorkerPool) Size() int {
	return p.size
}

// Pending returns the number of queued tasks not yet picked up by a worker.
func (p *WorkerPool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Stopped reports whether StopNow has been called.
func (p *WorkerPool) Stopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

// worker takes tasks from the queue until the pool is stopped.
func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.stopped {
			p.cond.Wait()
		}
		if p.stopped {
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.run(task)
	}
}

// run executes task, keeping the worker alive if it panics. A task that
// calls runtime.Goexit takes its goroutine down, so a replacement is started.
func (p *WorkerPool) run(task func()) {
	returned := false
	defer func() {
		if r := recover(); r != nil {
			logs.Error("worker pool task panic: %v: %s", r, stack())
			return
		}
		if !returned {
			logs.Error("worker pool task exited its goroutine, starting a replacement")
			p.wg.Add(1)
			go p.worker()
		}
	}()
	task()
	returned = true
}
