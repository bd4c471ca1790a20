package event

import (
	"fmt"
	"sync"

	"github.com/yinyihanbing/gutils"
	"github.com/yinyihanbing/gutils/logs"
	"github.com/yinyihanbing/gutils/timer"

	"sessevent/conf"
)

// Dispatcher delivers events and packets to registered observers through an
// Executor. Each notify call submits one task which calls every observer of
// the registry snapshot in order, isolating observer faults.
//
// If no executor is set, Init creates a WorkerPool. Its size is the thread
// count set with SetThreadCount, or when that is unset the value the Resolver
// holds for conf.KeyEventThreadPoolSize, or conf.DefaultEventThreadPoolSize.
type Dispatcher struct {
	name       string
	registry   *Registry
	resolver   conf.Resolver
	onFault    FaultHandler
	statusCron string

	mu          sync.RWMutex
	executor    Executor
	borrowed    bool // executor is never stopped by Destroy
	threadCount int
	timer       *gutils.TimerHelper
	destroyed   bool

	stats counters
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithName sets the name used in log output.
func WithName(name string) Option {
	return func(d *Dispatcher) {
		d.name = name
	}
}

// WithResolver sets the resolver consulted for the pool size.
func WithResolver(r conf.Resolver) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.resolver = r
		}
	}
}

// WithThreadCount is the option form of SetThreadCount.
func WithThreadCount(n int) Option {
	return func(d *Dispatcher) {
		d.threadCount = n
	}
}

// WithFaultHandler sets a callback invoked for every observer fault.
func WithFaultHandler(h FaultHandler) Option {
	return func(d *Dispatcher) {
		d.onFault = h
	}
}

// WithStatusCron logs dispatcher stats on the given cron schedule
// (seconds field first, e.g. "0 */10 * * * *") between Init and Destroy.
func WithStatusCron(expr string) Option {
	return func(d *Dispatcher) {
		d.statusCron = expr
	}
}

// NewDispatcher creates a dispatcher. Call Init before notifying.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		name:       "event",
		registry:   NewRegistry(),
		resolver:   conf.Default(),
		statusCron: conf.EventStatusCron,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewSimpleDispatcher creates a dispatcher that calls observers in the
// notifying goroutine. Faults are isolated exactly as with a pool.
func NewSimpleDispatcher(opts ...Option) *Dispatcher {
	d := NewDispatcher(opts...)
	d.executor = Inline
	d.borrowed = true
	return d
}

// Init creates the worker pool if no executor is set. Calling it again,
// or after SetExecutor, does not create another pool. The status timer is
// not restarted after Destroy.
func (d *Dispatcher) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	startTimer := d.statusCron != "" && d.timer == nil && !d.destroyed
	if startTimer {
		if _, err := timer.NewCronExpr(d.statusCron); err != nil {
			return fmt.Errorf("dispatcher %s: %w %q: %v", d.name, ErrInvalidStatusCron, d.statusCron, err)
		}
	}

	if d.executor == nil {
		n := d.threadCount
		if n < 1 {
			n = d.resolver.GetInt(conf.KeyEventThreadPoolSize, conf.DefaultEventThreadPoolSize)
		}
		pool, err := NewWorkerPool(n)
		if err != nil {
			return fmt.Errorf("dispatcher %s: %w", d.name, err)
		}
		d.executor = pool
		d.borrowed = false
		logs.Info("dispatcher %v started %v workers", d.name, n)
	}

	if startTimer {
		// the expression was checked above, CronFuncExt cannot panic
		d.timer = gutils.NewTimerHelper()
		d.timer.CronFuncExt(d.statusCron, d.outStatus)
	}
	return nil
}

// Destroy stops the executor when it is a Stopper that was not lent with
// LendExecutor. Queued tasks are dropped; it never waits for running ones.
func (d *Dispatcher) Destroy() {
	d.mu.Lock()
	e, borrowed, timer := d.executor, d.borrowed, d.timer
	d.timer = nil
	d.destroyed = true
	d.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if borrowed {
		return
	}
	if s, ok := e.(Stopper); ok {
		dropped := s.StopNow()
		logs.Info("dispatcher %v stopped, %v queued tasks dropped", d.name, dropped)
	}
}

// NotifyEvent hands e to every observer's OnEvent on a worker and returns
// without waiting. The only error is ErrNotInitialized.
func (d *Dispatcher) NotifyEvent(s Session, e Event) error {
	return d.submit(s, e, deliverEvent)
}

// NotifyPacket hands p to every observer's OnPacket on a worker and returns
// without waiting. The only error is ErrNotInitialized.
func (d *Dispatcher) NotifyPacket(s Session, p Packet) error {
	return d.submit(s, p, deliverPacket)
}

// SetThreadCount sets the size of the pool Init creates. It has no effect
// once an executor is present.
func (d *Dispatcher) SetThreadCount(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.threadCount = n
}

// ThreadCount returns the configured thread count, 0 when unset.
func (d *Dispatcher) ThreadCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.threadCount
}

// SetExecutor sets the executor. Destroy stops it if it is a Stopper.
// Configure before dispatching starts.
func (d *Dispatcher) SetExecutor(e Executor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.executor = e
	d.borrowed = false
}

// LendExecutor sets an executor owned by the caller. Destroy never stops it.
func (d *Dispatcher) LendExecutor(e Executor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.executor = e
	d.borrowed = true
}

// Executor returns the current executor, nil before Init or SetExecutor.
func (d *Dispatcher) Executor() Executor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.executor
}

// AddObserver registers o. It returns false for nil or duplicate observers.
func (d *Dispatcher) AddObserver(o Observer) bool {
	return d.registry.Add(o)
}

// RemoveObserver unregisters o.
func (d *Dispatcher) RemoveObserver(o Observer) bool {
	return d.registry.Remove(o)
}

// Observers returns a snapshot of the registered observers.
func (d *Dispatcher) Observers() []Observer {
	return d.registry.Snapshot()
}

// Stats returns the dispatcher counters.
func (d *Dispatcher) Stats() Stats {
	st := d.stats.snapshot()
	if p, ok := d.Executor().(interface{ Pending() int }); ok {
		st.Pending = p.Pending()
	}
	return st
}

// OnInit initializes the dispatcher as a module.
func (d *Dispatcher) OnInit() {
	if err := d.Init(); err != nil {
		logs.Fatal("%v", err)
	}
}

// Run waits for the close signal; dispatching happens on the executor.
func (d *Dispatcher) Run(closeSig chan bool) {
	<-closeSig
}

// OnDestroy destroys the dispatcher as a module.
func (d *Dispatcher) OnDestroy() {
	d.Destroy()
}

// deliverFunc calls the entry point of o matching the payload kind.
type deliverFunc func(o Observer, s Session, payload any)

func deliverEvent(o Observer, s Session, payload any) {
	o.OnEvent(s, payload)
}

func deliverPacket(o Observer, s Session, payload any) {
	o.OnPacket(s, payload)
}

// submit snapshots the registry and queues one dispatch task.
func (d *Dispatcher) submit(s Session, payload any, deliver deliverFunc) error {
	e := d.Executor()
	if e == nil {
		return ErrNotInitialized
	}

	// published registry lists are never modified, no copy needed
	observers := d.registry.load()
	d.stats.submitted.Add(1)
	e.Execute(func() {
		d.dispatch(observers, s, payload, deliver)
	})
	return nil
}

// dispatch calls deliver for each observer in order.
func (d *Dispatcher) dispatch(observers []Observer, s Session, payload any, deliver deliverFunc) {
	i := 0
	defer func() {
		// observers[i] called runtime.Goexit: finish the walk while the goroutine unwinds
		if i < len(observers) {
			d.dispatch(observers[i+1:], s, payload, deliver)
		}
	}()

	for ; i < len(observers); i++ {
		d.invoke(observers[i], s, payload, deliver)
	}
	d.stats.completed.Add(1)
}

// invoke calls a single observer and reports a panic or Goexit as a Fault.
func (d *Dispatcher) invoke(o Observer, s Session, payload any, deliver deliverFunc) {
	d.stats.calls.Add(1)

	returned := false
	defer func() {
		r := recover()
		if returned {
			return
		}
		if r == nil {
			r = ErrObserverExit
		}
		d.fault(&Fault{
			Observer: o,
			Session:  s,
			Payload:  payload,
			Value:    r,
			Stack:    stack(),
		})
	}()

	deliver(o, s, payload)
	returned = true
}

// fault logs f and passes it to the fault handler.
func (d *Dispatcher) fault(f *Fault) {
	d.stats.faults.Add(1)
	logs.Error("observer %v threw an exception: %v: %s", f.Observer, f.Value, f.Stack)

	if d.onFault == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logs.Error("fault handler panic: %v", r)
		}
	}()
	d.onFault(f)
}

// outStatus logs the dispatcher counters.
func (d *Dispatcher) outStatus() {
	st := d.Stats()
	logs.Info("[%v] submitted = %v, completed = %v", d.name, st.Submitted, st.Completed)
	logs.Info("[%v] observer calls = %v, faults = %v, pending = %v", d.name, st.Calls, st.Faults, st.Pending)
}
