package event

import (
	"fmt"
	"runtime"

	"sessevent/conf"
)

// Fault describes an observer call that panicked.
type Fault struct {
	Observer Observer
	Session  Session
	Payload  any    // the Event or Packet being delivered
	Value    any    // value passed to panic
	Stack    []byte // stack of the faulting goroutine
}

// Error implements error.
func (f *Fault) Error() string {
	return fmt.Sprintf("observer %v threw: %v", f.Observer, f.Value)
}

// Unwrap returns the panic value when it is an error.
func (f *Fault) Unwrap() error {
	if err, ok := f.Value.(error); ok {
		return err
	}
	return nil
}

// FaultHandler is called for every observer fault after it has been logged.
type FaultHandler func(f *Fault)

// stack captures the current goroutine's stack, bounded by conf.LenStackBuf.
func stack() []byte {
	if conf.LenStackBuf <= 0 {
		return nil
	}
	buf := make([]byte, conf.LenStackBuf)
	l := runtime.Stack(buf, false)
	return buf[:l]
}
