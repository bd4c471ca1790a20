// Package event dispatches session events and received packets to observers
// on worker goroutines, away from the goroutine driving the session's I/O.
package event

// Session identifies the protocol connection an event or packet belongs to.
// The dispatcher never inspects it.
type Session any

// Event is a session event such as a state change or a bind result.
type Event any

// Packet is a message received on a session.
type Packet any

// Observer reacts to session events and received packets.
// Both methods may panic; the dispatcher isolates each call.
type Observer interface {
	// OnEvent is called when a session event occurs.
	OnEvent(s Session, e Event)

	// OnPacket is called when a packet is received on a session.
	OnPacket(s Session, p Packet)
}

// FuncObserver adapts plain functions to an Observer. A nil field ignores
// the matching notification. Register it by pointer so it stays comparable.
type FuncObserver struct {
	Event  func(s Session, e Event)
	Packet func(s Session, p Packet)
}

// OnEvent calls o.Event if set.
func (o *FuncObserver) OnEvent(s Session, e Event) {
	if o.Event != nil {
		o.Event(s, e)
	}
}

// OnPacket calls o.Packet if set.
func (o *FuncObserver) OnPacket(s Session, p Packet) {
	if o.Packet != nil {
		o.Packet(s, p)
	}
}
