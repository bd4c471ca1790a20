package router

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"

	"github.com/yinyihanbing/gutils/logs"
	"google.golang.org/protobuf/proto"

	"sessevent/event"
)

// Router is an event.Observer that routes received protobuf packets to a
// handler registered for the packet's message type. Events are routed the
// same way by their Go type.
type Router struct {
	mu            sync.RWMutex
	msgInfo       []*MsgInfo
	msgID         map[reflect.Type]uint16
	eventHandlers map[reflect.Type]EventHandler
}

// MsgInfo holds what is registered for one message type.
type MsgInfo struct {
	msgType    reflect.Type
	msgName    string
	msgHandler MsgHandler
}

// MsgHandler handles a packet received on a session.
type MsgHandler func(s event.Session, msg proto.Message)

// EventHandler handles a session event.
type EventHandler func(s event.Session, e event.Event)

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{
		msgID:         make(map[reflect.Type]uint16),
		eventHandlers: make(map[reflect.Type]EventHandler),
	}
}

// Register registers a message type and returns its id.
// Parameters: msg - a pointer to a protobuf message of the type to register
// Returns an error if msg is nil, already registered or the id space is exhausted.
func (r *Router) Register(msg proto.Message) (uint16, error) {
	msgType := reflect.TypeOf(msg)
	if msgType == nil || msgType.Kind() != reflect.Ptr {
		return 0, errors.New("protobuf message pointer required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.msgID[msgType]; ok {
		return 0, fmt.Errorf("message type %s is already registered", msgType)
	}
	if len(r.msgInfo) >= math.MaxUint16 {
		return 0, fmt.Errorf("too many protobuf messages (max = %v)", math.MaxUint16)
	}

	i := &MsgInfo{
		msgType: msgType,
		msgName: string(msg.ProtoReflect().Descriptor().FullName()),
	}
	r.msgInfo = append(r.msgInfo, i)
	id := uint16(len(r.msgInfo) - 1)
	r.msgID[msgType] = id
	return id, nil
}

// SetHandler sets the handler for a registered message type.
// Returns an error if the type is not registered.
func (r *Router) SetHandler(msg proto.Message, h MsgHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgType := reflect.TypeOf(msg)
	id, ok := r.msgID[msgType]
	if !ok {
		return fmt.Errorf("message type %v is not registered", msgType)
	}
	r.msgInfo[id].msgHandler = h
	return nil
}

// SetEventHandler routes events of the same Go type as e to h.
func (r *Router) SetEventHandler(e event.Event, h EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eventHandlers[reflect.TypeOf(e)] = h
}

// ID returns the id of a registered message type.
func (r *Router) ID(msg proto.Message) (uint16, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.msgID[reflect.TypeOf(msg)]
	return id, ok
}

// Range calls f for every registered message type in id order.
func (r *Router) Range(f func(id uint16, name string, t reflect.Type)) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, i := range r.msgInfo {
		f(uint16(id), i.msgName, i.msgType)
	}
}

// OnPacket routes p to its message handler. Packets that are not protobuf
// messages or have no handler are dropped.
func (r *Router) OnPacket(s event.Session, p event.Packet) {
	msg, ok := p.(proto.Message)
	if !ok {
		logs.Debug("router: packet %T is not a protobuf message", p)
		return
	}

	r.mu.RLock()
	var h MsgHandler
	if id, ok := r.msgID[reflect.TypeOf(msg)]; ok {
		h = r.msgInfo[id].msgHandler
	}
	r.mu.RUnlock()

	if h == nil {
		logs.Debug("router: no handler for %v", msg.ProtoReflect().Descriptor().FullName())
		return
	}
	h(s, msg)
}

// OnEvent routes e to the handler registered for its type.
func (r *Router) OnEvent(s event.Session, e event.Event) {
	r.mu.RLock()
	h := r.eventHandlers[reflect.TypeOf(e)]
	r.mu.RUnlock()

	if h != nil {
		h(s, e)
	}
}
