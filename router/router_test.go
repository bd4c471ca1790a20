package router

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"sessevent/event"
)

type sessionClosed struct {
	reason string
}

func TestRouter_Register(t *testing.T) {
	r := NewRouter()

	id, err := r.Register(&wrapperspb.StringValue{})
	if err != nil || id != 0 {
		t.Fatalf("Register() = %d, %v; want 0, nil", id, err)
	}
	id, err = r.Register(&emptypb.Empty{})
	if err != nil || id != 1 {
		t.Fatalf("Register() = %d, %v; want 1, nil", id, err)
	}
	if _, err := r.Register(&wrapperspb.StringValue{}); err == nil {
		t.Error("duplicate Register() succeeded")
	}
	if _, err := r.Register(nil); err == nil {
		t.Error("Register(nil) succeeded")
	}

	if got, ok := r.ID(&emptypb.Empty{}); !ok || got != 1 {
		t.Errorf("ID() = %d, %v; want 1, true", got, ok)
	}

	var names []string
	r.Range(func(id uint16, name string, typ reflect.Type) {
		names = append(names, name)
	})
	want := []string{"google.protobuf.StringValue", "google.protobuf.Empty"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Range() mismatch (-want +got):\n%s", diff)
	}
}

func TestRouter_OnPacket(t *testing.T) {
	r := NewRouter()
	if err := r.SetHandler(&wrapperspb.StringValue{}, nil); err == nil {
		t.Error("SetHandler() on unregistered type succeeded")
	}

	r.Register(&wrapperspb.StringValue{})
	r.Register(&emptypb.Empty{})

	var got []string
	r.SetHandler(&wrapperspb.StringValue{}, func(s event.Session, msg proto.Message) {
		got = append(got, s.(string)+":"+msg.(*wrapperspb.StringValue).GetValue())
	})

	r.OnPacket("s1", wrapperspb.String("hello"))
	r.OnPacket("s1", &emptypb.Empty{})       // registered, no handler
	r.OnPacket("s1", wrapperspb.Int32(7))    // not registered
	r.OnPacket("s1", []byte("not protobuf")) // not a message

	if diff := cmp.Diff([]string{"s1:hello"}, got); diff != "" {
		t.Errorf("routed packets mismatch (-want +got):\n%s", diff)
	}
}

func TestRouter_OnEvent(t *testing.T) {
	r := NewRouter()

	var reasons []string
	r.SetEventHandler(sessionClosed{}, func(s event.Session, e event.Event) {
		reasons = append(reasons, e.(sessionClosed).reason)
	})

	r.OnEvent("s1", sessionClosed{reason: "unbind"})
	r.OnEvent("s1", "unrelated")

	if diff := cmp.Diff([]string{"unbind"}, reasons); diff != "" {
		t.Errorf("routed events mismatch (-want +got):\n%s", diff)
	}
}

func TestRouter_AsDispatcherObserver(t *testing.T) {
	r := NewRouter()
	r.Register(&wrapperspb.StringValue{})

	var got string
	r.SetHandler(&wrapperspb.StringValue{}, func(s event.Session, msg proto.Message) {
		got = msg.(*wrapperspb.StringValue).GetValue()
	})

	d := event.NewSimpleDispatcher()
	d.AddObserver(r)
	if err := d.NotifyPacket("s", wrapperspb.String("routed")); err != nil {
		t.Fatalf("NotifyPacket() error = %v", err)
	}
	if got != "routed" {
		t.Errorf("handler got %q, want %q", got, "routed")
	}
}
