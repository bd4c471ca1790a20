package event

import (
	"sync"
	"testing"
)

func TestRegistry_AddRemove(t *testing.T) {
	r := NewRegistry()
	a, b := &FuncObserver{}, &FuncObserver{}

	if r.Add(nil) {
		t.Error("Add(nil) = true, want false")
	}
	if !r.Add(a) || !r.Add(b) {
		t.Fatal("Add() of new observers failed")
	}
	if r.Add(a) {
		t.Error("duplicate Add() = true, want false")
	}
	if got := r.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if !r.Contains(b) {
		t.Error("Contains(b) = false, want true")
	}

	if !r.Remove(a) {
		t.Error("Remove(a) = false, want true")
	}
	if r.Remove(a) {
		t.Error("second Remove(a) = true, want false")
	}
	if r.Contains(a) {
		t.Error("Contains(a) after Remove = true")
	}
	if got := r.Snapshot(); !sameObservers(got, []Observer{b}) {
		t.Errorf("Snapshot() = %v, want [b]", got)
	}
}

func TestRegistry_SnapshotIsIndependent(t *testing.T) {
	r := NewRegistry()
	a, b, c := &FuncObserver{}, &FuncObserver{}, &FuncObserver{}
	r.Add(a)
	r.Add(b)

	snap := r.Snapshot()
	r.Add(c)
	r.Remove(a)

	if !sameObservers(snap, []Observer{a, b}) {
		t.Errorf("snapshot changed after registry mutation: %v", snap)
	}

	snap[0] = c
	if got := r.Snapshot(); !sameObservers(got, []Observer{b, c}) {
		t.Errorf("registry changed after snapshot mutation: %v", got)
	}
}

func TestRegistry_EmptySnapshot(t *testing.T) {
	r := NewRegistry()
	if got := r.Snapshot(); len(got) != 0 {
		t.Errorf("Snapshot() = %v, want empty", got)
	}
	if r.Remove(&FuncObserver{}) {
		t.Error("Remove() on empty registry = true")
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				o := &FuncObserver{}
				r.Add(o)
				_ = r.Snapshot()
				r.Remove(o)
			}
		}()
	}
	wg.Wait()

	if got := r.Len(); got != 0 {
		t.Errorf("Len() = %d after balanced add/remove, want 0", got)
	}
}

// sameObservers compares by identity, in order.
func sameObservers(got, want []Observer) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// sliceObserver has an uncomparable dynamic type.
type sliceObserver []string

func (sliceObserver) OnEvent(s Session, e Event)   {}
func (sliceObserver) OnPacket(s Session, p Packet) {}

func TestRegistry_RejectsUncomparable(t *testing.T) {
	r := NewRegistry()
	a := &FuncObserver{}
	r.Add(a)

	if r.Add(sliceObserver{"x"}) || r.Add(sliceObserver{"y"}) {
		t.Error("Add() of an uncomparable observer = true, want false")
	}
	if r.Contains(sliceObserver{"x"}) || r.Remove(sliceObserver{"x"}) {
		t.Error("uncomparable observer found in registry")
	}
	if got := r.Snapshot(); !sameObservers(got, []Observer{a}) {
		t.Errorf("Snapshot() = %v, want [a]", got)
	}
}
