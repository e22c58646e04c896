package z80dismblr

import "testing"

func TestAddressQueueFIFO(t *testing.T) {
	q := NewAddressQueue()
	if !q.Empty() {
		t.Fatal("new queue should be empty")
	}

	q.Push(0x1000)
	q.Push(0x2000)
	q.Push(0x1000) // no dedup, matches doc comment

	want := []uint16{0x1000, 0x2000, 0x1000}
	for _, w := range want {
		got, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop() returned !ok, expected %#x", w)
		}
		if got != w {
			t.Errorf("Pop() = %#x, want %#x", got, w)
		}
	}

	if !q.Empty() {
		t.Error("queue should be empty after draining")
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop() on empty queue should return ok=false")
	}
}
