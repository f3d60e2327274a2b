package markup

import "testing"

func TestQueue(t *testing.T) {
	t.Parallel()

	q := NewQueue([]string{"a", "b"})
	if q.Len() != 2 || q.Empty() {
		t.Fatalf("NewQueue: Len() = %d, Empty() = %v", q.Len(), q.Empty())
	}

	if got, ok := q.Front(); !ok || got != "a" {
		t.Errorf("Front() = %q, %v, want %q, true", got, ok, "a")
	}
	if q.Len() != 2 {
		t.Errorf("Front() consumed a line: Len() = %d", q.Len())
	}

	q.PushBack("c")
	var got []string
	for !q.Empty() {
		line, _ := q.PopFront()
		got = append(got, line)
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("popped %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pop %d = %q, want %q", i, got[i], want[i])
		}
	}

	if _, ok := q.PopFront(); ok {
		t.Error("PopFront() on empty queue returned ok")
	}
	if _, ok := q.Front(); ok {
		t.Error("Front() on empty queue returned ok")
	}
}

func TestQueue_PushWhileConsuming(t *testing.T) {
	t.Parallel()

	q := NewQueue([]string{"x"})
	seen := 0
	for !q.Empty() {
		line, _ := q.PopFront()
		seen++
		if line == "x" {
			q.PushBack("y")
		}
	}
	if seen != 2 {
		t.Errorf("visited %d lines, want 2", seen)
	}
}
