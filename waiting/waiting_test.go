package waiting

import "testing"

// drain pops every element in order.
func drain(t *testing.T, w Waiting[int]) []int {
	t.Helper()
	var out []int
	for !w.Empty() {
		n, ok := w.First()
		if !ok {
			t.Fatalf("First reported not ok on a non-empty list")
		}
		w.RemoveFirst()
		out = append(out, n)
	}
	if _, ok := w.First(); ok {
		t.Fatalf("First should report not ok on an empty list")
	}
	return out
}

func eq(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFIFOOrder(t *testing.T) {
	w := NewFIFO[int]()
	for _, n := range []int{1, 2, 3, 4} {
		w.Insert(n)
	}
	if got := drain(t, w); !eq(got, []int{1, 2, 3, 4}) {
		t.Errorf("FIFO order = %v, want insertion order", got)
	}
}

func TestFIFOInterleaved(t *testing.T) {
	w := NewFIFO[int]()
	w.Insert(1)
	w.Insert(2)
	w.RemoveFirst()
	w.Insert(3)
	if got := drain(t, w); !eq(got, []int{2, 3}) {
		t.Errorf("FIFO after interleaved ops = %v, want [2 3]", got)
	}
}

func TestLIFOOrder(t *testing.T) {
	w := NewLIFO[int]()
	for _, n := range []int{1, 2, 3, 4} {
		w.Insert(n)
	}
	if got := drain(t, w); !eq(got, []int{4, 3, 2, 1}) {
		t.Errorf("LIFO order = %v, want reverse insertion order", got)
	}
}

func TestPriorityOrder(t *testing.T) {
	w := NewPriority(func(a, b int) bool { return a < b })
	for _, n := range []int{5, 1, 4, 2, 3} {
		w.Insert(n)
	}
	if got := drain(t, w); !eq(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("priority order = %v, want sorted order", got)
	}
}

func TestClear(t *testing.T) {
	for _, w := range []Waiting[int]{NewFIFO[int](), NewLIFO[int](), NewPriority(func(a, b int) bool { return a < b })} {
		w.Insert(1)
		w.Insert(2)
		w.Clear()
		if !w.Empty() {
			t.Errorf("%T should be empty after Clear", w)
		}
	}
}

func TestFactory(t *testing.T) {
	if w, err := New[int](BFS, nil); err != nil {
		t.Errorf("BFS factory failed: %v", err)
	} else if _, ok := w.(*FIFO[int]); !ok {
		t.Errorf("BFS should be a FIFO, got %T", w)
	}
	if w, err := New[int](DFS, nil); err != nil {
		t.Errorf("DFS factory failed: %v", err)
	} else if _, ok := w.(*LIFO[int]); !ok {
		t.Errorf("DFS should be a LIFO, got %T", w)
	}
	if _, err := New[int](Priority, nil); err == nil {
		t.Errorf("priority without an ordering should fail")
	}
	if _, err := New(Priority, func(a, b int) bool { return a < b }); err != nil {
		t.Errorf("priority with an ordering should succeed: %v", err)
	}
}
