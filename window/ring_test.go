package window

import "testing"

func TestRingPushWithinCapacity(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 3; i++ {
		if _, had := r.Push(i); had {
			t.Fatalf("unexpected eviction at push %d", i)
		}
	}
	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
}

func TestRingEvictsOldest(t *testing.T) {
	r := NewRing[int](3)
	r.Push(1)
	r.Push(2)
	r.Push(3)
	evicted, had := r.Push(4)
	if !had || evicted != 1 {
		t.Fatalf("Push(4) evicted=%v had=%v, want 1,true", evicted, had)
	}
	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
}

func TestCountWindowRunningSum(t *testing.T) {
	w := NewCountWindow(3)
	w.Push(10, 0)
	w.Push(20, 1)
	w.Push(30, 2)
	if w.Sum() != 60 {
		t.Fatalf("Sum() = %d, want 60", w.Sum())
	}
	w.Push(5, 3) // evicts cost=10
	if w.Sum() != 55 {
		t.Fatalf("Sum() after eviction = %d, want 55", w.Sum())
	}
	if w.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", w.Len())
	}
}

func TestTimeWindowEviction(t *testing.T) {
	w := NewTimeWindow()
	w.Push(1, 100)
	w.Push(2, 105)
	w.Push(3, 110)
	w.EvictOlderThan(105) // drops ts=100
	if w.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", w.Len())
	}
	if w.Sum() != 5 {
		t.Fatalf("Sum() = %d, want 5", w.Sum())
	}
}
