package packed

import "testing"

func TestZeroLengthRowsAreEmpty(t *testing.T) {
	tab := New[int32]()
	a, err := tab.Append(0, false)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	b, err := tab.Append(0, false)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if tab.Len(a) != 0 || tab.Len(b) != 0 {
		t.Fatalf("zero-length rows should have length 0, got %d %d", tab.Len(a), tab.Len(b))
	}
	if len(tab.Get(a)) != 0 || len(tab.Get(b)) != 0 {
		t.Fatalf("zero-length rows should return empty slices")
	}
}

func TestAppendPushBackGet(t *testing.T) {
	tab := New[int32]()
	id, err := tab.Append(3, true)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	for _, v := range []int32{10, 20, 30} {
		if err := tab.PushBack(id, v); err != nil {
			t.Fatalf("PushBack(%d): %v", v, err)
		}
	}
	got := tab.Get(id)
	want := []int32{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestPushBackPastCapacityFails(t *testing.T) {
	tab := New[int32]()
	id, _ := tab.Append(1, true)
	if err := tab.PushBack(id, 1); err != nil {
		t.Fatalf("first PushBack: %v", err)
	}
	if err := tab.PushBack(id, 2); err == nil {
		t.Fatalf("expected capacity error on overflow push")
	}
}

func TestPushBackToNonLastRowFails(t *testing.T) {
	tab := New[int32]()
	first, _ := tab.Append(2, true)
	tab.Append(2, true)
	if err := tab.PushBack(first, 1); err == nil {
		t.Fatalf("expected error pushing to a non-last row")
	}
}

func TestShrinkLast(t *testing.T) {
	tab := New[int32]()
	id, _ := tab.Append(5, false)
	tab.PushBack(id, 1)
	tab.PushBack(id, 2)
	tab.ShrinkLast()
	if tab.Cap(id) != 2 {
		t.Fatalf("Cap after shrink = %d, want 2", tab.Cap(id))
	}
	if err := tab.PushBack(id, 3); err == nil {
		t.Fatalf("expected capacity error after shrink")
	}
}

func TestDeleteLast(t *testing.T) {
	tab := New[int32]()
	first, _ := tab.Append(2, true)
	tab.PushBack(first, 7)
	second, _ := tab.Append(3, true)
	tab.PushBack(second, 9)

	if err := tab.DeleteLast(); err != nil {
		t.Fatalf("DeleteLast: %v", err)
	}
	if tab.LastRow() != first {
		t.Fatalf("LastRow after delete = %d, want %d", tab.LastRow(), first)
	}
	if got := tab.Get(first); len(got) != 1 || got[0] != 7 {
		t.Fatalf("surviving row corrupted: %v", got)
	}

	// Re-appending after a delete must work: the arena top must have been
	// rewound, not just the row index.
	third, err := tab.Append(1, true)
	if err != nil {
		t.Fatalf("Append after delete: %v", err)
	}
	if err := tab.PushBack(third, 42); err != nil {
		t.Fatalf("PushBack after re-append: %v", err)
	}
}

func TestDeleteLastRefusesSentinel(t *testing.T) {
	tab := New[int32]()
	if err := tab.DeleteLast(); err == nil {
		t.Fatalf("expected error deleting the row-0 sentinel")
	}
}
