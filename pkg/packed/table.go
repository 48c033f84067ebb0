// Package packed implements a packed variable-length row table: every row
// lives at a known offset inside one growing arena, rows are append-only
// except the most recently appended one, and a zero-length row carries no
// arena storage of its own. Row 0 is a permanent empty sentinel; each
// zero-length row still gets its own row id and offset/length entries
// rather than sharing row 0's.
//
// This is a direct, generic port of the original library's JData /
// JDataTable arena (original_source/lib/jdata.h). C++ expressed a row as a
// flexible-array-member struct; Go has no such construct, so each row's
// payload is instead a contiguous run inside one []T slice, addressed by
// offset and length, which gives the same "one arena, no per-row
// allocation" property without unsafe pointer arithmetic.
package packed

import "github.com/gilchrisn/jtree-partition/pkg/jerr"

// RowID addresses a row within a Table. Row 0 always exists and is an
// empty sentinel; Append never returns it.
type RowID int32

// Table is a packed arena of variable-length rows of T. Only the last
// appended row may still be mutated (via PushBack / ShrinkLast); every
// earlier row is frozen the moment a later row is appended, matching the
// original's invariant that only the tail of the arena is ever live.
type Table[T any] struct {
	data    []T
	offsets []int32
	lengths []int32
	caps    []int32
}

// New returns a table pre-seeded with row 0, the permanent empty sentinel.
func New[T any]() *Table[T] {
	return &Table[T]{
		offsets: []int32{0},
		lengths: []int32{0},
		caps:    []int32{0},
	}
}

// NumRows reports how many rows exist, including the row-0 sentinel.
func (t *Table[T]) NumRows() int { return len(t.offsets) }

// LastRow returns the id of the most recently appended row.
func (t *Table[T]) LastRow() RowID { return RowID(len(t.offsets) - 1) }

// Append reserves a new row with capacity for up to maxLen elements and
// returns its id. If requireMax is true the row must eventually be filled
// to exactly maxLen via PushBack before another row is appended or the
// table is saved; this is advisory bookkeeping the caller enforces (the
// original used it to catch under-filled junction sets early via an
// assertion, not as a runtime-checked constraint here).
func (t *Table[T]) Append(maxLen int, requireMax bool) (RowID, error) {
	if maxLen < 0 {
		return 0, jerr.Usage
	}
	id := RowID(len(t.offsets))
	if maxLen == 0 {
		// Zero-length rows never grow the arena; each gets a new row id
		// whose offset is the current arena top, with zero reserved
		// capacity.
		t.offsets = append(t.offsets, int32(len(t.data)))
		t.lengths = append(t.lengths, 0)
		t.caps = append(t.caps, 0)
		return id, nil
	}
	offset := len(t.data)
	t.data = append(t.data, make([]T, maxLen)...)
	t.offsets = append(t.offsets, int32(offset))
	t.lengths = append(t.lengths, 0)
	t.caps = append(t.caps, int32(maxLen))
	_ = requireMax
	return id, nil
}

// PushBack appends v to the row most recently returned by Append. It is an
// error to push to any row other than the current last row, or to push
// past the row's reserved capacity.
func (t *Table[T]) PushBack(id RowID, v T) error {
	if id != t.LastRow() {
		return jerr.Invariant
	}
	i := int(id)
	if t.lengths[i] >= t.caps[i] {
		return jerr.Capacity
	}
	t.data[int(t.offsets[i])+int(t.lengths[i])] = v
	t.lengths[i]++
	return nil
}

// ShrinkLast truncates the last row's reserved capacity down to its
// current used length, reclaiming any over-reservation. It is a no-op on
// an already-exact row.
func (t *Table[T]) ShrinkLast() {
	i := len(t.offsets) - 1
	if i < 0 {
		return
	}
	unused := t.caps[i] - t.lengths[i]
	if unused <= 0 {
		return
	}
	t.data = t.data[:len(t.data)-int(unused)]
	t.caps[i] = t.lengths[i]
}

// TruncateLast sets the used length of the last row to newLen, which must
// not exceed its current length, then reclaims the freed capacity. Callers
// use this to dedupe-and-shrink a row in place (clean_pst in the original)
// without having to delete and rebuild it.
func (t *Table[T]) TruncateLast(newLen int) error {
	i := len(t.offsets) - 1
	if i < 0 {
		return jerr.Invariant
	}
	if newLen < 0 || int32(newLen) > t.lengths[i] {
		return jerr.Invariant
	}
	t.lengths[i] = int32(newLen)
	t.ShrinkLast()
	return nil
}

// DeleteLast removes the last row entirely. Row 0, the sentinel, cannot be
// deleted: when it is the only row left, DeleteLast returns jerr.Invariant.
func (t *Table[T]) DeleteLast() error {
	i := len(t.offsets) - 1
	if i <= 0 {
		return jerr.Invariant
	}
	t.data = t.data[:t.offsets[i]]
	t.offsets = t.offsets[:i]
	t.lengths = t.lengths[:i]
	t.caps = t.caps[:i]
	return nil
}

// Get returns the used elements of row id as a slice view into the arena.
// The slice must not be retained past the next mutating call on the table,
// since ShrinkLast/DeleteLast/Append can all move or resize the backing
// array.
func (t *Table[T]) Get(id RowID) []T {
	i := int(id)
	if i < 0 || i >= len(t.offsets) {
		return nil
	}
	start := t.offsets[i]
	return t.data[start : start+t.lengths[i]]
}

// Len reports the used length of row id.
func (t *Table[T]) Len(id RowID) int {
	i := int(id)
	if i < 0 || i >= len(t.lengths) {
		return 0
	}
	return int(t.lengths[i])
}

// Cap reports the reserved capacity of row id.
func (t *Table[T]) Cap(id RowID) int {
	i := int(id)
	if i < 0 || i >= len(t.caps) {
		return 0
	}
	return int(t.caps[i])
}
