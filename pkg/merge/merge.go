// Package merge implements the three k-way sorted-merge strategies the
// junction tree builder uses to fold a vertex's post-order neighbor sets
// together: a linear balance-line scan for few ranges, a container/heap
// priority-queue merge for many ranges, and a galloping binary-search
// splice for the two-range, wildly-unbalanced-size case. All three must
// agree byte-for-byte on their output for the same input, a property
// pkg/merge's tests check directly against each other rather than against
// a fixed expected value.
//
// Grounded on original_source/lib/merge.h (balance_line_merge, heap_merge,
// asymmetric_merge).
package merge

import (
	"container/heap"
	"sort"

	"github.com/gilchrisn/jtree-partition/pkg/jerr"
	"github.com/gilchrisn/jtree-partition/pkg/types"
)

// Range is one sorted, duplicate-free input sequence to merge.
type Range = []types.Vid

// asymmetricRatio is the size ratio original_source/lib/merge.h uses to
// decide the galloping splice is worthwhile over a plain linear merge: the
// larger range must be at least this many times the size of the smaller.
const asymmetricRatio = 8

// heapThreshold is the range count at or above which Merge switches from the
// linear balance-line scan to the container/heap priority-queue merge.
// Below this many ranges the O(k) per-step scan a balance-line does beats
// a heap's O(log k) overhead; original_source/lib/merge.h uses the same
// crossover point.
const heapThreshold = 32

// Merge folds ranges together into one sorted, duplicate-free sequence,
// omitting exclude wherever it appears, and fails with jerr.BudgetExceeded
// if the result would exceed budget elements. It picks whichever of the
// three underlying strategies fits the input shape; callers that need a
// specific strategy (e.g. to test they agree) should call BalanceLine,
// Heap, or Asymmetric directly.
func Merge(ranges []Range, exclude types.Vid, budget int) ([]types.Vid, error) {
	ranges = dropEmpty(ranges)
	if len(ranges) == 2 {
		a, b := ranges[0], ranges[1]
		if len(b) >= asymmetricRatio*len(a) || len(a) >= asymmetricRatio*len(b) {
			return Asymmetric(a, b, exclude, budget)
		}
	}
	if len(ranges) >= heapThreshold {
		return Heap(ranges, exclude, budget)
	}
	return BalanceLine(ranges, exclude, budget)
}

func dropEmpty(ranges []Range) []Range {
	out := ranges[:0:0]
	for _, r := range ranges {
		if len(r) > 0 {
			out = append(out, r)
		}
	}
	return out
}

// BalanceLine merges ranges with a linear per-step scan across one cursor
// per range: at each step it finds the smallest head among all cursors,
// emits it once (advancing every cursor currently pointing at it), and
// repeats. This is the right choice when the number of ranges is small,
// since the constant-factor cost of a heap isn't repaid.
func BalanceLine(ranges []Range, exclude types.Vid, budget int) ([]types.Vid, error) {
	ranges = dropEmpty(ranges)
	cursor := make([]int, len(ranges))
	var out []types.Vid
	for {
		min, found := types.Vid(0), false
		for i, r := range ranges {
			if cursor[i] >= len(r) {
				continue
			}
			if !found || r[cursor[i]] < min {
				min, found = r[cursor[i]], true
			}
		}
		if !found {
			return out, nil
		}
		for i, r := range ranges {
			if cursor[i] < len(r) && r[cursor[i]] == min {
				cursor[i]++
			}
		}
		if min == exclude {
			continue
		}
		out = append(out, min)
		if len(out) > budget {
			return nil, jerr.BudgetExceeded
		}
	}
}

// heapItem is one range's current head, tracked by a container/heap
// min-heap keyed on the head value with the range index as tiebreak so
// pop order is deterministic across runs with equal values.
type heapItem struct {
	value types.Vid
	rng   int
	idx   int
}

type mergeHeap []heapItem

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	if h[i].value != h[j].value {
		return h[i].value < h[j].value
	}
	return h[i].rng < h[j].rng
}
func (h mergeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x any)        { *h = append(*h, x.(heapItem)) }
func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Heap merges ranges with a container/heap priority queue, the standard
// idiom this codebase's retrieval pack uses for k-way merges (see
// other_examples/grafana-loki__pqueue.go). It is asymptotically better
// than BalanceLine once the range count is large enough for O(log k)
// per-step heap maintenance to beat O(k) linear scanning.
func Heap(ranges []Range, exclude types.Vid, budget int) ([]types.Vid, error) {
	ranges = dropEmpty(ranges)
	h := make(mergeHeap, 0, len(ranges))
	for i, r := range ranges {
		if len(r) > 0 {
			h = append(h, heapItem{value: r[0], rng: i, idx: 0})
		}
	}
	heap.Init(&h)

	var out []types.Vid
	for h.Len() > 0 {
		top := heap.Pop(&h).(heapItem)
		value := top.value
		for h.Len() > 0 && h[0].value == value {
			dup := heap.Pop(&h).(heapItem)
			advance(&h, ranges, dup)
		}
		advance(&h, ranges, top)
		if value == exclude {
			continue
		}
		out = append(out, value)
		if len(out) > budget {
			return nil, jerr.BudgetExceeded
		}
	}
	return out, nil
}

func advance(h *mergeHeap, ranges []Range, item heapItem) {
	next := item.idx + 1
	if next < len(ranges[item.rng]) {
		heap.Push(h, heapItem{value: ranges[item.rng][next], rng: item.rng, idx: next})
	}
}

// Asymmetric merges exactly two ranges where one is at least asymmetricRatio
// times the size of the other, by galloping through the smaller range and
// binary-searching each of its elements into the larger one, splicing in
// the intervening run of the larger range as a single copy. This avoids
// the O(n) per-step cost a linear merge would pay walking the large range
// one element at a time.
func Asymmetric(a, b Range, exclude types.Vid, budget int) ([]types.Vid, error) {
	small, large := a, b
	if len(a) > len(b) {
		small, large = b, a
	}
	var out []types.Vid
	li := 0
	emit := func(v types.Vid) error {
		if v == exclude {
			return nil
		}
		out = append(out, v)
		if len(out) > budget {
			return jerr.BudgetExceeded
		}
		return nil
	}
	for _, sv := range small {
		pos := li + sort.Search(len(large)-li, func(i int) bool { return large[li+i] >= sv })
		for ; li < pos; li++ {
			if err := emit(large[li]); err != nil {
				return nil, err
			}
		}
		if li < len(large) && large[li] == sv {
			li++
		}
		if err := emit(sv); err != nil {
			return nil, err
		}
	}
	for ; li < len(large); li++ {
		if err := emit(large[li]); err != nil {
			return nil, err
		}
	}
	return out, nil
}
