package merge

import (
	"reflect"
	"testing"

	"github.com/gilchrisn/jtree-partition/pkg/jerr"
	"github.com/gilchrisn/jtree-partition/pkg/types"
)

func TestStrategiesAgree(t *testing.T) {
	cases := []struct {
		name    string
		ranges  []Range
		exclude types.Vid
	}{
		{"empty", nil, 0},
		{"single", []Range{{1, 2, 3}}, 99},
		{"two balanced", []Range{{1, 3, 5}, {2, 4, 6}}, 99},
		{"two unbalanced", []Range{{5}, {1, 2, 3, 4, 6, 7, 8, 9, 10, 11, 12}}, 99},
		{"overlap across ranges", []Range{{1, 2, 3}, {2, 3, 4}, {3, 4, 5}}, 99},
		{"exclude present", []Range{{1, 2, 3}, {2, 3, 4}}, 3},
		{"many small ranges", func() []Range {
			var rs []Range
			for i := 0; i < 40; i++ {
				rs = append(rs, Range{types.Vid(i), types.Vid(i + 100)})
			}
			return rs
		}(), 999},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bl, err := BalanceLine(cloneRanges(tc.ranges), tc.exclude, 1<<20)
			if err != nil {
				t.Fatalf("BalanceLine: %v", err)
			}
			hp, err := Heap(cloneRanges(tc.ranges), tc.exclude, 1<<20)
			if err != nil {
				t.Fatalf("Heap: %v", err)
			}
			if !reflect.DeepEqual(bl, hp) {
				t.Fatalf("Heap disagrees with BalanceLine:\n  balance=%v\n  heap=%v", bl, hp)
			}
			dispatched, err := Merge(cloneRanges(tc.ranges), tc.exclude, 1<<20)
			if err != nil {
				t.Fatalf("Merge: %v", err)
			}
			if !reflect.DeepEqual(bl, dispatched) {
				t.Fatalf("Merge disagrees with BalanceLine:\n  balance=%v\n  merge=%v", bl, dispatched)
			}
			if len(tc.ranges) == 2 {
				asym, err := Asymmetric(tc.ranges[0], tc.ranges[1], tc.exclude, 1<<20)
				if err != nil {
					t.Fatalf("Asymmetric: %v", err)
				}
				if !reflect.DeepEqual(bl, asym) {
					t.Fatalf("Asymmetric disagrees with BalanceLine:\n  balance=%v\n  asym=%v", bl, asym)
				}
			}
		})
	}
}

func TestBudgetExceeded(t *testing.T) {
	ranges := []Range{{1, 2, 3, 4, 5}}
	if _, err := BalanceLine(ranges, 99, 2); err != jerr.BudgetExceeded {
		t.Fatalf("BalanceLine budget error = %v, want BudgetExceeded", err)
	}
	if _, err := Heap(ranges, 99, 2); err != jerr.BudgetExceeded {
		t.Fatalf("Heap budget error = %v, want BudgetExceeded", err)
	}
}

func TestAsymmetricDispatchThreshold(t *testing.T) {
	small := Range{5}
	large := make(Range, 0, 40)
	for i := 0; i < 40; i++ {
		if types.Vid(i) == 5 {
			continue
		}
		large = append(large, types.Vid(i))
	}
	out, err := Merge([]Range{small, large}, 999, 1<<20)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(out) != 40 {
		t.Fatalf("len(out) = %d, want 40", len(out))
	}
}

func cloneRanges(ranges []Range) []Range {
	out := make([]Range, len(ranges))
	for i, r := range ranges {
		c := make(Range, len(r))
		copy(c, r)
		out[i] = c
	}
	return out
}
