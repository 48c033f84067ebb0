package jnode

import (
	"context"
	"testing"

	"github.com/gilchrisn/jtree-partition/pkg/merge"
	"github.com/gilchrisn/jtree-partition/pkg/types"
)

func buildSimpleChain(t *testing.T) *Table {
	t.Helper()
	tab := NewAllocated(4, Options{MakeKids: true, MakePst: true, MakePre: true})
	var ids []types.Jnid
	for i := 0; i < 4; i++ {
		id, err := tab.NewNode()
		if err != nil {
			t.Fatalf("NewNode: %v", err)
		}
		ids = append(ids, id)
	}
	// Chain: 0 -> 1 -> 2 -> 3 (each adopted by the next).
	for i := 0; i < 3; i++ {
		if err := tab.Adopt(ids[i+1], ids[i]); err != nil {
			t.Fatalf("Adopt: %v", err)
		}
	}
	if err := tab.MakeKids(); err != nil {
		t.Fatalf("MakeKids: %v", err)
	}
	return tab
}

func TestAdoptAndMakeKids(t *testing.T) {
	tab := buildSimpleChain(t)
	for i := 0; i < 3; i++ {
		kids := tab.Kids(types.Jnid(i + 1))
		if len(kids) != 1 || kids[0] != types.Jnid(i) {
			t.Fatalf("Kids(%d) = %v, want [%d]", i+1, kids, i)
		}
	}
	if kids := tab.Kids(0); len(kids) != 0 {
		t.Fatalf("Kids(0) = %v, want none", kids)
	}
}

func TestDeleteLastBlockedOnceAdopted(t *testing.T) {
	tab := NewAllocated(2, Options{})
	a, _ := tab.NewNode()
	_, _ = tab.NewNode()
	if err := tab.Adopt(types.Jnid(1), a); err != nil {
		t.Fatalf("Adopt: %v", err)
	}
	if err := tab.DeleteLast(); err == nil {
		t.Fatalf("expected DeleteLast to refuse once a child has been adopted")
	}
}

func TestDeleteLastAllowedWhenChildless(t *testing.T) {
	tab := NewAllocated(2, Options{})
	tab.NewNode()
	tab.NewNode()
	if err := tab.DeleteLast(); err != nil {
		t.Fatalf("DeleteLast: %v", err)
	}
	if tab.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tab.Len())
	}
}

func TestNewUnionAndCleanPst(t *testing.T) {
	tab := NewAllocated(1, Options{MakePst: true})
	id, _ := tab.NewNode()
	ranges := []merge.Range{{1, 2, 4}, {2, 3}}
	if err := tab.NewUnion(id, ranges, 2, 100); err != nil {
		t.Fatalf("NewUnion: %v", err)
	}
	got := tab.Pst(id)
	want := []types.Vid{1, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("Pst = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Pst = %v, want %v", got, want)
		}
	}
}

func TestFactsOnChain(t *testing.T) {
	tab := buildSimpleChain(t)
	tab.AddPostWeight(types.Jnid(1), 2)
	tab.AddPostWeight(types.Jnid(2), 1)
	f := tab.Facts()
	if f.NumVertices != 4 {
		t.Fatalf("NumVertices = %d, want 4", f.NumVertices)
	}
	if f.RootCount != 1 {
		t.Fatalf("RootCount = %d, want 1", f.RootCount)
	}
	if f.VertexTreeHeight != 4 {
		t.Fatalf("VertexTreeHeight = %d, want 4", f.VertexTreeHeight)
	}
	// width(id) = 1 + postWeight(id) here since this table never built a
	// jxn companion table: node 1 has postWeight 2, so width 3.
	if f.MaxWidth != 3 {
		t.Fatalf("MaxWidth = %d, want 3", f.MaxWidth)
	}
	if f.FillEdges != 0 {
		t.Fatalf("FillEdges = %d, want 0 (width always equals 1+postWeight here)", f.FillEdges)
	}
}

func TestFactsWidthUsesJxnWhenPresent(t *testing.T) {
	tab := NewAllocated(1, Options{MakeJxn: true})
	id, _ := tab.NewNode()
	if err := tab.SetJxn(id, []types.Vid{5, 6, 7}); err != nil {
		t.Fatalf("SetJxn: %v", err)
	}
	tab.AddPostWeight(id, 1) // deliberately smaller than len(jxn), to prove jxn wins
	f := tab.Facts()
	if f.MaxWidth != 4 {
		t.Fatalf("MaxWidth = %d, want 4 (1 + len(jxn), not 1 + postWeight)", f.MaxWidth)
	}
	if f.FillEdges != 2 {
		t.Fatalf("FillEdges = %d, want 2 (width 4 - postWeight 1 - 1)", f.FillEdges)
	}
}

func TestMergeSumsWeightsAndReconcilesParents(t *testing.T) {
	lhs := NewAllocated(3, Options{})
	for i := 0; i < 3; i++ {
		lhs.NewNode()
	}
	lhs.Adopt(2, 0)
	lhs.AddPostWeight(2, 3)

	rhs := NewAllocated(3, Options{})
	for i := 0; i < 3; i++ {
		rhs.NewNode()
	}
	rhs.Adopt(1, 0)
	rhs.AddPostWeight(1, 4)

	merged, err := Merge(lhs, rhs)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged.PostWeight(1) != 4 || merged.PostWeight(2) != 3 {
		t.Fatalf("weights not summed correctly: pw(1)=%d pw(2)=%d", merged.PostWeight(1), merged.PostWeight(2))
	}
	// Node 0 was claimed by both 1 and 2 as a child: union-find should
	// reconcile that to a single representative, the larger id.
	if merged.Parent(0) != 2 {
		t.Fatalf("Parent(0) = %d, want 2 (the larger claimed parent)", merged.Parent(0))
	}
}

func TestReduceAllMatchesPairwiseMerge(t *testing.T) {
	mk := func(parent types.Jnid, weight uint32) *Table {
		tab := NewAllocated(2, Options{})
		tab.NewNode()
		tab.NewNode()
		if parent != types.NoJnid {
			tab.Adopt(parent, 0)
			tab.AddPostWeight(parent, weight)
		}
		return tab
	}
	tables := []*Table{mk(1, 1), mk(1, 2), mk(1, 3), mk(1, 4)}
	result, err := ReduceAll(context.Background(), tables, true)
	if err != nil {
		t.Fatalf("ReduceAll: %v", err)
	}
	if result.PostWeight(1) != 10 {
		t.Fatalf("PostWeight(1) = %d, want 10", result.PostWeight(1))
	}
	if kids := result.Kids(1); len(kids) != 1 || kids[0] != 0 {
		t.Fatalf("Kids(1) = %v, want [0]", kids)
	}
}
