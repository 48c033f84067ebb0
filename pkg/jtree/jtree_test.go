package jtree

import (
	"testing"

	"github.com/gilchrisn/jtree-partition/pkg/graph"
	"github.com/gilchrisn/jtree-partition/pkg/jerr"
	"github.com/gilchrisn/jtree-partition/pkg/types"
)

func fullOptions() Options {
	o := DefaultOptions()
	o.MakeKids = true
	o.MakePst = true
	o.MakeJxn = true
	o.MakePre = true
	return o
}

func TestTriangleProducesOneRootOfWidthThree(t *testing.T) {
	g := graph.NewUndirectedGraph()
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(0, 2)

	tr, err := New(3, fullOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tr.InsertSequence(g, []types.Vid{0, 1, 2}); err != nil {
		t.Fatalf("InsertSequence: %v", err)
	}
	if err := tr.IsValid(); err != nil {
		t.Fatalf("IsValid: %v", err)
	}
	f := tr.Nodes().Facts()
	if f.RootCount != 1 {
		t.Fatalf("RootCount = %d, want 1", f.RootCount)
	}
	// Eliminating 0, then 1, then 2 in a triangle: node 0's separator is
	// {1,2} (width 3), node 1's separator (after folding in node 0's
	// leftover neighbor 2) is {2} (width 2), node 2 is the root with an
	// empty separator (width 1). Widths [3,2,1] match the documented
	// triangle scenario.
	if f.MaxWidth != 3 {
		t.Fatalf("MaxWidth = %d, want 3", f.MaxWidth)
	}
}

func TestPathOfFourIsAChain(t *testing.T) {
	g := graph.NewUndirectedGraph()
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)

	tr, err := New(4, fullOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tr.InsertSequence(g, []types.Vid{0, 1, 2, 3}); err != nil {
		t.Fatalf("InsertSequence: %v", err)
	}
	if err := tr.IsValid(); err != nil {
		t.Fatalf("IsValid: %v", err)
	}
	f := tr.Nodes().Facts()
	if f.RootCount != 1 {
		t.Fatalf("RootCount = %d, want 1", f.RootCount)
	}
	// A path has treewidth 1, i.e. a maximum clique (separator plus the
	// eliminated vertex) size of 2.
	if f.MaxWidth != 2 {
		t.Fatalf("MaxWidth = %d, want 2", f.MaxWidth)
	}
}

func TestDisconnectedPairNeedsRooting(t *testing.T) {
	g := graph.NewUndirectedGraph()
	g.AddEdge(0, 1)
	g.AddEdge(2, 3)

	tr, err := New(4, fullOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tr.InsertSequence(g, []types.Vid{0, 1, 2, 3}); err != nil {
		t.Fatalf("InsertSequence: %v", err)
	}
	f := tr.Nodes().Facts()
	if f.RootCount != 2 {
		t.Fatalf("RootCount before rooting = %d, want 2", f.RootCount)
	}
	if err := tr.DoRooting(); err != nil {
		t.Fatalf("DoRooting: %v", err)
	}
	if err := tr.IsValid(); err != nil {
		t.Fatalf("IsValid after rooting: %v", err)
	}
	f = tr.Nodes().Facts()
	if f.RootCount != 1 {
		t.Fatalf("RootCount after rooting = %d, want 1", f.RootCount)
	}
}

func TestWidthLimitDefersVertex(t *testing.T) {
	// A star: eliminating the hub first gives it a separator of all five
	// leaves, well over a width limit of 2, so the hub is deferred.
	g := graph.NewUndirectedGraph()
	for i := types.Vid(1); i <= 5; i++ {
		g.AddEdge(0, i)
	}
	opts := fullOptions()
	opts.WidthLimit = 2

	tr, err := New(6, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	seq := []types.Vid{0, 1, 2, 3, 4, 5}
	if err := tr.InsertSequence(g, seq); err != nil {
		t.Fatalf("InsertSequence: %v", err)
	}
	if len(tr.DeferredVertices()) == 0 {
		t.Fatalf("expected at least one deferred vertex under a tight width limit")
	}
}

func TestZeroDegreeVertexSkippedWithoutPad(t *testing.T) {
	g := graph.NewUndirectedGraph()
	g.AddEdge(0, 1) // vertex 2 is never mentioned, so it has zero degree

	opts := fullOptions()
	opts.MakePad = false
	tr, err := New(3, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tr.InsertSequence(g, []types.Vid{0, 1, 2}); err != nil {
		t.Fatalf("InsertSequence: %v", err)
	}
	if err := tr.IsValid(); err != nil {
		t.Fatalf("IsValid: %v", err)
	}
	if tr.VidToJnid(2) != types.NoJnid {
		t.Fatalf("expected vertex 2 to be skipped (no jnid assigned), got %d", tr.VidToJnid(2))
	}
	if tr.Nodes().Len() != 2 {
		t.Fatalf("Nodes().Len() = %d, want 2 (no node emitted for the zero-degree vertex)", tr.Nodes().Len())
	}
}

func TestZeroDegreeVertexKeptWithPad(t *testing.T) {
	g := graph.NewUndirectedGraph()
	g.AddEdge(0, 1)

	opts := fullOptions()
	opts.MakePad = true
	tr, err := New(3, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tr.InsertSequence(g, []types.Vid{0, 1, 2}); err != nil {
		t.Fatalf("InsertSequence: %v", err)
	}
	if err := tr.IsValid(); err != nil {
		t.Fatalf("IsValid: %v", err)
	}
	if tr.VidToJnid(2) == types.NoJnid {
		t.Fatalf("expected vertex 2 to receive a trivial node when MakePad is set")
	}
	if tr.Nodes().Len() != 3 {
		t.Fatalf("Nodes().Len() = %d, want 3 (tree stays 1-to-1 with the sequence)", tr.Nodes().Len())
	}
}

func TestJxnNeverContainsOwnVid(t *testing.T) {
	g := graph.NewUndirectedGraph()
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(0, 2)

	tr, err := New(3, fullOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tr.InsertSequence(g, []types.Vid{0, 1, 2}); err != nil {
		t.Fatalf("InsertSequence: %v", err)
	}
	for v := types.Vid(0); v < 3; v++ {
		id := tr.VidToJnid(v)
		for _, u := range tr.Nodes().Jxn(id) {
			if u == v {
				t.Fatalf("jxn(%d) contains its own vid %d", id, v)
			}
		}
	}
}

func TestMemoryLimitFailsInsertWithOutOfMemory(t *testing.T) {
	g := graph.NewUndirectedGraph()
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(0, 2)

	opts := fullOptions()
	opts.MemoryLimit = 4 // one element's worth: node 0's 2-vid separator can't fit

	tr, err := New(3, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = tr.InsertSequence(g, []types.Vid{0, 1, 2})
	if err != jerr.OutOfMemory {
		t.Fatalf("InsertSequence error = %v, want jerr.OutOfMemory", err)
	}
}

func TestFindMaxWidthEarlyTermination(t *testing.T) {
	g := graph.NewUndirectedGraph()
	for i := types.Vid(1); i <= 5; i++ {
		g.AddEdge(0, i)
	}
	tr, err := New(6, DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	seq := []types.Vid{1, 2, 3, 4, 5, 0}
	width, exceeded, err := tr.FindMaxWidth(g, seq, 1)
	if err != nil {
		t.Fatalf("FindMaxWidth: %v", err)
	}
	if !exceeded {
		t.Fatalf("expected the bound of 1 to be exceeded by a star elimination")
	}
	if width <= 1 {
		t.Fatalf("width = %d, want > 1", width)
	}
}
