package graph

import (
	"strings"
	"testing"

	"github.com/gilchrisn/jtree-partition/pkg/graphio"
)

func triangle() *UndirectedGraph {
	g := NewUndirectedGraph()
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(0, 2)
	return g
}

func TestNeighborsSorted(t *testing.T) {
	g := triangle()
	nbrs := g.Neighbors(0)
	if len(nbrs) != 2 || nbrs[0] != 1 || nbrs[1] != 2 {
		t.Fatalf("Neighbors(0) = %v, want [1 2]", nbrs)
	}
}

func TestDegreeSequenceTiesByVid(t *testing.T) {
	g := triangle()
	seq := DegreeSequence(g)
	if len(seq) != 3 {
		t.Fatalf("len(seq) = %d, want 3", len(seq))
	}
	// All three vertices have degree 2 in a triangle, so the tie-break on
	// vid should leave them in ascending id order.
	for i := range seq {
		if int(seq[i]) != i {
			t.Fatalf("seq = %v, want [0 1 2]", seq)
		}
	}
}

func TestFileSequenceMatchesBuiltGraph(t *testing.T) {
	data := "0 1\n1 2\n2 3\n3 0\n0 2\n"
	edges, err := graphio.ReadTextEdges(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadTextEdges: %v", err)
	}
	g := BuildUndirected(edges)
	viaGraph := DegreeSequence(g)

	viaFile, err := FileSequence(strings.NewReader(data))
	if err != nil {
		t.Fatalf("FileSequence: %v", err)
	}
	if len(viaGraph) != len(viaFile) {
		t.Fatalf("len mismatch: graph=%v file=%v", viaGraph, viaFile)
	}
	for i := range viaGraph {
		if viaGraph[i] != viaFile[i] {
			t.Fatalf("sequence mismatch at %d: graph=%v file=%v", i, viaGraph, viaFile)
		}
	}
}
