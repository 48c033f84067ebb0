package graph

import (
	"io"
	"sort"

	"github.com/gilchrisn/jtree-partition/pkg/graphio"
	"github.com/gilchrisn/jtree-partition/pkg/types"
)

// DefaultSequence returns vertices in their native 0..NumVertices-1 order,
// the identity elimination ordering, matching
// original_source/lib/sequence.h's defaultSequence.
func DefaultSequence(g Graph) []types.Vid {
	n := g.NumVertices()
	seq := make([]types.Vid, 0, n)
	for v := 0; v < n; v++ {
		if g.HasVertex(types.Vid(v)) {
			seq = append(seq, types.Vid(v))
		}
	}
	return seq
}

// DegreeSequence orders vertices ascending by degree, tied by vertex id.
// Grounded on
// original_source/lib/sequence.h's degreeSequence.
func DegreeSequence(g Graph) []types.Vid {
	seq := DefaultSequence(g)
	sort.SliceStable(seq, func(i, j int) bool {
		di, dj := g.Degree(seq[i]), g.Degree(seq[j])
		if di != dj {
			return di < dj
		}
		return seq[i] < seq[j]
	})
	return seq
}

// FileSequence derives a degree-ascending sequence directly from a text
// edge file without building a full Graph: it reads the whole edge list
// into memory, then counts per-vertex degrees over it. Grounded on
// original_source/lib/sequence.h's fileSequence, the single-scan-discovery
// pattern this module also reuses to fix partition.Fennel's file-driven
// variant (see pkg/graphio.CountVerticesAndEdges).
func FileSequence(r io.Reader) ([]types.Vid, error) {
	edges, err := graphio.ReadTextEdges(r)
	if err != nil {
		return nil, err
	}
	var maxVid types.Vid
	for _, e := range edges {
		if e.Tail > maxVid {
			maxVid = e.Tail
		}
		if e.Head > maxVid {
			maxVid = e.Head
		}
	}
	degree := make([]int, maxVid+1)
	for _, e := range edges {
		degree[e.Tail]++
		degree[e.Head]++
	}
	seq := make([]types.Vid, len(degree))
	for i := range seq {
		seq[i] = types.Vid(i)
	}
	sort.SliceStable(seq, func(i, j int) bool {
		di, dj := degree[seq[i]], degree[seq[j]]
		if di != dj {
			return di < dj
		}
		return seq[i] < seq[j]
	})
	return seq, nil
}

// BuildUndirected loads edges into a fresh UndirectedGraph.
func BuildUndirected(edges []graphio.Edge) *UndirectedGraph {
	g := NewUndirectedGraph()
	for _, e := range edges {
		g.AddEdge(e.Tail, e.Head)
	}
	return g
}
