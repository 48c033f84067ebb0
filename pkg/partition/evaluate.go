package partition

import (
	"io"

	"github.com/gilchrisn/jtree-partition/pkg/graphio"
	"github.com/gilchrisn/jtree-partition/pkg/types"
)

// ReadPartition is a thin wrapper over graphio.ReadPartitionFile, kept in
// this package so callers working purely in terms of partition.Part never
// need to import graphio directly for the common load path.
func ReadPartition(r io.Reader) ([]types.Part, error) {
	return graphio.ReadPartitionFile(r)
}

// Evaluation holds the diagnostics Evaluate and EvaluateOrdered compute
// over an edge list and a part assignment: how many edges cross parts, and
// how much total communication volume that implies under two different
// accounting rules. Grounded on original_source/lib/partition.cpp's
// evaluatePartition.
type Evaluation struct {
	NumEdges        int
	EdgesCut        int
	CommVolumeEdges int64   // one unit of volume per cut edge
	CommVolumeOrder float64 // sum of edge weight over cut edges, weighted by elimination distance
}

// Evaluate counts cut edges and edge-based communication volume: an edge
// is cut when its endpoints land in different parts, and contributes one
// unit of edge-communication-volume per cut.
func Evaluate(edges []graphio.Edge, partOf func(types.Vid) types.Part) Evaluation {
	var ev Evaluation
	ev.NumEdges = len(edges)
	for _, e := range edges {
		if partOf(e.Tail) != partOf(e.Head) {
			ev.EdgesCut++
			ev.CommVolumeEdges++
		}
	}
	return ev
}

// EvaluateOrdered extends Evaluate with order-aware communication volume: a
// cut edge's contribution is scaled by how far apart its endpoints'
// elimination ranks are, on the theory that a part holding a vertex whose
// cross-part neighbor was eliminated long ago (or will be eliminated long
// from now) needs to keep that data alive for longer. rank gives each
// vertex's elimination order (lower eliminates first).
func EvaluateOrdered(edges []graphio.Edge, partOf func(types.Vid) types.Part, rank func(types.Vid) int) Evaluation {
	ev := Evaluate(edges, partOf)
	for _, e := range edges {
		if partOf(e.Tail) == partOf(e.Head) {
			continue
		}
		d := rank(e.Tail) - rank(e.Head)
		if d < 0 {
			d = -d
		}
		ev.CommVolumeOrder += float64(e.Weight) * float64(d)
	}
	return ev
}

// Summary reports the number of parts used and the sizes of the first two
// (by part index), the compact digest original_source/lib/partition.cpp's
// printSummary prints after a run.
type Summary struct {
	NumParts int
	Size0    int
	Size1    int
}

// SummarizePartition counts how many distinct parts appear in assigned and
// reports the sizes of parts 0 and 1 specifically (0 if either is absent
// or the assignment uses fewer than that many parts).
func SummarizePartition(assigned []types.Part) Summary {
	sizes := map[types.Part]int{}
	maxPart := types.Part(-1)
	for _, p := range assigned {
		if p == types.NoPart {
			continue
		}
		sizes[p]++
		if p > maxPart {
			maxPart = p
		}
	}
	s := Summary{NumParts: len(sizes)}
	if n, ok := sizes[0]; ok {
		s.Size0 = n
	}
	if n, ok := sizes[1]; ok {
		s.Size1 = n
	}
	return s
}
