// Fennel takes edges in graph order (not elimination order) and assigns
// each vertex to a part the first time its edge is reached, after building
// an in-memory adjacency list of the whole edge list. Grounded on
// original_source/lib/partition.h's fennel_partition and the Fennel paper
// the original cites in comment.
package partition

import (
	"io"
	"math"

	"github.com/gilchrisn/jtree-partition/pkg/graphio"
	"github.com/gilchrisn/jtree-partition/pkg/types"
)

// FennelStats carries the sizing a Fennel run needs up front: the total
// vertex and edge counts of the stream it is about to see. CountVerticesAndEdges
// produces both in one scan; FennelFromFile then rewinds and reads the
// input a second time to load the edges.
type FennelStats struct {
	NumVertices int
	NumEdges    int
}

// FennelEdgeBalanced returns alpha tuned to balance edge cuts, following
// the edge-balanced formula from the original: alpha = sqrt(numParts) *
// numEdges / numVertices^gamma.
func FennelEdgeBalanced(stats FennelStats, numParts int, gamma float64) float64 {
	return math.Sqrt(float64(numParts)) * float64(stats.NumEdges) / math.Pow(float64(stats.NumVertices), gamma)
}

// FennelVertexBalanced returns alpha tuned to balance vertex counts per
// part instead of edges: alpha = numEdges * (numParts^(gamma-1)) /
// numVertices^gamma.
func FennelVertexBalanced(stats FennelStats, numParts int, gamma float64) float64 {
	return float64(stats.NumEdges) * math.Pow(float64(numParts), gamma-1) / math.Pow(float64(stats.NumVertices), gamma)
}

// FennelGamma is the exponent the original hardcodes for its load-balance
// penalty term.
const FennelGamma = 1.5

// Fennel assigns each vertex in edges, taken in edge order, to one of
// numParts parts. For every new vertex it scores each part by
// counting how many of the vertex's already-assigned neighbors sit in that
// part (part_value), minus a load-balance penalty
// alpha*((size+1)^gamma - size^gamma), and picks the highest score. A part
// sitting completely empty is chosen immediately without scoring, since an
// empty part can never be a worse choice for an unassigned vertex and this
// avoids numParts pointless score computations during the early stream.
func Fennel(edges []graphio.Edge, numVertices, numParts int, alpha, gamma float64) []types.Part {
	assigned := make([]types.Part, numVertices)
	for i := range assigned {
		assigned[i] = types.NoPart
	}
	partSize := make([]int, numParts)
	adjacency := make([][]types.Vid, numVertices)
	for _, e := range edges {
		if int(e.Tail) < numVertices && int(e.Head) < numVertices {
			adjacency[e.Tail] = append(adjacency[e.Tail], e.Head)
			adjacency[e.Head] = append(adjacency[e.Head], e.Tail)
		}
	}

	place := func(v types.Vid) {
		if int(v) >= len(assigned) || assigned[v] != types.NoPart {
			return
		}
		for p := 0; p < numParts; p++ {
			if partSize[p] == 0 {
				assigned[v] = types.Part(p)
				partSize[p]++
				return
			}
		}
		counts := make([]int, numParts)
		for _, u := range adjacency[v] {
			if assigned[u] != types.NoPart {
				counts[assigned[u]]++
			}
		}
		best := types.Part(0)
		bestScore := math.Inf(-1)
		for p := 0; p < numParts; p++ {
			score := float64(counts[p]) - alpha*(math.Pow(float64(partSize[p]+1), gamma)-math.Pow(float64(partSize[p]), gamma))
			if score > bestScore {
				bestScore = score
				best = types.Part(p)
			}
		}
		assigned[v] = best
		partSize[best]++
	}

	for _, e := range edges {
		place(e.Tail)
		place(e.Head)
	}
	for v := range assigned {
		if assigned[v] == types.NoPart {
			place(types.Vid(v))
		}
	}
	return assigned
}

// FennelFromFile derives numVertices/numEdges from a single scan of r via
// graphio.CountVerticesAndEdges, then re-reads the edges to run Fennel.
// This two-pass shape (count, then stream) is the fix to needing stream
// sizing decided before the stream itself can be read once.
func FennelFromFile(r io.ReadSeeker, numParts int, balanceEdges bool) ([]types.Part, error) {
	numVertices, numEdges, err := graphio.CountVerticesAndEdges(r)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	edges, err := graphio.ReadTextEdges(r)
	if err != nil {
		return nil, err
	}
	stats := FennelStats{NumVertices: numVertices, NumEdges: numEdges}
	var alpha float64
	if balanceEdges {
		alpha = FennelEdgeBalanced(stats, numParts, FennelGamma)
	} else {
		alpha = FennelVertexBalanced(stats, numParts, FennelGamma)
	}
	return Fennel(edges, numVertices, numParts, alpha, FennelGamma), nil
}
