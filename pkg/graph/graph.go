// Package graph defines the small graph capability the tree builder needs
// from whatever loaded the input graph — node iteration, edge iteration,
// degree, membership — and ships one concrete implementation on top of
// gonum's undirected graph type. Grounded on
// original_source/lib/graph_wrapper.h's LLAMAGraph/SNAPGraph capability
// interface; loading a graph from a specific dataset format is explicitly
// out of scope (spec.md §1 Non-goals), so this package only needs to
// expose the capability, plus enough of a reference implementation
// (backed by graphio's edge readers) to make the CLI tools runnable.
package graph

import "github.com/gilchrisn/jtree-partition/pkg/types"

// Graph is the minimal capability jtree.Tree.Insert/InsertSequence needs:
// given a vertex, enumerate its neighbors.
type Graph interface {
	// NumVertices returns one past the largest vertex id the graph knows
	// about (vertex ids are assumed dense in [0, NumVertices)).
	NumVertices() int
	// HasVertex reports whether v was ever mentioned by an edge.
	HasVertex(v types.Vid) bool
	// Degree returns the number of neighbors of v.
	Degree(v types.Vid) int
	// Neighbors returns v's neighbor set. The caller must not mutate the
	// returned slice.
	Neighbors(v types.Vid) []types.Vid
}
