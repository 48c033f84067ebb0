package graph

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/gilchrisn/jtree-partition/pkg/types"
)

// UndirectedGraph adapts gonum's graph/simple.UndirectedGraph, the same
// representation the teacher repo builds elsewhere
// (graph-clustering-backend/src2/algorithm/coordinates/graph_adapter.go)
// to feed MDS layout, here generalized to feed a junction-tree build
// instead. Vertex ids are cast directly to gonum's int64 node ids.
type UndirectedGraph struct {
	g   *simple.UndirectedGraph
	nbr map[types.Vid][]types.Vid // cached sorted neighbor lists
	max types.Vid
}

// NewUndirectedGraph returns an empty graph.
func NewUndirectedGraph() *UndirectedGraph {
	return &UndirectedGraph{g: simple.NewUndirectedGraph(), nbr: make(map[types.Vid][]types.Vid)}
}

// AddEdge inserts the undirected edge {u, v}, adding either endpoint as a
// gonum node first if it is new.
func (g *UndirectedGraph) AddEdge(u, v types.Vid) {
	g.ensureNode(u)
	g.ensureNode(v)
	if u > g.max {
		g.max = u
	}
	if v > g.max {
		g.max = v
	}
	if u == v {
		return
	}
	if !g.g.HasEdgeBetween(int64(u), int64(v)) {
		g.g.SetEdge(g.g.NewEdge(simple.Node(u), simple.Node(v)))
	}
	g.nbr = nil // invalidate cache
}

func (g *UndirectedGraph) ensureNode(v types.Vid) {
	if g.g.Node(int64(v)) == nil {
		g.g.AddNode(simple.Node(v))
	}
}

func (g *UndirectedGraph) NumVertices() int { return int(g.max) + 1 }

func (g *UndirectedGraph) HasVertex(v types.Vid) bool { return g.g.Node(int64(v)) != nil }

func (g *UndirectedGraph) Degree(v types.Vid) int { return len(g.Neighbors(v)) }

func (g *UndirectedGraph) Neighbors(v types.Vid) []types.Vid {
	if g.nbr == nil {
		g.nbr = make(map[types.Vid][]types.Vid)
	}
	if cached, ok := g.nbr[v]; ok {
		return cached
	}
	it := g.g.From(int64(v))
	var out []types.Vid
	for it.Next() {
		out = append(out, types.Vid(it.Node().ID()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	g.nbr[v] = out
	return out
}
