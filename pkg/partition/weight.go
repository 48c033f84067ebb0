// Package partition implements the tree-structured partitioning
// strategies (forward/FFD, backward, depth, height, naive, random) and the
// streaming Fennel-style edge-balanced partitioner, plus evaluation and
// file I/O glue. Grounded on original_source/lib/partition.h and
// partition.cpp.
package partition

import (
	"github.com/gilchrisn/jtree-partition/pkg/jnode"
	"github.com/gilchrisn/jtree-partition/pkg/types"
)

// Weights configures the node weight function every tree-based strategy
// uses to decide how "heavy" a node is: its own vertex (always 1, scaled
// by Vtx), its postorder separator size (scaled by Pst), and the combined
// preorder weight of its kids (scaled by Pre). Grounded on
// original_source/lib/partition.h's get_weight.
type Weights struct {
	Vtx float64
	Pst float64
	Pre float64
}

// DefaultWeights counts only vertices, the simplest and most common case
// (one unit of weight per node in the tree).
func DefaultWeights() Weights { return Weights{Vtx: 1} }

// NodeWeight returns id's weight under w.
func (w Weights) NodeWeight(t *jnode.Table, id types.Jnid) float64 {
	sum := w.Vtx
	sum += w.Pst * float64(t.PostWeight(id))
	if w.Pre != 0 {
		for _, k := range t.Kids(id) {
			sum += w.Pre * float64(t.PreWeight(k))
		}
	}
	return sum
}
