package jnode

import "github.com/gilchrisn/jtree-partition/pkg/types"

// Facts summarizes a built tree in a single ascending sweep: every
// quantity here is derived from the Parent/PostWeight/PreWeight arrays
// alone, so it works on a table that never built kids/pst/jxn. Grounded on
// original_source/lib/jnode.h's Facts struct and JNodeTable::getFacts.
type Facts struct {
	NumVertices      int
	NumEdges         int64 // sum of PostWeight over all nodes
	MaxWidth         uint32
	FillEdges        int64
	VertexTreeHeight int
	EdgeTreeHeight   int64
	RootCount        int

	// HaloJnid is the first node whose width exceeds 3, a fixed threshold
	// past which a separator is considered part of the tree's outer "halo"
	// rather than its dense core.
	HaloJnid types.Jnid
	// CoreJnid is the first node to reach the tree's running maximum
	// width, i.e. the first node achieving MaxWidth.
	CoreJnid types.Jnid
}

// width reports id's separator width: one more than the size of its
// junction set when one was built (the clique itself), or, absent a jxn
// table, one more than its postorder weight (the separator before v's own
// vertex is counted in). Grounded on original_source/lib/jnode.h's
// JNodeTable::width.
func (t *Table) width(id types.Jnid) uint32 {
	if t.jxn != nil {
		return 1 + uint32(len(t.Jxn(id)))
	}
	return 1 + t.back.Get(int(id)).PostWeight
}

// Facts computes summary statistics with one ascending pass over the node
// array. The pass relies on the tree's defining invariant that every
// node's parent has a strictly larger jnid than the node itself, so a
// child's contribution to its parent's subtree size/height is always
// available by the time some later iteration needs it, even though the
// loop never revisits an index. Grounded on original_source/lib/jnode.h's
// JNodeTable::getFacts.
func (t *Table) Facts() Facts {
	n := t.back.Len()
	subtreeSize := make([]int, n)
	subtreeHeight := make([]int, n)
	subtreeWeight := make([]int64, n)

	var f Facts
	f.NumVertices = n
	haloSet := false
	for i := 0; i < n; i++ {
		subtreeSize[i]++
		if subtreeHeight[i] == 0 {
			subtreeHeight[i] = 1 // a leaf; kids already raised it otherwise
		}

		rec := t.back.Get(i)
		id := types.Jnid(i)
		w := t.width(id)

		f.NumEdges += int64(rec.PostWeight)
		f.FillEdges += int64(w) - int64(rec.PostWeight) - 1
		if w > f.MaxWidth {
			f.MaxWidth = w
			f.CoreJnid = id
		}
		if !haloSet && w > 3 {
			f.HaloJnid = id
			haloSet = true
		}

		if rec.Parent == types.NoJnid {
			f.RootCount++
			if subtreeHeight[i] > f.VertexTreeHeight {
				f.VertexTreeHeight = subtreeHeight[i]
			}
			if subtreeWeight[i] > f.EdgeTreeHeight {
				f.EdgeTreeHeight = subtreeWeight[i]
			}
			continue
		}
		p := int(rec.Parent)
		subtreeSize[p] += subtreeSize[i]
		if subtreeHeight[i]+1 > subtreeHeight[p] {
			subtreeHeight[p] = subtreeHeight[i] + 1
		}
		sw := subtreeWeight[i] + int64(rec.PostWeight)
		if sw > subtreeWeight[p] {
			subtreeWeight[p] = sw
		}
	}
	return f
}
