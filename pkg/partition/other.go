package partition

import (
	"math/rand"
	"sort"

	"github.com/gilchrisn/jtree-partition/pkg/jnode"
	"github.com/gilchrisn/jtree-partition/pkg/types"
)

// Backward partitions by following each root's heaviest-child chain
// (its "critical path") first, packing nodes into the current part until
// it is full before moving to the next part and the next heaviest chain.
// The original's comment on this algorithm calls it "fundamentally broken
// for multiple components" — its critical-path tracking only accounts for
// a single root's longest chain, so a tree with several disconnected
// roots distributes its later components far less evenly than Forward
// does. This port keeps that limitation rather than silently fixing it,
// since spec.md lists Backward as a named algorithm in its own right, not
// as an alias for Forward. Grounded on
// original_source/lib/partition.cpp's backwardPartition.
func Backward(t *jnode.Table, w Weights, numParts int, maxComponent float64) ([]types.Part, error) {
	n := t.Len()
	assigned := make([]types.Part, n)
	for i := range assigned {
		assigned[i] = types.NoPart
	}
	partSize := make([]float64, numParts)
	current := types.Part(0)

	var roots []types.Jnid
	for i := 0; i < n; i++ {
		if t.Parent(types.Jnid(i)) == types.NoJnid {
			roots = append(roots, types.Jnid(i))
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	var walk func(id types.Jnid)
	walk = func(id types.Jnid) {
		if assigned[id] != types.NoPart {
			return
		}
		weight := w.NodeWeight(t, id)
		if partSize[current]+weight > maxComponent && current+1 < types.Part(numParts) {
			current++
		}
		assigned[id] = current
		partSize[current] += weight

		kids := append([]types.Jnid(nil), t.Kids(id)...)
		sort.Slice(kids, func(a, b int) bool {
			return w.NodeWeight(t, kids[a]) > w.NodeWeight(t, kids[b])
		})
		for _, k := range kids {
			walk(k)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return assigned, nil
}

// Depth assigns each node to the part matching its distance from its
// tree's root, bucketed modulo numParts. Grounded on
// original_source/lib/partition.cpp's depthPartition.
func Depth(t *jnode.Table, numParts int) []types.Part {
	n := t.Len()
	depth := make([]int, n)
	assigned := make([]types.Part, n)
	for i := n - 1; i >= 0; i-- {
		id := types.Jnid(i)
		p := t.Parent(id)
		if p == types.NoJnid {
			depth[i] = 0
		}
	}
	for i := 0; i < n; i++ {
		id := types.Jnid(i)
		if p := t.Parent(id); p != types.NoJnid {
			// p > i always, so this depends on a value not yet computed in
			// ascending order; recompute on demand via the descending pass
			// above isn't enough for multi-level trees, so walk to the root.
			d := 0
			cur := id
			for {
				par := t.Parent(cur)
				if par == types.NoJnid {
					break
				}
				d++
				cur = par
			}
			depth[i] = d
		}
		assigned[i] = types.Part(depth[i] % numParts)
	}
	return assigned
}

// Height assigns each node to the part matching its subtree height
// (distance to its furthest descendant leaf), bucketed modulo numParts.
// Grounded on original_source/lib/partition.cpp's heightPartition.
func Height(t *jnode.Table, numParts int) []types.Part {
	n := t.Len()
	height := make([]int, n)
	for i := 0; i < n; i++ {
		height[i] = 1
	}
	for i := 0; i < n; i++ {
		id := types.Jnid(i)
		if p := t.Parent(id); p != types.NoJnid {
			if height[i]+1 > height[p] {
				height[p] = height[i] + 1
			}
		}
	}
	assigned := make([]types.Part, n)
	for i := 0; i < n; i++ {
		assigned[i] = types.Part((height[i] - 1) % numParts)
	}
	return assigned
}

// Naive assigns contiguous runs of jnids to parts in order, splitting the
// id range into numParts equal chunks — the simplest possible
// stream-packing strategy, with no regard for tree structure or balance
// beyond node count. Grounded on
// original_source/lib/partition.cpp's naivePartition.
func Naive(n, numParts int) []types.Part {
	assigned := make([]types.Part, n)
	chunk := (n + numParts - 1) / numParts
	if chunk == 0 {
		chunk = 1
	}
	for i := 0; i < n; i++ {
		p := i / chunk
		if p >= numParts {
			p = numParts - 1
		}
		assigned[i] = types.Part(p)
	}
	return assigned
}

// Random assigns each node to a uniformly random part. rng is caller
// supplied so tests (and callers wanting reproducible runs) can seed it.
// Grounded on original_source/lib/partition.cpp's randomPartition.
func Random(n, numParts int, rng *rand.Rand) []types.Part {
	assigned := make([]types.Part, n)
	for i := 0; i < n; i++ {
		assigned[i] = types.Part(rng.Intn(numParts))
	}
	return assigned
}
