package partition

import (
	"sort"

	"github.com/gilchrisn/jtree-partition/pkg/jnode"
	"github.com/gilchrisn/jtree-partition/pkg/types"
)

// Forward is the default tree partitioner: a bottom-up (ascending jnid,
// children-before-parents) sweep accumulates each node's weight plus its
// still-attached kids' weight into componentBelow. Once a node's
// componentBelow exceeds maxComponent, its kids are bin-packed into the
// running parts by first-fit-decreasing: sort the oversized node's kids by
// componentBelow descending, then drop each into the first part with
// room, opening a fresh part (growing past the starting numParts bins,
// unbounded, same as the original) when none has room. No part is ever
// forced over maxComponent.
// After the ascending sweep, any still-unassigned nodes (the tree's
// remaining roots and anything too small to trigger a cut) are handled by
// one descending pass: a node either inherits its parent's part, if the
// parent already has one, or is itself bin-packed the same way.
// Grounded on original_source/lib/partition.cpp's forwardPartition.
func Forward(t *jnode.Table, w Weights, numParts int, maxComponent float64) ([]types.Part, error) {
	n := t.Len()
	assigned := make([]types.Part, n)
	for i := range assigned {
		assigned[i] = types.NoPart
	}
	componentBelow := make([]float64, n)
	partSize := make([]float64, numParts)

	assignSubtree := func(root types.Jnid, p types.Part) {
		stack := []types.Jnid{root}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			assigned[id] = p
			for _, k := range t.Kids(id) {
				if assigned[k] == types.NoPart {
					stack = append(stack, k)
				}
			}
		}
	}

	// firstFit returns the first part with room for weight, opening a fresh
	// empty part (growing partSize past its initial numParts bins, same as
	// the original's part_size.push_back(0)) when none of the existing
	// parts has room. It never forces weight into a part that would push it
	// over maxComponent.
	firstFit := func(weight float64) types.Part {
		for p := 0; p < len(partSize); p++ {
			if partSize[p]+weight <= maxComponent {
				return types.Part(p)
			}
		}
		partSize = append(partSize, 0)
		return types.Part(len(partSize) - 1)
	}

	for i := 0; i < n; i++ {
		id := types.Jnid(i)
		componentBelow[i] = w.NodeWeight(t, id)
		var attached []types.Jnid
		for _, k := range t.Kids(id) {
			if assigned[k] == types.NoPart {
				componentBelow[i] += componentBelow[k]
				attached = append(attached, k)
			}
		}
		if componentBelow[i] <= maxComponent || len(attached) == 0 {
			continue
		}
		sort.Slice(attached, func(a, b int) bool {
			return componentBelow[attached[a]] > componentBelow[attached[b]]
		})
		for _, k := range attached {
			p := firstFit(componentBelow[k])
			assignSubtree(k, p)
			partSize[p] += componentBelow[k]
		}
		componentBelow[i] = w.NodeWeight(t, id)
	}

	for i := n - 1; i >= 0; i-- {
		id := types.Jnid(i)
		if assigned[id] != types.NoPart {
			continue
		}
		parent := t.Parent(id)
		if parent != types.NoJnid && assigned[parent] != types.NoPart {
			assigned[id] = assigned[parent]
			continue
		}
		p := firstFit(componentBelow[id])
		assignSubtree(id, p)
		partSize[p] += componentBelow[id]
	}
	return assigned, nil
}
