package partition

import "github.com/gilchrisn/jtree-partition/pkg/types"

// RewriteJnidToVid converts a jnid-indexed part assignment (as every
// tree-based algorithm above produces) into a vid-indexed one: seq[i] is
// the vid eliminated as jnid i, so assigned[i]'s part belongs to vertex
// seq[i]. Vertices never mentioned in seq (if any) are left at NoPart.
// Grounded on original_source/lib/partition.h's Partition constructor,
// which performs this exact conversion immediately after forwardPartition.
func RewriteJnidToVid(seq []types.Vid, assigned []types.Part) []types.Part {
	var maxVid types.Vid
	for _, v := range seq {
		if v > maxVid {
			maxVid = v
		}
	}
	out := make([]types.Part, maxVid+1)
	for i := range out {
		out[i] = types.NoPart
	}
	for i, v := range seq {
		if i >= len(assigned) {
			break
		}
		out[v] = assigned[i]
	}
	return out
}
