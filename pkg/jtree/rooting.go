package jtree

import (
	"fmt"
	"io"
	"sort"

	"github.com/gilchrisn/jtree-partition/pkg/graph"
	"github.com/gilchrisn/jtree-partition/pkg/jerr"
	"github.com/gilchrisn/jtree-partition/pkg/merge"
	"github.com/gilchrisn/jtree-partition/pkg/types"
	"github.com/gilchrisn/jtree-partition/pkg/unionfind"
)

// FindMaxWidth runs the same elimination simulation Insert does, but
// without committing anything to the tree: it only tracks each vertex's
// resulting width (one more than its separator size), to answer "what would the max width of this
// ordering be" cheaply before committing to building the full tree with
// it. It returns early, with exceeded set, the moment the running maximum
// passes bound — the "early termination" spec.md calls for when a caller
// only cares whether an ordering is good enough, not its exact width.
func (t *Tree) FindMaxWidth(g graph.Graph, seq []types.Vid, bound uint32) (maxWidth uint32, exceeded bool, err error) {
	vidToJnid := make([]types.Jnid, len(t.vidToJnid))
	copy(vidToJnid, t.vidToJnid)
	uf := unionfind.NewFastFromPrefix(t.uf, t.uf.Len())
	pst := make(map[types.Jnid][]types.Vid)

	next := types.Jnid(t.nodes.Len())
	for _, v := range seq {
		if vidToJnid[v] != types.NoJnid {
			return 0, false, jerr.Invariant
		}
		if !t.opts.MakePad && !g.HasVertex(v) {
			continue
		}
		var kidRoots []types.Jnid
		seen := make(map[types.Jnid]bool)
		var postorder []types.Vid
		for _, u := range g.Neighbors(v) {
			if u == v {
				continue
			}
			if vidToJnid[u] != types.NoJnid {
				root := uf.Find(vidToJnid[u])
				if !seen[root] {
					seen[root] = true
					kidRoots = append(kidRoots, root)
				}
			} else {
				postorder = append(postorder, u)
			}
		}
		ranges := make([]merge.Range, 0, len(kidRoots)+1)
		if len(postorder) > 0 {
			ranges = append(ranges, postorder)
		}
		for _, k := range kidRoots {
			ranges = append(ranges, pst[k])
		}
		sep, err := merge.Merge(ranges, v, 1<<30)
		if err != nil {
			return 0, false, err
		}
		id := next // matches the jnid Insert would assign
		next++
		for _, k := range kidRoots {
			uf.Unify(k, id)
		}
		pst[id] = sep
		vidToJnid[v] = id
		if w := uint32(len(sep)) + 1; w > maxWidth {
			maxWidth = w
			if maxWidth > bound {
				return maxWidth, true, nil
			}
		}
	}
	return maxWidth, false, nil
}

// DoRooting collapses every currently-unconnected root into a single
// synthetic root, so a tree built over a disconnected graph still has one
// final root: a meta-node adopts every remaining root as a kid, with a
// junction set equal to the sorted list of those root jnids, then a linear
// chain of trivial nodes eliminates that set one entry at a time by direct
// copy, matching original_source/lib/jtree.cpp's insertSequence rooting
// phase and its fixed-arity "rest of the graph" finish.
//
// The pre_weight computed for every chain link past the first is simply
// carried over from its predecessor rather than re-derived from the
// shrinking junction set — original_source/lib/jtree.cpp marks this exact
// path "// XXX pre_weight is currently broken for this case", and this is
// a faithful reproduction of that known degradation, not a fix.
func (t *Tree) DoRooting() error {
	var roots []types.Jnid
	n := t.nodes.Len()
	for i := 0; i < n; i++ {
		if t.nodes.Parent(types.Jnid(i)) == types.NoJnid {
			roots = append(roots, types.Jnid(i))
		}
	}
	if len(roots) <= 1 {
		return nil
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	meta, err := t.nodes.NewNode()
	if err != nil {
		return err
	}
	if err := t.nodes.AdoptKids(meta, roots); err != nil {
		return err
	}
	jxn := make([]types.Vid, len(roots))
	for i, r := range roots {
		jxn[i] = types.Vid(r)
	}
	if t.opts.MakeJxn {
		if err := t.nodes.SetJxn(meta, jxn); err != nil {
			return err
		}
	}
	if t.opts.MakePre {
		var sum uint32
		for _, r := range roots {
			sum += t.nodes.PreWeight(r)
		}
		if err := t.nodes.SetPreWeight(meta, sum); err != nil {
			return err
		}
	}

	prev := meta
	prevJxn := jxn
	for len(prevJxn) > 1 {
		next, err := t.nodes.NewNode()
		if err != nil {
			return err
		}
		if err := t.nodes.Adopt(next, prev); err != nil {
			return err
		}
		newJxn := prevJxn[1:]
		if t.opts.MakeJxn {
			if err := t.nodes.SetJxn(next, newJxn); err != nil {
				return err
			}
		}
		t.nodes.AddPostWeight(next, uint32(len(newJxn)))
		if t.opts.MakePre {
			// Known-broken: should re-derive from newJxn, just copies
			// forward instead.
			if err := t.nodes.SetPreWeight(next, t.nodes.PreWeight(prev)); err != nil {
				return err
			}
		}
		prev, prevJxn = next, newJxn
	}
	return nil
}

// WriteIsomorphism writes edges re-expressed in jnid space: every vertex
// id is replaced by the jnid it was assigned during elimination.
// Grounded on original_source/lib/jtree.h's write_isomorphism.
func (t *Tree) WriteIsomorphism(w io.Writer, edges [][2]types.Vid) error {
	for _, e := range edges {
		ju, jv := t.vidToJnid[e[0]], t.vidToJnid[e[1]]
		if ju == types.NoJnid || jv == types.NoJnid {
			continue
		}
		if _, err := fmt.Fprintf(w, "%d %d\n", ju, jv); err != nil {
			return jerr.Io
		}
	}
	return nil
}
