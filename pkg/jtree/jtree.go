// Package jtree implements Tree, the junction (chordal elimination) tree
// driver: given a graph and an elimination order, it builds a jnode.Table
// one vertex at a time, classifying each vertex's edges as preorder
// (already-eliminated neighbor, triggers an adopt/meet) or postorder
// (not-yet-eliminated neighbor, grows the node's separator). Grounded on
// original_source/lib/jtree.h and jtree.cpp.
package jtree

import (
	"sort"

	"github.com/gilchrisn/jtree-partition/pkg/graph"
	"github.com/gilchrisn/jtree-partition/pkg/jerr"
	"github.com/gilchrisn/jtree-partition/pkg/jnode"
	"github.com/gilchrisn/jtree-partition/pkg/merge"
	"github.com/gilchrisn/jtree-partition/pkg/types"
	"github.com/gilchrisn/jtree-partition/pkg/unionfind"
)

// Tree is a junction tree under construction or already built.
type Tree struct {
	opts  Options
	nodes *jnode.Table
	uf    *unionfind.Fast

	vidToJnid  []types.Jnid // dense index, types.NoJnid until a vertex is eliminated
	wideSeq    []types.Vid  // vertices deferred because their width exceeded opts.WidthLimit
	padSkipped []bool       // true for a zero-degree vertex Insert skipped under MakePad=false
}

// New returns an empty Tree sized to hold numVertices vertices.
func New(numVertices int, opts Options) (*Tree, error) {
	if err := opts.IsValid(); err != nil {
		return nil, err
	}
	vtoj := make([]types.Jnid, numVertices)
	for i := range vtoj {
		vtoj[i] = types.NoJnid
	}
	return &Tree{
		opts: opts,
		nodes: jnode.NewAllocated(numVertices, jnode.Options{
			MakeKids:   opts.MakeKids,
			MakePst:    opts.MakePst,
			MakeJxn:    opts.MakeJxn,
			MakePre:    opts.MakePre,
			ByteBudget: opts.MemoryLimit,
		}),
		uf:         unionfind.NewFast(numVertices),
		vidToJnid:  vtoj,
		padSkipped: make([]bool, numVertices),
	}, nil
}

// Nodes returns the underlying node table.
func (t *Tree) Nodes() *jnode.Table { return t.nodes }

// VidToJnid reports the jnid assigned to v, or types.NoJnid if v has not
// been eliminated (inserted) yet.
func (t *Tree) VidToJnid(v types.Vid) types.Jnid { return t.vidToJnid[v] }

// DeferredVertices returns the vertices Insert most recently deferred for
// exceeding opts.WidthLimit. Callers drive the retry loop themselves by
// calling InsertSequence again with this slice (cmd/build-tree does so
// once).
func (t *Tree) DeferredVertices() []types.Vid { return t.wideSeq }

// InsertSequence inserts every vertex in seq, in order. A vertex whose
// resulting separator would exceed opts.WidthLimit is skipped and appended
// to DeferredVertices() instead of aborting the whole batch; skipping a
// vertex leaves it eligible to be classified as a postorder neighbor of
// anything processed afterward, which is exactly correct (it has not
// actually been eliminated), so a later retry pass over the deferred
// vertices produces a valid, if differently ordered, tree.
func (t *Tree) InsertSequence(g graph.Graph, seq []types.Vid) error {
	t.wideSeq = t.wideSeq[:0]
	for _, v := range seq {
		if err := t.Insert(g, v); err != nil {
			if err == jerr.BudgetExceeded {
				continue
			}
			return err
		}
	}
	return nil
}

// Insert eliminates vertex v: it creates v's node, adopts every
// already-eliminated neighbor's current representative as a kid, merges
// the postorder neighbor sets of those kids together with v's own
// not-yet-eliminated neighbors, and records the result as v's separator.
// If that separator would exceed opts.WidthLimit, Insert rolls the
// insertion back entirely and returns jerr.BudgetExceeded; v remains
// uneliminated and is appended to DeferredVertices().
//
// If opts.MakePad is clear and v has zero degree (it is absent from the
// graph's edge list entirely), Insert skips it instead of creating a
// trivial node: v is recorded as intentionally skipped so IsValid does not
// treat it as a missed vertex, but it never receives a jnid.
func (t *Tree) Insert(g graph.Graph, v types.Vid) error {
	if t.vidToJnid[v] != types.NoJnid {
		return jerr.Invariant
	}
	if !t.opts.MakePad && !g.HasVertex(v) {
		t.padSkipped[v] = true
		return nil
	}

	var kidRoots []types.Jnid
	seenRoot := make(map[types.Jnid]bool)
	var postorder []types.Vid

	for _, u := range g.Neighbors(v) {
		if u == v {
			continue
		}
		if t.vidToJnid[u] != types.NoJnid {
			root := t.uf.Find(t.vidToJnid[u])
			if !seenRoot[root] {
				seenRoot[root] = true
				kidRoots = append(kidRoots, root)
			}
		} else {
			postorder = append(postorder, u)
		}
	}
	sort.Slice(postorder, func(i, j int) bool { return postorder[i] < postorder[j] })
	sort.Slice(kidRoots, func(i, j int) bool { return kidRoots[i] < kidRoots[j] })

	ranges := make([]merge.Range, 0, len(kidRoots)+1)
	if len(postorder) > 0 {
		ranges = append(ranges, postorder)
	}
	for _, k := range kidRoots {
		if pst := t.nodes.Pst(k); len(pst) > 0 {
			ranges = append(ranges, pst)
		}
	}

	budget := int(t.opts.WidthLimit)
	if budget < 0 {
		budget = int(^uint32(0))
	}
	separator, err := merge.Merge(ranges, v, budget)
	if err != nil {
		if err == jerr.BudgetExceeded {
			t.wideSeq = append(t.wideSeq, v)
		}
		return err
	}

	id, err := t.nodes.NewNode()
	if err != nil {
		return err
	}
	t.vidToJnid[v] = id

	for _, k := range kidRoots {
		if err := t.nodes.MeetKid(id, k); err != nil {
			return err
		}
		t.uf.Unify(k, id)
	}
	if t.opts.MakePst {
		if err := t.nodes.NewUnion(id, ranges, v, budget); err != nil {
			return err
		}
		if err := t.nodes.CleanPst(id); err != nil {
			return err
		}
	}
	t.nodes.AddPostWeight(id, uint32(len(separator)))
	if t.opts.MakePre {
		pre := uint32(1)
		for _, k := range kidRoots {
			pre += t.nodes.PreWeight(k)
		}
		if err := t.nodes.SetPreWeight(id, pre); err != nil {
			return err
		}
	}
	if t.opts.MakeJxn {
		if err := t.nodes.SetJxn(id, separator); err != nil {
			return err
		}
	}
	return nil
}

// IsValid checks the tree's defining structural invariants: every node's
// parent (if any) has a strictly larger jnid, and every vertex has been
// assigned a jnid. Grounded on original_source/lib/jtree.cpp's isValid.
func (t *Tree) IsValid() error {
	n := t.nodes.Len()
	for i := 0; i < n; i++ {
		p := t.nodes.Parent(types.Jnid(i))
		if p != types.NoJnid && int(p) <= i {
			return jerr.Invariant
		}
	}
	for v, j := range t.vidToJnid {
		if j == types.NoJnid && !t.padSkipped[v] {
			return jerr.Invariant
		}
	}
	return nil
}
