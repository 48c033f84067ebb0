package jnode

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/gilchrisn/jtree-partition/pkg/jerr"
	"github.com/gilchrisn/jtree-partition/pkg/types"
	"github.com/gilchrisn/jtree-partition/pkg/unionfind"
)

// Merge combines lhs and rhs, which must be the same size (both built over
// the same vertex space, e.g. by two workers that each saw a different
// subset of edges), into a new allocated table. It is the associative,
// commutative-in-weights reduction operator original_source/lib/jnode.h's
// merge/mpi_merge_reduction implement: weights simply add, and differing
// parent assignments are reconciled by unioning the two claimed parents
// together and taking the union-find representative as the merged parent.
// Only Parent/PostWeight/PreWeight ever participate — this is the exact
// restriction the wire format in original_source keeps merge to, so that a
// distributed reduction only ever ships those three fields between
// workers (see ReduceAll below). Kids/pst/jxn are never merged directly;
// call MakeKids on the result if you need them.
func Merge(lhs, rhs *Table) (*Table, error) {
	if lhs.Len() != rhs.Len() {
		return nil, jerr.Invariant
	}
	n := lhs.Len()
	uf := unionfind.NewFast(n + 1) // +1: NoJnid-as-root sentinel slot at index n
	noRoot := types.Jnid(n)

	repOf := func(p types.Jnid) types.Jnid {
		if p == types.NoJnid {
			return noRoot
		}
		return p
	}
	for i := 0; i < n; i++ {
		lp := repOf(lhs.back.Get(i).Parent)
		rp := repOf(rhs.back.Get(i).Parent)
		if lp != rp {
			lo, hi := lp, rp
			if lo > hi {
				lo, hi = hi, lo
			}
			uf.Unify(lo, hi)
		}
	}

	makePre := lhs.opts.MakePre || rhs.opts.MakePre
	out := NewAllocated(n, Options{MakePre: makePre})
	for i := 0; i < n; i++ {
		if _, err := out.NewNode(); err != nil {
			return nil, err
		}
	}
	for i := 0; i < n; i++ {
		l := lhs.back.Get(i)
		r := rhs.back.Get(i)
		rep := uf.Find(repOf(l.Parent))
		parent := types.NoJnid
		if rep != noRoot {
			parent = rep
		}
		rec := Node{
			Parent:     parent,
			PostWeight: l.PostWeight + r.PostWeight,
		}
		if makePre {
			rec.PreWeight = l.PreWeight + r.PreWeight
		}
		out.back.Set(i, rec)
		if parent != types.NoJnid {
			out.hasChild[parent] = true
		}
	}
	return out, nil
}

// ReduceAll folds tables together pairwise in a balanced binary tree of
// rounds, using an errgroup.Group to run each round's independent merges
// concurrently. This is the in-process stand-in for the original's
// MPI_Reduce collective: the same associative/commutative-in-weights
// operator (Merge) is applied across workers instead of OS processes,
// since this module has no network transport (out of scope per the
// system's scope). MakeKids runs exactly once, on the final result, never
// mid-reduction, preserving the restriction that only
// Parent/PostWeight/PreWeight travel between reduction steps.
func ReduceAll(ctx context.Context, tables []*Table, rebuildKids bool) (*Table, error) {
	if len(tables) == 0 {
		return nil, jerr.Invariant
	}
	level := tables
	for len(level) > 1 {
		g, _ := errgroup.WithContext(ctx)
		next := make([]*Table, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			i := i
			if i+1 == len(level) {
				next[i/2] = level[i]
				continue
			}
			g.Go(func() error {
				merged, err := Merge(level[i], level[i+1])
				if err != nil {
					return err
				}
				next[i/2] = merged
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		level = next
	}
	result := level[0]
	if rebuildKids {
		if err := result.MakeKids(); err != nil {
			return nil, err
		}
	}
	return result, nil
}
