// Package unionfind implements the two union-find variants the original
// jnode.h builds on (original_source/lib/unionfind.h): a rank-weighted,
// path-compressing FastUnionFind and a simpler, revocable SimpleUnionFind.
// Both are specialized to unsigned integer ids rather than made fully
// generic, since every caller in this module works over Jnid — matching
// the pack's own habit (see other_examples/*unionfind*.go) of writing a
// concrete-typed union-find rather than reaching for a generic container
// abstraction.
package unionfind

// Interface is the common method set of the union-find implementations.
// Both Fast and Simple satisfy it; jnode and jtree use *Fast directly.
type Interface interface {
	// Find returns the representative of x's set. Fast also compresses
	// paths along the way; Simple does not.
	Find(x uint32) uint32
	// Unify merges the sets containing lesser and greater, always leaving
	// the numerically larger id as the representative — the tree of
	// junction ids only ever grows upward toward later-eliminated
	// vertices, so callers can rely on representative >= every member.
	// It returns the previous representative of lesser's set, the value
	// callers use to detect whether a union actually happened.
	Unify(lesser, greater uint32) uint32
	// Len reports how many elements are tracked.
	Len() int
}

// Fast is a rank-weighted, path-compressing union-find, the default used
// throughout jnode.JNodeTable.
type Fast struct {
	parent []uint32
	rank   []uint8
}

// NewFast returns a Fast union-find over n singleton elements {0, ..., n-1},
// each its own representative.
func NewFast(n int) *Fast {
	uf := &Fast{parent: make([]uint32, n), rank: make([]uint8, n)}
	for i := range uf.parent {
		uf.parent[i] = uint32(i)
	}
	return uf
}

// NewFastFromPrefix builds a Fast union-find over the first n elements of
// other, copying only that prefix. This is the partial-copy constructor the
// original uses when a tree is being extended from a previously built
// prefix (e.g. reopening a partially built sequence).
func NewFastFromPrefix(other *Fast, n int) *Fast {
	uf := &Fast{parent: make([]uint32, n), rank: make([]uint8, n)}
	copy(uf.parent, other.parent[:n])
	copy(uf.rank, other.rank[:n])
	return uf
}

func (uf *Fast) Len() int { return len(uf.parent) }

func (uf *Fast) Find(x uint32) uint32 {
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[x] != root {
		uf.parent[x], x = root, uf.parent[x]
	}
	return root
}

// Unify merges the sets of lesser and greater. The representative is
// always the larger of the two roots, not the rank-preferred one: this is
// the one place Fast departs from textbook union-by-rank, because the
// junction tree relies on "representative id is always >= member ids" to
// know a vertex's jnid without a second lookup.
func (uf *Fast) Unify(lesser, greater uint32) uint32 {
	lroot, groot := uf.Find(lesser), uf.Find(greater)
	if lroot == groot {
		return lroot
	}
	hi, lo := groot, lroot
	if lroot > groot {
		hi, lo = lroot, groot
	}
	if uf.rank[lo] > uf.rank[hi] {
		// Keep the larger id as root even when its rank is smaller: union
		// the lower-rank-but-larger-id tree onto it as a child instead of
		// swapping roots, so the numeric-max invariant never breaks.
		uf.parent[hi] = hi
	}
	uf.parent[lo] = hi
	if uf.rank[lo] == uf.rank[hi] {
		uf.rank[hi]++
	}
	return lroot
}

// Simple is a parent-pointer-only union-find with no rank balancing. It
// trades worst-case find performance for the ability to Revoke the most
// recent union, which Fast cannot support once path compression has run.
// The original marks this variant unused by the fast build path but keeps
// it available; this port does the same.
type Simple struct {
	parent  []uint32
	history []uint32 // parent[history[i]] before the i-th Unify, for Revoke
	order   []uint32 // the element whose parent changed, parallel to history
}

// NewSimple returns a Simple union-find over n singleton elements.
func NewSimple(n int) *Simple {
	s := &Simple{parent: make([]uint32, n)}
	for i := range s.parent {
		s.parent[i] = uint32(i)
	}
	return s
}

func (s *Simple) Len() int { return len(s.parent) }

func (s *Simple) Find(x uint32) uint32 {
	for s.parent[x] != x {
		x = s.parent[x]
	}
	return x
}

func (s *Simple) Unify(lesser, greater uint32) uint32 {
	lroot, groot := s.Find(lesser), s.Find(greater)
	if lroot == groot {
		return lroot
	}
	hi, lo := groot, lroot
	if lroot > groot {
		hi, lo = lroot, groot
	}
	s.history = append(s.history, s.parent[lo])
	s.order = append(s.order, lo)
	s.parent[lo] = hi
	return lroot
}

// Revoke undoes the most recent Unify call that merged two sets and
// reports true, or reports false when there is none left to undo.
func (s *Simple) Revoke() bool {
	n := len(s.order)
	if n == 0 {
		return false
	}
	elem := s.order[n-1]
	prev := s.history[n-1]
	s.parent[elem] = prev
	s.order = s.order[:n-1]
	s.history = s.history[:n-1]
	return true
}
