package jtree

import (
	"math"

	"github.com/gilchrisn/jtree-partition/pkg/jerr"
)

// Options controls what a Tree builds and how aggressively it bounds
// itself. Defaults mirror original_source/lib/jtree.h's Options()
// constructor: MakePad on, everything else off, an effectively unbounded
// memory budget, and no width limit.
type Options struct {
	MakeKids bool
	MakePst  bool
	MakeJxn  bool
	MakePre  bool
	// MakePad, when set, still emits a tree node for a vertex with zero
	// degree (one absent from the graph's edge list entirely), keeping the
	// tree 1-to-1 with the insertion sequence. When clear, such a vertex is
	// skipped outright: Insert returns successfully without creating a
	// node or assigning it a jnid.
	MakePad bool

	// WidthLimit bounds how large a single node's postorder separator may
	// grow before Insert defers that vertex instead of committing it (see
	// Tree.Insert's wide-vertex handling). math.MaxUint32 means unlimited.
	WidthLimit uint32
	// MemoryLimit bounds the total bytes the kids/pst/jxn companion arenas
	// may consume combined (passed straight through as jnode.Options.
	// ByteBudget), matching the original's shared byte-budget check on the
	// backing arena. Zero means unlimited.
	MemoryLimit uint64
}

// DefaultOptions returns the original library's defaults.
func DefaultOptions() Options {
	return Options{
		MakePad:     true,
		WidthLimit:  math.MaxUint32,
		MemoryLimit: 1 << 30,
	}
}

// IsDefault reports whether o equals DefaultOptions().
func (o Options) IsDefault() bool { return o == DefaultOptions() }

// IsValid checks the dependency constraints between the companion tables:
// MakeJxn requires MakeKids and MakePst, since a node's junction set is
// derived from its own postorder set plus (when rebuilding or validating)
// its kids' structure.
func (o Options) IsValid() error {
	if o.MakeJxn && !(o.MakeKids && o.MakePst) {
		return jerr.Usage
	}
	return nil
}
