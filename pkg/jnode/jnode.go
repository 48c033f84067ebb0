// Package jnode implements JNodeTable, the packed table of junction-tree
// nodes: one Node record per jnid plus, optionally, three companion packed
// tables (kids, postorder neighbor set, junction set). Grounded on
// original_source/lib/jnode.h.
package jnode

import (
	"sort"

	"github.com/gilchrisn/jtree-partition/pkg/jerr"
	"github.com/gilchrisn/jtree-partition/pkg/merge"
	"github.com/gilchrisn/jtree-partition/pkg/packed"
	"github.com/gilchrisn/jtree-partition/pkg/types"
)

// Options controls which companion tables a JNodeTable maintains. Turning
// one off saves the memory and time of building it when a caller only
// needs a subset (e.g. cmd/merge-trees loads its inputs with only MakePre).
type Options struct {
	MakeKids bool
	MakePst  bool
	MakeJxn  bool
	MakePre  bool

	// ByteBudget caps the total bytes the kids/pst/jxn companion arenas may
	// consume combined, charged per element at 4 bytes (one types.Jnid or
	// types.Vid) as rows are written. Zero means unlimited. Exceeding it
	// fails the write in progress with jerr.OutOfMemory rather than growing
	// past the budget.
	ByteBudget uint64
}

// Table is the packed table of junction-tree nodes.
type Table struct {
	opts Options

	back      backing
	hasChild  []bool // true once some other node has Adopt-ed this one as parent; blocks DeleteLast
	kids      *packed.Table[types.Jnid]
	kidsRow   []packed.RowID
	pst       *packed.Table[types.Vid]
	pstRow    []packed.RowID
	jxn       *packed.Table[types.Vid]
	jxnRow    []packed.RowID
	kidsStale bool // set whenever Adopt/AdoptKids runs after the last MakeKids

	byteBudget uint64 // 0 = unlimited, from Options.ByteBudget
	bytesUsed  uint64
}

const elementSize = 4 // one types.Jnid or types.Vid

// chargeBytes charges n elements against the shared kids/pst/jxn byte
// budget, failing with jerr.OutOfMemory (and charging nothing) if that
// would exceed it. Called before writing a row so a rejected charge never
// leaves a partial row behind.
func (t *Table) chargeBytes(n int) error {
	if t.byteBudget == 0 {
		return nil
	}
	cost := uint64(n) * elementSize
	if t.bytesUsed+cost > t.byteBudget {
		return jerr.OutOfMemory
	}
	t.bytesUsed += cost
	return nil
}

// NewAllocated returns a heap-backed table with capacityHint pre-reserved
// slots.
func NewAllocated(capacityHint int, opts Options) *Table {
	return newTable(newAllocatedBacking(capacityHint), opts)
}

// NewMapped creates a new memory-mapped tree file at path.
func NewMapped(path string, capacityHint int, opts Options) (*Table, error) {
	b, err := newMappedBacking(path, capacityHint)
	if err != nil {
		return nil, err
	}
	return newTable(b, opts), nil
}

// OpenMapped reopens a tree file previously written by NewMapped. The
// companion tables are not persisted, so they start out empty; callers
// that need them must call MakeKids (and, for pst/jxn, rebuild from the
// original graph) after opening, the "lazy kids-table rebuild on open"
// spec.md's tree file section calls for.
func OpenMapped(path string) (*Table, error) {
	b, err := openMappedBacking(path)
	if err != nil {
		return nil, err
	}
	t := newTable(b, Options{})
	t.hasChild = make([]bool, b.Len())
	for i := 0; i < b.Len(); i++ {
		if p := b.Get(i).Parent; p != types.NoJnid {
			t.hasChild[p] = true
		}
	}
	return t, nil
}

// NewBorrowed wraps nodes, which this table does not own: Close never
// frees it. Nothing in this module constructs one; ReduceAll and Merge
// take ordinary tables.
func NewBorrowed(nodes []Node) *Table {
	return newTable(newBorrowedBacking(nodes), Options{})
}

func newTable(b backing, opts Options) *Table {
	t := &Table{back: b, opts: opts, byteBudget: opts.ByteBudget}
	if opts.MakeKids {
		t.kids = packed.New[types.Jnid]()
	}
	if opts.MakePst {
		t.pst = packed.New[types.Vid]()
	}
	if opts.MakeJxn {
		t.jxn = packed.New[types.Vid]()
	}
	return t
}

// Len returns the number of nodes currently in the table.
func (t *Table) Len() int { return t.back.Len() }

// Close releases any OS resources (a memory-mapped file's mapping and
// descriptor). It is always safe to call, including on allocated and
// borrowed tables, where it is a no-op.
func (t *Table) Close() error { return t.back.Close() }

// Node returns the fixed record for jnid i.
func (t *Table) Node(i types.Jnid) Node { return t.back.Get(int(i)) }

// Parent returns i's parent, or types.NoJnid if i is a root.
func (t *Table) Parent(i types.Jnid) types.Jnid { return t.back.Get(int(i)).Parent }

// PostWeight returns i's accumulated postorder weight.
func (t *Table) PostWeight(i types.Jnid) uint32 { return t.back.Get(int(i)).PostWeight }

// PreWeight returns i's accumulated preorder weight.
func (t *Table) PreWeight(i types.Jnid) uint32 { return t.back.Get(int(i)).PreWeight }

// NewNode appends a fresh node with no parent and zero weights, and,
// for any companion table this Table maintains, an empty (sentinel-
// aliased) row. It returns the new node's jnid.
func (t *Table) NewNode() (types.Jnid, error) {
	id := types.Jnid(t.back.Len())
	t.back.Append(Node{Parent: types.NoJnid})
	t.hasChild = append(t.hasChild, false)
	if t.kids != nil {
		row, err := t.kids.Append(0, false)
		if err != nil {
			return 0, err
		}
		t.kidsRow = append(t.kidsRow, row)
	}
	if t.pst != nil {
		row, err := t.pst.Append(0, false)
		if err != nil {
			return 0, err
		}
		t.pstRow = append(t.pstRow, row)
	}
	if t.jxn != nil {
		row, err := t.jxn.Append(0, false)
		if err != nil {
			return 0, err
		}
		t.jxnRow = append(t.jxnRow, row)
	}
	return id, nil
}

// DeleteLast removes the most recently created node. It is irrevocable to
// call this once some other node has already been adopted as its child:
// that would leave a dangling parent pointer, so it returns jerr.Invariant
// instead.
func (t *Table) DeleteLast() error {
	n := t.back.Len()
	if n == 0 {
		return jerr.Invariant
	}
	last := n - 1
	if t.hasChild[last] {
		return jerr.Invariant
	}
	t.back.Truncate(last)
	t.hasChild = t.hasChild[:last]
	if t.kids != nil {
		t.kids.DeleteLast()
		t.kidsRow = t.kidsRow[:last]
	}
	if t.pst != nil {
		t.pst.DeleteLast()
		t.pstRow = t.pstRow[:last]
	}
	if t.jxn != nil {
		t.jxn.DeleteLast()
		t.jxnRow = t.jxnRow[:last]
	}
	return nil
}

// Adopt makes kid a child of parent: it sets kid's Parent field and, if
// this table maintains a kids companion table, marks it stale (MakeKids
// must run again before Kids(parent) reflects this adoption). Adopt is the
// operation a preorder edge triggers the first time it links into a new
// parent node.
func (t *Table) Adopt(parent, kid types.Jnid) error {
	if int(parent) >= t.back.Len() || int(kid) >= t.back.Len() {
		return jerr.Invariant
	}
	n := t.back.Get(int(kid))
	n.Parent = parent
	t.back.Set(int(kid), n)
	t.hasChild[parent] = true
	t.kidsStale = true
	return nil
}

// MeetKid records a repeat encounter between parent and a kid that was
// already adopted earlier in the same vertex's insertion (two preorder
// edges from the vertex being eliminated that both lead into the same
// already-merged component). If kid has no parent yet it is adopted under
// parent; otherwise MeetKid only checks that the existing parent pointer
// is parent, returning jerr.Invariant if it is not.
func (t *Table) MeetKid(parent, kid types.Jnid) error {
	existing := t.Parent(kid)
	if existing == types.NoJnid {
		return t.Adopt(parent, kid)
	}
	if existing != parent {
		return jerr.Invariant
	}
	return nil
}

// AdoptKids adopts every id in kids under parent.
func (t *Table) AdoptKids(parent types.Jnid, kids []types.Jnid) error {
	for _, k := range kids {
		if err := t.Adopt(parent, k); err != nil {
			return err
		}
	}
	return nil
}

// AddPostWeight accumulates delta onto i's postorder weight.
func (t *Table) AddPostWeight(i types.Jnid, delta uint32) {
	n := t.back.Get(int(i))
	n.PostWeight += delta
	t.back.Set(int(i), n)
}

// AddPreWeight accumulates delta onto i's preorder weight. It is a
// jerr.Invariant error to call this on a table that doesn't track
// pre-weights.
func (t *Table) AddPreWeight(i types.Jnid, delta uint32) error {
	if !t.opts.MakePre {
		return jerr.Invariant
	}
	n := t.back.Get(int(i))
	n.PreWeight += delta
	t.back.Set(int(i), n)
	return nil
}

// SetPreWeight overwrites i's preorder weight directly, used by the
// trivial-coalesce chain (see jtree.DoRooting) which derives a chain
// link's pre-weight from its predecessor rather than accumulating it
// incrementally.
func (t *Table) SetPreWeight(i types.Jnid, v uint32) error {
	if !t.opts.MakePre {
		return jerr.Invariant
	}
	n := t.back.Get(int(i))
	n.PreWeight = v
	t.back.Set(int(i), n)
	return nil
}

// Kids returns the adopted children of parent. MakeKids must have run
// since the last Adopt call, or this panics with a descriptive string
// message — callers that insert incrementally should call
// MakeKids once after the whole tree is built, not per vertex.
func (t *Table) Kids(parent types.Jnid) []types.Jnid {
	if t.kids == nil {
		return nil
	}
	if t.kidsStale {
		panic("jnode: Kids read before MakeKids rebuilt the table")
	}
	return t.kids.Get(t.kidsRow[parent])
}

// MakeKids rebuilds the kids companion table from the current Parent
// pointers in two passes: first bucket each node's children into a
// temporary adjacency list (one scan over all nodes), then write those
// buckets into the packed table in ascending node order, which keeps every
// packed.Table.Append call operating on what is, at the moment it runs,
// the table's last row.
func (t *Table) MakeKids() error {
	if t.kids == nil {
		t.kids = packed.New[types.Jnid]()
	}
	n := t.back.Len()
	buckets := make([][]types.Jnid, n)
	for i := 0; i < n; i++ {
		if p := t.back.Get(i).Parent; p != types.NoJnid {
			buckets[p] = append(buckets[p], types.Jnid(i))
		}
	}
	t.kids = packed.New[types.Jnid]()
	t.kidsRow = make([]packed.RowID, n)
	for i := 0; i < n; i++ {
		if err := t.chargeBytes(len(buckets[i])); err != nil {
			return err
		}
		row, err := t.kids.Append(len(buckets[i]), true)
		if err != nil {
			return err
		}
		for _, k := range buckets[i] {
			if err := t.kids.PushBack(row, k); err != nil {
				return err
			}
		}
		t.kidsRow[i] = row
	}
	t.kidsStale = false
	t.opts.MakeKids = true
	return nil
}

// NewUnion merges ranges (a vertex's postorder neighbor sets drawn from
// its already-processed kids, plus possibly its own direct postorder
// edges) into parent's pst row, excluding excludeVid (the vertex being
// eliminated, which must not appear in its own neighbor set) and failing
// with jerr.BudgetExceeded if the merged set would exceed budget elements.
func (t *Table) NewUnion(parent types.Jnid, ranges []merge.Range, excludeVid types.Vid, budget int) error {
	if t.pst == nil {
		return jerr.Invariant
	}
	out, err := merge.Merge(ranges, excludeVid, budget)
	if err != nil {
		return err
	}
	return t.setPst(parent, out)
}

func (t *Table) setPst(id types.Jnid, values []types.Vid) error {
	if err := t.chargeBytes(len(values)); err != nil {
		return err
	}
	row, err := t.pst.Append(len(values), true)
	if err != nil {
		return err
	}
	for _, v := range values {
		if err := t.pst.PushBack(row, v); err != nil {
			return err
		}
	}
	t.pstRow[id] = row
	return nil
}

// Pst returns the postorder neighbor set of id.
func (t *Table) Pst(id types.Jnid) []types.Vid {
	if t.pst == nil {
		return nil
	}
	return t.pst.Get(t.pstRow[id])
}

// SetJxn writes id's junction (clique) set directly, used once a node's
// jxn is fully known (its separator, which never holds its own vertex, or, in the
// trivial-coalesce chain, a direct copy of the predecessor's jxn minus one
// vertex).
func (t *Table) SetJxn(id types.Jnid, values []types.Vid) error {
	if t.jxn == nil {
		return jerr.Invariant
	}
	if err := t.chargeBytes(len(values)); err != nil {
		return err
	}
	row, err := t.jxn.Append(len(values), true)
	if err != nil {
		return err
	}
	for _, v := range values {
		if err := t.jxn.PushBack(row, v); err != nil {
			return err
		}
	}
	t.jxnRow[id] = row
	return nil
}

// Jxn returns the junction (clique) set of id.
func (t *Table) Jxn(id types.Jnid) []types.Vid {
	if t.jxn == nil {
		return nil
	}
	return t.jxn.Get(t.jxnRow[id])
}

// CleanPst sorts, dedupes, and shrinks the most recently written pst row
// in place. It only operates on the last row, matching packed.Table's
// tail-only mutation rule; callers clean a node's pst immediately after
// NewUnion populates it, before moving on to the next vertex.
func (t *Table) CleanPst(id types.Jnid) error {
	return cleanRow(t.pst, t.pstRow[id])
}

// CleanJxn is CleanPst's analog for the jxn companion table.
func (t *Table) CleanJxn(id types.Jnid) error {
	return cleanRow(t.jxn, t.jxnRow[id])
}

func cleanRow(tab *packed.Table[types.Vid], row packed.RowID) error {
	if tab == nil {
		return jerr.Invariant
	}
	vals := tab.Get(row)
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })
	n := 0
	for i, v := range vals {
		if i == 0 || v != vals[n-1] {
			vals[n] = v
			n++
		}
	}
	return tab.TruncateLast(n)
}

// Options reports which companion tables this table maintains.
func (t *Table) Options() Options { return t.opts }

// Nodes returns a snapshot of every node record in id order. Used by
// graphio's tree-file writer, which needs the raw fixed-width records
// regardless of which backing produced them.
func (t *Table) Nodes() []Node {
	n := t.back.Len()
	out := make([]Node, n)
	for i := 0; i < n; i++ {
		out[i] = t.back.Get(i)
	}
	return out
}

// FromNodes builds a new allocated table from raw records, as read back
// from a tree file. The companion tables are not restored; call MakeKids
// if the caller needs them.
func FromNodes(nodes []Node, opts Options) *Table {
	t := newTable(newAllocatedBacking(len(nodes)), opts)
	t.hasChild = make([]bool, len(nodes))
	for _, n := range nodes {
		t.back.Append(n)
	}
	for i, n := range nodes {
		_ = i
		if n.Parent != types.NoJnid {
			t.hasChild[n.Parent] = true
		}
	}
	return t
}
