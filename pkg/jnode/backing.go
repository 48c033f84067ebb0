package jnode

import (
	"encoding/binary"
	"os"

	"golang.org/x/sys/unix"

	"github.com/gilchrisn/jtree-partition/pkg/jerr"
	"github.com/gilchrisn/jtree-partition/pkg/types"
)

// Node is the fixed-width per-jnid record: its parent, the number of
// postorder (not-yet-eliminated, at insertion time) neighbors folded into
// it, and, when the table tracks preorder weight, the accumulated weight
// of its already-eliminated side. This is the only record that ever
// travels on the wire during a distributed reduction (see reduce.go) —
// kids/pst/jxn are always rebuilt locally afterward, never shipped.
type Node struct {
	Parent     types.Jnid
	PostWeight uint32
	PreWeight  uint32
}

const nodeRecordSize = 12 // 3 x uint32, little-endian

func encodeNode(buf []byte, n Node) {
	binary.LittleEndian.PutUint32(buf[0:4], n.Parent)
	binary.LittleEndian.PutUint32(buf[4:8], n.PostWeight)
	binary.LittleEndian.PutUint32(buf[8:12], n.PreWeight)
}

func decodeNode(buf []byte) Node {
	return Node{
		Parent:     binary.LittleEndian.Uint32(buf[0:4]),
		PostWeight: binary.LittleEndian.Uint32(buf[4:8]),
		PreWeight:  binary.LittleEndian.Uint32(buf[8:12]),
	}
}

// backing is the storage strategy for a JNodeTable's fixed-width node
// array. It mirrors the three constructors original_source/lib/jnode.h
// gives JNodeTable: a plain heap allocation, a memory-mapped file (for
// trees too large to hold comfortably, or that must persist), and a
// borrowed view over memory some other table already owns (used by the
// distributed reduction, which must not free memory it doesn't own).
type backing interface {
	Len() int
	Get(i int) Node
	Set(i int, v Node)
	Append(v Node)
	Truncate(n int)
	Close() error
}

// allocatedBacking is a plain, growable, heap-backed node array.
type allocatedBacking struct {
	nodes []Node
}

func newAllocatedBacking(capacityHint int) *allocatedBacking {
	return &allocatedBacking{nodes: make([]Node, 0, capacityHint)}
}

func (b *allocatedBacking) Len() int          { return len(b.nodes) }
func (b *allocatedBacking) Get(i int) Node    { return b.nodes[i] }
func (b *allocatedBacking) Set(i int, v Node) { b.nodes[i] = v }
func (b *allocatedBacking) Append(v Node)     { b.nodes = append(b.nodes, v) }
func (b *allocatedBacking) Truncate(n int)    { b.nodes = b.nodes[:n] }
func (b *allocatedBacking) Close() error      { return nil }

// borrowedBacking is a view over a slice this table does not own; only
// NewBorrowed creates one. Close is a no-op, matching the original's
// documented borrowed-buffer destructor.
type borrowedBacking struct {
	nodes []Node
}

func newBorrowedBacking(nodes []Node) *borrowedBacking { return &borrowedBacking{nodes: nodes} }

func (b *borrowedBacking) Len() int          { return len(b.nodes) }
func (b *borrowedBacking) Get(i int) Node    { return b.nodes[i] }
func (b *borrowedBacking) Set(i int, v Node) { b.nodes[i] = v }
func (b *borrowedBacking) Append(v Node) {
	panic("jnode: Append on a borrowed backing: borrowed tables are read-only views")
}
func (b *borrowedBacking) Truncate(n int) { b.nodes = b.nodes[:n] }
func (b *borrowedBacking) Close() error   { return nil }

// mappedBacking is a memory-mapped, file-persistent node array, used for
// trees large enough (or long-lived enough) to want OS-paged storage
// instead of a heap slice. The file's first 8 bytes hold the current
// element count so a saved tree can be reopened without a separate header
// file, matching the "leading length-field" persistent format spec.md's
// tree file section calls for.
type mappedBacking struct {
	file *os.File
	data []byte // mmap'd region; data[:8] is the length header
	cap  int    // node capacity currently mapped
	n    int    // current length
}

const mappedHeaderSize = 8

func newMappedBacking(path string, capacityHint int) (*mappedBacking, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, jerr.Io
	}
	b := &mappedBacking{file: f}
	if err := b.remap(capacityHint); err != nil {
		f.Close()
		return nil, err
	}
	binary.LittleEndian.PutUint64(b.data[:mappedHeaderSize], 0)
	return b, nil
}

func openMappedBacking(path string) (*mappedBacking, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, jerr.Io
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, jerr.Io
	}
	cap := (int(info.Size()) - mappedHeaderSize) / nodeRecordSize
	b := &mappedBacking{file: f}
	if err := b.remap(cap); err != nil {
		f.Close()
		return nil, err
	}
	b.n = int(binary.LittleEndian.Uint64(b.data[:mappedHeaderSize]))
	return b, nil
}

func (b *mappedBacking) remap(capacity int) error {
	if b.data != nil {
		if err := unix.Munmap(b.data); err != nil {
			return jerr.Io
		}
		b.data = nil
	}
	size := int64(mappedHeaderSize + capacity*nodeRecordSize)
	if err := b.file.Truncate(size); err != nil {
		return jerr.Io
	}
	data, err := unix.Mmap(int(b.file.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return jerr.Io
	}
	b.data = data
	b.cap = capacity
	return nil
}

func (b *mappedBacking) recordOffset(i int) int { return mappedHeaderSize + i*nodeRecordSize }

func (b *mappedBacking) Len() int { return b.n }

func (b *mappedBacking) Get(i int) Node {
	off := b.recordOffset(i)
	return decodeNode(b.data[off : off+nodeRecordSize])
}

func (b *mappedBacking) Set(i int, v Node) {
	off := b.recordOffset(i)
	encodeNode(b.data[off:off+nodeRecordSize], v)
}

func (b *mappedBacking) Append(v Node) {
	if b.n >= b.cap {
		newCap := b.cap*2 + 1
		if err := b.remap(newCap); err != nil {
			panic(err)
		}
	}
	b.Set(b.n, v)
	b.n++
	binary.LittleEndian.PutUint64(b.data[:mappedHeaderSize], uint64(b.n))
}

func (b *mappedBacking) Truncate(n int) {
	b.n = n
	binary.LittleEndian.PutUint64(b.data[:mappedHeaderSize], uint64(b.n))
}

func (b *mappedBacking) Close() error {
	if b.data != nil {
		unix.Munmap(b.data)
		b.data = nil
	}
	return b.file.Close()
}
