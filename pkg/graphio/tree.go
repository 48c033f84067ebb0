package graphio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gilchrisn/jtree-partition/pkg/jerr"
	"github.com/gilchrisn/jtree-partition/pkg/jnode"
)

// SaveTree writes a plain (non-memory-mapped) tree file: a little-endian
// u32 node count followed by that many fixed 12-byte Node records. This is
// the format jnode.Table.Nodes() round-trips through; jnode's own
// NewMapped/OpenMapped constructors use the same record layout directly on
// a memory-mapped file instead of going through this writer.
func SaveTree(w io.Writer, t *jnode.Table) error {
	nodes := t.Nodes()
	if err := binary.Write(w, binary.LittleEndian, uint32(len(nodes))); err != nil {
		return fmt.Errorf("graphio: writing tree header: %w", jerr.Io)
	}
	buf := make([]byte, 12)
	for _, n := range nodes {
		binary.LittleEndian.PutUint32(buf[0:4], n.Parent)
		binary.LittleEndian.PutUint32(buf[4:8], n.PostWeight)
		binary.LittleEndian.PutUint32(buf[8:12], n.PreWeight)
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("graphio: writing tree node: %w", jerr.Io)
		}
	}
	return nil
}

// LoadTree reads a tree file written by SaveTree and returns an allocated
// table over its records. Kids/pst/jxn are not persisted; call MakeKids on
// the result if needed, the "lazy kids-table rebuild on open" spec.md's
// tree-file section describes.
func LoadTree(r io.Reader, opts jnode.Options) (*jnode.Table, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("graphio: reading tree header: %w", jerr.Io)
	}
	nodes := make([]jnode.Node, count)
	buf := make([]byte, 12)
	for i := range nodes {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("graphio: reading tree node %d: %w", i, jerr.Io)
		}
		nodes[i] = jnode.Node{
			Parent:     binary.LittleEndian.Uint32(buf[0:4]),
			PostWeight: binary.LittleEndian.Uint32(buf[4:8]),
			PreWeight:  binary.LittleEndian.Uint32(buf[8:12]),
		}
	}
	return jnode.FromNodes(nodes, opts), nil
}
