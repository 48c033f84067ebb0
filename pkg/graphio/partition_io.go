package graphio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/gilchrisn/jtree-partition/pkg/jerr"
	"github.com/gilchrisn/jtree-partition/pkg/types"
)

// ReadPartitionFile reads one part id per line, the text partition-file
// format original_source/lib/partition.cpp's readPartition consumes.
func ReadPartitionFile(r io.Reader) ([]types.Part, error) {
	sc := bufio.NewScanner(r)
	var parts []types.Part
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		p, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("graphio: bad partition entry %q: %w", line, jerr.Usage)
		}
		parts = append(parts, types.Part(p))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("graphio: scanning partition file: %w", jerr.Io)
	}
	return parts, nil
}

// WritePartitionFile writes one part id per line.
func WritePartitionFile(w io.Writer, parts []types.Part) error {
	bw := bufio.NewWriter(w)
	for _, p := range parts {
		if _, err := fmt.Fprintln(bw, p); err != nil {
			return fmt.Errorf("graphio: writing partition file: %w", jerr.Io)
		}
	}
	return bw.Flush()
}

// PartitionedFilename builds the per-part edge file name for part p of
// numParts, base.0000, base.0001, and so on. The original's
// writePartitionedGraph zero-pads to 2 digits (%02d); spec.md's documented
// external interface explicitly calls for 4-digit zero-padding instead, so
// this module follows spec.md where the two disagree.
func PartitionedFilename(base string, p, numParts int) string {
	width := 4
	return fmt.Sprintf("%s.%0*d", base, width, p)
}

// WriteIsomorphicGraph writes edges reordered by the part of their tail
// vertex, tie-broken by elimination rank, into a single output stream —
// the "isomorphic write" described in spec.md §6: the graph is rewritten
// in an order isomorphic to the partition/elimination structure, but
// still as one file with every edge present exactly once.
func WriteIsomorphicGraph(w io.Writer, edges []Edge, partOf func(types.Vid) types.Part, rank func(types.Vid) int) error {
	sorted := append([]Edge(nil), edges...)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := partOf(sorted[i].Tail), partOf(sorted[j].Tail)
		if pi != pj {
			return pi < pj
		}
		return rank(sorted[i].Tail) < rank(sorted[j].Tail)
	})
	return WriteTextEdges(w, sorted)
}

// AssignByEarlierEliminated returns an edge->part assignment function that
// gives each edge to the part of whichever endpoint has the smaller
// elimination rank (was eliminated earlier), the rule spec.md's
// partitioned-write section specifies.
func AssignByEarlierEliminated(partOf func(types.Vid) types.Part, rank func(types.Vid) int) func(Edge) types.Part {
	return func(e Edge) types.Part {
		if rank(e.Tail) <= rank(e.Head) {
			return partOf(e.Tail)
		}
		return partOf(e.Head)
	}
}

// WritePartitionedGraph splits edges into numParts files named
// PartitionedFilename(baseFilename, p, numParts), each containing only the
// edges assign routes to that part.
func WritePartitionedGraph(baseFilename string, edges []Edge, assign func(Edge) types.Part, numParts int) error {
	files := make([]*os.File, numParts)
	writers := make([]*bufio.Writer, numParts)
	defer func() {
		for _, f := range files {
			if f != nil {
				f.Close()
			}
		}
	}()
	for p := 0; p < numParts; p++ {
		f, err := os.Create(PartitionedFilename(baseFilename, p, numParts))
		if err != nil {
			return fmt.Errorf("graphio: creating partition file %d: %w", p, jerr.Io)
		}
		files[p] = f
		writers[p] = bufio.NewWriter(f)
	}
	for _, e := range edges {
		p := int(assign(e))
		if p < 0 || p >= numParts {
			return fmt.Errorf("graphio: edge assigned to out-of-range part %d: %w", p, jerr.Invariant)
		}
		if _, err := fmt.Fprintf(writers[p], "%d %d %g\n", e.Tail, e.Head, e.Weight); err != nil {
			return fmt.Errorf("graphio: writing partition file %d: %w", p, jerr.Io)
		}
	}
	for p, bw := range writers {
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("graphio: flushing partition file %d: %w", p, jerr.Io)
		}
	}
	return nil
}
