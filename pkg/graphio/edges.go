// Package graphio implements every on-disk format this module reads or
// writes: binary and text edge lists, sequence files, tree files, and
// partition files, plus the isomorphic/partitioned graph writers.
// Grounded on original_source/lib/readerwriter.h and sequence.h.
package graphio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gilchrisn/jtree-partition/pkg/jerr"
	"github.com/gilchrisn/jtree-partition/pkg/types"
)

// Edge is one graph edge, tail -> head, with an optional weight (defaults
// to 1 when a format doesn't carry one).
type Edge struct {
	Tail, Head types.Vid
	Weight     float32
}

// binaryEdgeSize is the fixed record size of the "xs1-like" binary edge
// format: u32 tail, u32 head, f32 weight, little-endian, matching
// original_source/lib/readerwriter.h's xs1 struct exactly.
const binaryEdgeSize = 12

// ReadBinaryEdges reads a stream of fixed-width binary edge records.
func ReadBinaryEdges(r io.Reader) ([]Edge, error) {
	br := bufio.NewReader(r)
	var edges []Edge
	buf := make([]byte, binaryEdgeSize)
	for {
		_, err := io.ReadFull(br, buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("graphio: reading binary edge: %w", jerr.Io)
		}
		edges = append(edges, Edge{
			Tail:   binary.LittleEndian.Uint32(buf[0:4]),
			Head:   binary.LittleEndian.Uint32(buf[4:8]),
			Weight: float32FromBits(binary.LittleEndian.Uint32(buf[8:12])),
		})
	}
	return edges, nil
}

// WriteBinaryEdges writes edges in the fixed-width binary format.
func WriteBinaryEdges(w io.Writer, edges []Edge) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, binaryEdgeSize)
	for _, e := range edges {
		binary.LittleEndian.PutUint32(buf[0:4], e.Tail)
		binary.LittleEndian.PutUint32(buf[4:8], e.Head)
		binary.LittleEndian.PutUint32(buf[8:12], bitsFromFloat32(e.Weight))
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("graphio: writing binary edge: %w", jerr.Io)
		}
	}
	return bw.Flush()
}

// ReadTextEdges reads an adjacency/edge-list text file, one edge per line,
// "tail head [weight]" whitespace separated, matching
// original_source/lib/readerwriter.h's SNAPReader text convention.
func ReadTextEdges(r io.Reader) ([]Edge, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var edges []Edge
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("graphio: malformed edge line %q: %w", line, jerr.Usage)
		}
		tail, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("graphio: bad tail %q: %w", fields[0], jerr.Usage)
		}
		head, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("graphio: bad head %q: %w", fields[1], jerr.Usage)
		}
		weight := float32(1)
		if len(fields) >= 3 {
			w, err := strconv.ParseFloat(fields[2], 32)
			if err != nil {
				return nil, fmt.Errorf("graphio: bad weight %q: %w", fields[2], jerr.Usage)
			}
			weight = float32(w)
		}
		edges = append(edges, Edge{Tail: types.Vid(tail), Head: types.Vid(head), Weight: weight})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("graphio: scanning edges: %w", jerr.Io)
	}
	return edges, nil
}

// WriteTextEdges writes edges as "tail head weight" lines.
func WriteTextEdges(w io.Writer, edges []Edge) error {
	bw := bufio.NewWriter(w)
	for _, e := range edges {
		if _, err := fmt.Fprintf(bw, "%d %d %g\n", e.Tail, e.Head, e.Weight); err != nil {
			return fmt.Errorf("graphio: writing text edge: %w", jerr.Io)
		}
	}
	return bw.Flush()
}

// CountVerticesAndEdges does a single scan over a text edge file to
// discover its vertex and edge counts, without building any graph
// structure. This is the fix for the Fennel file-scan variant's hardcoded
// dataset constants (spec's Open Question on that code path): rather than
// compiling in one dataset's sizes, partition.Fennel's file-driven entry
// point calls this once up front, the same single-scan-discovery shape
// original_source/lib/sequence.h's fileSequence already uses for the
// degree-sequence producer.
func CountVerticesAndEdges(r io.Reader) (numVertices, numEdges int, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var maxVid types.Vid
	seen := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, 0, fmt.Errorf("graphio: malformed edge line %q: %w", line, jerr.Usage)
		}
		tail, e1 := strconv.ParseUint(fields[0], 10, 32)
		head, e2 := strconv.ParseUint(fields[1], 10, 32)
		if e1 != nil || e2 != nil {
			return 0, 0, fmt.Errorf("graphio: malformed edge line %q: %w", line, jerr.Usage)
		}
		if v := types.Vid(tail); !seen || v > maxVid {
			maxVid = v
		}
		if v := types.Vid(head); v > maxVid {
			maxVid = v
		}
		seen = true
		numEdges++
	}
	if err := sc.Err(); err != nil {
		return 0, 0, fmt.Errorf("graphio: scanning edges: %w", jerr.Io)
	}
	if seen {
		numVertices = int(maxVid) + 1
	}
	return numVertices, numEdges, nil
}

func float32FromBits(bits uint32) float32 {
	return math.Float32frombits(bits)
}

func bitsFromFloat32(f float32) uint32 {
	return math.Float32bits(f)
}
