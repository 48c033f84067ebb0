package graphio

import (
	"bytes"
	"testing"

	"github.com/gilchrisn/jtree-partition/pkg/jnode"
	"github.com/gilchrisn/jtree-partition/pkg/types"
)

func TestBinaryEdgeRoundTrip(t *testing.T) {
	edges := []Edge{{Tail: 1, Head: 2, Weight: 1.5}, {Tail: 3, Head: 4, Weight: 2}}
	var buf bytes.Buffer
	if err := WriteBinaryEdges(&buf, edges); err != nil {
		t.Fatalf("WriteBinaryEdges: %v", err)
	}
	got, err := ReadBinaryEdges(&buf)
	if err != nil {
		t.Fatalf("ReadBinaryEdges: %v", err)
	}
	if len(got) != len(edges) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(edges))
	}
	for i := range edges {
		if got[i] != edges[i] {
			t.Fatalf("edge %d = %+v, want %+v", i, got[i], edges[i])
		}
	}
}

func TestTextEdgeRoundTrip(t *testing.T) {
	edges := []Edge{{Tail: 0, Head: 1, Weight: 1}, {Tail: 1, Head: 2, Weight: 1}}
	var buf bytes.Buffer
	if err := WriteTextEdges(&buf, edges); err != nil {
		t.Fatalf("WriteTextEdges: %v", err)
	}
	got, err := ReadTextEdges(&buf)
	if err != nil {
		t.Fatalf("ReadTextEdges: %v", err)
	}
	if len(got) != 2 || got[0].Tail != 0 || got[1].Head != 2 {
		t.Fatalf("got = %+v", got)
	}
}

func TestCountVerticesAndEdges(t *testing.T) {
	data := "0 1\n1 2\n2 3\n"
	v, e, err := CountVerticesAndEdges(bytes.NewBufferString(data))
	if err != nil {
		t.Fatalf("CountVerticesAndEdges: %v", err)
	}
	if v != 4 || e != 3 {
		t.Fatalf("v=%d e=%d, want 4 3", v, e)
	}
}

func TestSequenceRoundTrip(t *testing.T) {
	seq := []types.Vid{3, 1, 4, 1, 5}
	var buf bytes.Buffer
	if err := WriteBinarySequence(&buf, seq); err != nil {
		t.Fatalf("WriteBinarySequence: %v", err)
	}
	got, err := ReadBinarySequence(&buf)
	if err != nil {
		t.Fatalf("ReadBinarySequence: %v", err)
	}
	if len(got) != len(seq) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(seq))
	}
	for i := range seq {
		if got[i] != seq[i] {
			t.Fatalf("got[%d] = %d, want %d", i, got[i], seq[i])
		}
	}

	var tbuf bytes.Buffer
	if err := WriteTextSequence(&tbuf, seq); err != nil {
		t.Fatalf("WriteTextSequence: %v", err)
	}
	tgot, err := ReadTextSequence(&tbuf)
	if err != nil {
		t.Fatalf("ReadTextSequence: %v", err)
	}
	if len(tgot) != len(seq) {
		t.Fatalf("len(tgot) = %d, want %d", len(tgot), len(seq))
	}
}

func TestTreeRoundTrip(t *testing.T) {
	tab := jnode.NewAllocated(2, jnode.Options{})
	tab.NewNode()
	tab.NewNode()
	tab.Adopt(1, 0)
	tab.AddPostWeight(1, 5)

	var buf bytes.Buffer
	if err := SaveTree(&buf, tab); err != nil {
		t.Fatalf("SaveTree: %v", err)
	}
	loaded, err := LoadTree(&buf, jnode.Options{})
	if err != nil {
		t.Fatalf("LoadTree: %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", loaded.Len())
	}
	if loaded.Parent(0) != 1 || loaded.PostWeight(1) != 5 {
		t.Fatalf("loaded tree mismatch: parent(0)=%d postWeight(1)=%d", loaded.Parent(0), loaded.PostWeight(1))
	}
}

func TestPartitionedFilenameZeroPadded(t *testing.T) {
	got := PartitionedFilename("out", 3, 16)
	if got != "out.0003" {
		t.Fatalf("PartitionedFilename = %q, want out.0003", got)
	}
}

func TestWritePartitionedGraph(t *testing.T) {
	dir := t.TempDir()
	edges := []Edge{{Tail: 0, Head: 1}, {Tail: 1, Head: 2}, {Tail: 2, Head: 3}}
	partOf := func(v types.Vid) types.Part { return types.Part(v % 2) }
	rank := func(v types.Vid) int { return int(v) }
	assign := AssignByEarlierEliminated(partOf, rank)
	if err := WritePartitionedGraph(dir+"/base", edges, assign, 2); err != nil {
		t.Fatalf("WritePartitionedGraph: %v", err)
	}
}
