// Command degree-sequence reads a graph file and writes the vertices in
// ascending-degree order, the default elimination ordering heuristic.
// Grounded on original_source/bin/degree_sequence.cpp.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gilchrisn/jtree-partition/pkg/graph"
	"github.com/gilchrisn/jtree-partition/pkg/graphio"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <graph-file> <output-sequence-file>\n", os.Args[0])
	}
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(1)
	}

	gf, err := os.Open(args[0])
	if err != nil {
		log.Fatalf("degree-sequence: opening graph file: %v", err)
	}
	defer gf.Close()

	seq, err := graph.FileSequence(gf)
	if err != nil {
		log.Fatalf("degree-sequence: %v", err)
	}

	of, err := os.Create(args[1])
	if err != nil {
		log.Fatalf("degree-sequence: creating output file: %v", err)
	}
	defer of.Close()
	if err := graphio.WriteTextSequence(of, seq); err != nil {
		log.Fatalf("degree-sequence: writing sequence file: %v", err)
	}
}
