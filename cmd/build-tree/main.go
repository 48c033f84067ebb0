// Command build-tree reads a graph and an elimination sequence and builds
// the junction/elimination tree, writing it out as a tree file. Grounded
// on original_source/bin/build_tree.cpp and pipeline_output/main2.go's
// flag.Usage style.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"

	"github.com/gilchrisn/jtree-partition/pkg/graph"
	"github.com/gilchrisn/jtree-partition/pkg/graphio"
	"github.com/gilchrisn/jtree-partition/pkg/jtree"
)

// fileConfig mirrors the subset of jtree.Options a -config toml file can
// set; command-line flags always override it when both are given.
type fileConfig struct {
	WidthLimit  uint32
	MemoryLimit uint64
	MakeKids    bool
	MakePst     bool
	MakeJxn     bool
	MakePre     bool
}

func main() {
	var (
		configPath  = flag.String("config", "", "optional TOML file of default options, overridden by any flag also given")
		widthLimit  = flag.Uint("width-limit", 0, "maximum separator width before deferring a vertex (0 = unlimited)")
		memoryLimit = flag.Uint64("memory-limit", 1<<30, "shared byte budget for the kids/pst/jxn companion tables (0 = unlimited)")
		makeKids    = flag.Bool("kids", true, "build the kids companion table")
		makePst     = flag.Bool("pst", true, "build the postorder neighbor-set companion table")
		makeJxn     = flag.Bool("jxn", false, "build the junction (clique) set companion table, requires -kids and -pst")
		makePre     = flag.Bool("pre", false, "track preorder weights")
		verbose     = flag.Bool("verbose", false, "print progress and summary statistics to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <graph-file> <sequence-file> <output-tree-file>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	opts := jtree.DefaultOptions()
	opts.MakeKids, opts.MakePst = *makeKids, *makePst
	if *configPath != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(*configPath, &fc); err != nil {
			log.Fatalf("build-tree: reading config %s: %v", *configPath, err)
		}
		if fc.WidthLimit != 0 {
			opts.WidthLimit = fc.WidthLimit
		}
		if fc.MemoryLimit != 0 {
			opts.MemoryLimit = fc.MemoryLimit
		}
		opts.MakeKids, opts.MakePst, opts.MakeJxn, opts.MakePre = fc.MakeKids, fc.MakePst, fc.MakeJxn, fc.MakePre
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width-limit":
			opts.WidthLimit = uint32(*widthLimit)
		case "memory-limit":
			opts.MemoryLimit = *memoryLimit
		case "kids":
			opts.MakeKids = *makeKids
		case "pst":
			opts.MakePst = *makePst
		case "jxn":
			opts.MakeJxn = *makeJxn
		case "pre":
			opts.MakePre = *makePre
		}
	})
	if opts.WidthLimit == 0 {
		opts.WidthLimit = jtree.DefaultOptions().WidthLimit
	}
	if err := opts.IsValid(); err != nil {
		log.Fatalf("build-tree: %v", err)
	}

	args := flag.Args()
	if len(args) != 3 {
		flag.Usage()
		os.Exit(1)
	}
	graphFile, seqFile, outFile := args[0], args[1], args[2]

	gf, err := os.Open(graphFile)
	if err != nil {
		log.Fatalf("build-tree: opening graph file: %v", err)
	}
	edges, err := graphio.ReadTextEdges(gf)
	gf.Close()
	if err != nil {
		log.Fatalf("build-tree: reading graph file: %v", err)
	}
	g := graph.BuildUndirected(edges)

	sf, err := os.Open(seqFile)
	if err != nil {
		log.Fatalf("build-tree: opening sequence file: %v", err)
	}
	seq, err := graphio.ReadTextSequence(sf)
	sf.Close()
	if err != nil {
		log.Fatalf("build-tree: reading sequence file: %v", err)
	}

	tr, err := jtree.New(g.NumVertices(), opts)
	if err != nil {
		log.Fatalf("build-tree: %v", err)
	}
	if err := tr.InsertSequence(g, seq); err != nil {
		log.Fatalf("build-tree: inserting sequence: %v", err)
	}
	if len(tr.DeferredVertices()) > 0 {
		if *verbose {
			fmt.Fprintf(os.Stderr, "build-tree: %d vertices deferred past the width limit, retrying\n", len(tr.DeferredVertices()))
		}
		if err := tr.InsertSequence(g, tr.DeferredVertices()); err != nil {
			log.Fatalf("build-tree: retrying deferred vertices: %v", err)
		}
	}
	if err := tr.DoRooting(); err != nil {
		log.Fatalf("build-tree: rooting: %v", err)
	}
	if err := tr.IsValid(); err != nil {
		log.Fatalf("build-tree: built tree failed validation: %v", err)
	}

	of, err := os.Create(outFile)
	if err != nil {
		log.Fatalf("build-tree: creating output file: %v", err)
	}
	defer of.Close()
	if err := graphio.SaveTree(of, tr.Nodes()); err != nil {
		log.Fatalf("build-tree: writing tree file: %v", err)
	}

	if *verbose {
		facts := tr.Nodes().Facts()
		fmt.Fprintf(os.Stderr, "build-tree: %d vertices, %d edges, max width %d, %s written\n",
			facts.NumVertices, facts.NumEdges, facts.MaxWidth, humanize.Bytes(uint64(facts.NumVertices)*12))
	}
}
