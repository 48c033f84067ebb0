// Command merge-trees reads two or more tree files produced by build-tree
// and reduces them into one, using jnode.ReduceAll's balanced binary-tree
// reduction. Grounded on original_source/bin/merge_trees.cpp.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/gilchrisn/jtree-partition/pkg/graphio"
	"github.com/gilchrisn/jtree-partition/pkg/jnode"
)

func main() {
	var (
		output  = flag.String("output", "", "output tree file (required)")
		makeKids = flag.Bool("kids", true, "rebuild the kids companion table on the merged result")
		verbose = flag.Bool("verbose", false, "print progress to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <tree-file> <tree-file> [tree-file ...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if *output == "" || len(args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	var tables []*jnode.Table
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			log.Fatalf("merge-trees: opening %s: %v", path, err)
		}
		t, err := graphio.LoadTree(f, jnode.Options{MakePre: true})
		f.Close()
		if err != nil {
			log.Fatalf("merge-trees: loading %s: %v", path, err)
		}
		tables = append(tables, t)
		if *verbose {
			fmt.Fprintf(os.Stderr, "merge-trees: loaded %s (%d nodes)\n", path, t.Len())
		}
	}

	merged, err := jnode.ReduceAll(context.Background(), tables, *makeKids)
	if err != nil {
		log.Fatalf("merge-trees: reducing: %v", err)
	}

	of, err := os.Create(*output)
	if err != nil {
		log.Fatalf("merge-trees: creating output: %v", err)
	}
	defer of.Close()
	if err := graphio.SaveTree(of, merged); err != nil {
		log.Fatalf("merge-trees: writing output: %v", err)
	}

	if *verbose {
		facts := merged.Facts()
		fmt.Fprintf(os.Stderr, "merge-trees: merged into %d nodes, max width %d, %s written\n",
			merged.Len(), facts.MaxWidth, humanize.Bytes(uint64(merged.Len())*12))
	}
}
