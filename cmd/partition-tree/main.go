// Command partition-tree reads a sequence file and a tree file and writes
// a vid-indexed partition assignment, using one of the
// Forward/Backward/Depth/Height/Naive/Random strategies, or the streaming
// Fennel partitioner run directly over a graph file in graph order.
// Grounded on original_source/bin/partition_tree.cpp.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/gilchrisn/jtree-partition/pkg/graphio"
	"github.com/gilchrisn/jtree-partition/pkg/jnode"
	"github.com/gilchrisn/jtree-partition/pkg/partition"
	"github.com/gilchrisn/jtree-partition/pkg/types"
)

// fileConfig mirrors the subset of the partitioner's parameters a -config
// toml file can set; command-line flags always override it when both are
// given, matching cmd/build-tree's -config convention.
type fileConfig struct {
	Algorithm     string
	NumParts      int
	BalanceFactor float64
	VtxWeight     *float64
	PstWeight     *float64
	PreWeight     *float64
	BalanceEdges  *bool
	Seed          int64
}

func main() {
	var (
		configPath     = flag.String("config", "", "optional TOML file of default options, overridden by any flag also given")
		algorithm      = flag.String("algorithm", "forward", "forward, backward, depth, height, naive, random, or fennel")
		numParts       = flag.Int("parts", 2, "number of parts")
		balanceFactor  = flag.Float64("balance-factor", 1.1, "max component size as a multiple of the even share, for forward/backward")
		graphFilename  = flag.String("graph-filename", "", "fennel: the graph to stream-partition directly; other algorithms: when set, also write the partitioned/isomorphic edge file(s) alongside the plain partition file")
		outputFilename = flag.String("output-filename", "", "output partition file, or output path/prefix when -graph-filename is also set (required)")
		isomorphic     = flag.Bool("isomorphic", false, "with -graph-filename, write one isomorphic-order edge stream instead of one file per part")
		vtxWeight      = flag.Float64("weight-vtx", 1, "per-vertex weight coefficient")
		pstWeight      = flag.Float64("weight-pst", 0, "postorder separator-size weight coefficient")
		preWeight      = flag.Float64("weight-pre", 0, "preorder kid-weight coefficient")
		balanceEdges   = flag.Bool("balance-edges", true, "fennel: balance edge cuts instead of vertex counts")
		seed           = flag.Int64("seed", 1, "random seed, for the random algorithm")
		verbose        = flag.Bool("verbose", false, "print progress and a summary to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <sequence-file> <tree-file>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "The fennel algorithm ignores <sequence-file> and <tree-file> and reads -graph-filename directly.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if *configPath != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(*configPath, &fc); err != nil {
			log.Fatalf("partition-tree: reading config %s: %v", *configPath, err)
		}
		if fc.Algorithm != "" && !explicit["algorithm"] {
			*algorithm = fc.Algorithm
		}
		if fc.NumParts != 0 && !explicit["parts"] {
			*numParts = fc.NumParts
		}
		if fc.BalanceFactor != 0 && !explicit["balance-factor"] {
			*balanceFactor = fc.BalanceFactor
		}
		if fc.VtxWeight != nil && !explicit["weight-vtx"] {
			*vtxWeight = *fc.VtxWeight
		}
		if fc.PstWeight != nil && !explicit["weight-pst"] {
			*pstWeight = *fc.PstWeight
		}
		if fc.PreWeight != nil && !explicit["weight-pre"] {
			*preWeight = *fc.PreWeight
		}
		if fc.BalanceEdges != nil && !explicit["balance-edges"] {
			*balanceEdges = *fc.BalanceEdges
		}
		if fc.Seed != 0 && !explicit["seed"] {
			*seed = fc.Seed
		}
	}

	if *outputFilename == "" {
		flag.Usage()
		os.Exit(1)
	}

	var assigned []types.Part

	if *algorithm == "fennel" {
		if *graphFilename == "" {
			log.Fatalf("partition-tree: -algorithm=fennel requires -graph-filename")
		}
		gf, err := os.Open(*graphFilename)
		if err != nil {
			log.Fatalf("partition-tree: opening graph file: %v", err)
		}
		defer gf.Close()
		assigned, err = partition.FennelFromFile(gf, *numParts, *balanceEdges)
		if err != nil {
			log.Fatalf("partition-tree: fennel: %v", err)
		}
		of, err := os.Create(*outputFilename)
		if err != nil {
			log.Fatalf("partition-tree: creating output file: %v", err)
		}
		defer of.Close()
		if err := graphio.WritePartitionFile(of, assigned); err != nil {
			log.Fatalf("partition-tree: writing partition file: %v", err)
		}
		if *verbose {
			summary := partition.SummarizePartition(assigned)
			fmt.Fprintf(os.Stderr, "partition-tree: %d parts, size[0]=%d size[1]=%d\n", summary.NumParts, summary.Size0, summary.Size1)
		}
		return
	}

	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(1)
	}
	seqFilename, treeFilename := args[0], args[1]

	sf, err := os.Open(seqFilename)
	if err != nil {
		log.Fatalf("partition-tree: opening sequence file: %v", err)
	}
	seq, err := graphio.ReadTextSequence(sf)
	sf.Close()
	if err != nil {
		log.Fatalf("partition-tree: reading sequence file: %v", err)
	}

	tf, err := os.Open(treeFilename)
	if err != nil {
		log.Fatalf("partition-tree: opening tree file: %v", err)
	}
	tree, err := graphio.LoadTree(tf, jnode.Options{MakeKids: true, MakePst: true, MakePre: true})
	tf.Close()
	if err != nil {
		log.Fatalf("partition-tree: loading tree file: %v", err)
	}
	if err := tree.MakeKids(); err != nil {
		log.Fatalf("partition-tree: rebuilding kids table: %v", err)
	}
	weights := partition.Weights{Vtx: *vtxWeight, Pst: *pstWeight, Pre: *preWeight}
	var totalWeight float64
	for i := 0; i < tree.Len(); i++ {
		totalWeight += weights.NodeWeight(tree, types.Jnid(i))
	}
	maxComponent := math.Ceil(*balanceFactor * totalWeight / float64(*numParts))

	switch *algorithm {
	case "forward":
		assigned, err = partition.Forward(tree, weights, *numParts, maxComponent)
	case "backward":
		assigned, err = partition.Backward(tree, weights, *numParts, maxComponent)
	case "depth":
		assigned = partition.Depth(tree, *numParts)
	case "height":
		assigned = partition.Height(tree, *numParts)
	case "naive":
		assigned = partition.Naive(tree.Len(), *numParts)
	case "random":
		assigned = partition.Random(tree.Len(), *numParts, rand.New(rand.NewSource(*seed)))
	default:
		log.Fatalf("partition-tree: unknown algorithm %q", *algorithm)
	}
	if err != nil {
		log.Fatalf("partition-tree: %s: %v", *algorithm, err)
	}

	// The strategies above assign a part per jnid; rewrite to a part per
	// vid using the elimination ordering before anything is written out.
	assigned = partition.RewriteJnidToVid(seq, assigned)

	if *graphFilename == "" {
		of, err := os.Create(*outputFilename)
		if err != nil {
			log.Fatalf("partition-tree: creating output file: %v", err)
		}
		defer of.Close()
		if err := graphio.WritePartitionFile(of, assigned); err != nil {
			log.Fatalf("partition-tree: writing partition file: %v", err)
		}
	} else {
		gf, err := os.Open(*graphFilename)
		if err != nil {
			log.Fatalf("partition-tree: opening graph file: %v", err)
		}
		edges, err := graphio.ReadTextEdges(gf)
		gf.Close()
		if err != nil {
			log.Fatalf("partition-tree: reading graph file: %v", err)
		}
		rankOf := make(map[types.Vid]int, len(seq))
		for i, v := range seq {
			rankOf[v] = i
		}
		partOf := func(v types.Vid) types.Part {
			if int(v) < len(assigned) {
				return assigned[v]
			}
			return types.NoPart
		}
		rank := func(v types.Vid) int { return rankOf[v] }

		if *isomorphic {
			of, err := os.Create(*outputFilename)
			if err != nil {
				log.Fatalf("partition-tree: creating output file: %v", err)
			}
			defer of.Close()
			if err := graphio.WriteIsomorphicGraph(of, edges, partOf, rank); err != nil {
				log.Fatalf("partition-tree: writing isomorphic graph: %v", err)
			}
		} else {
			assign := graphio.AssignByEarlierEliminated(partOf, rank)
			if err := graphio.WritePartitionedGraph(*outputFilename, edges, assign, *numParts); err != nil {
				log.Fatalf("partition-tree: writing partitioned graph: %v", err)
			}
		}
	}

	if *verbose {
		summary := partition.SummarizePartition(assigned)
		fmt.Fprintf(os.Stderr, "partition-tree: %d parts, size[0]=%d size[1]=%d\n", summary.NumParts, summary.Size0, summary.Size1)
	}
}
