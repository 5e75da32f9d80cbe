// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Command treefrag extracts recurring tree fragments from one or two
// bracket treebanks and prints them with their counts, one
// "count<TAB>fragment" line each.
package main

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/gaissmai/treefrag"
)

func main() {
	app := cli.NewApp()
	app.Name = "treefrag"
	app.Usage = "extract recurring tree fragments from treebanks"
	app.ArgsUsage = "treebank1 [treebank2]"
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "approx", Usage: "histogram of maximal occurrences instead of exact counts"},
		cli.BoolFlag{Name: "disco", Usage: "discontinuous input, integer leaves"},
		cli.BoolFlag{Name: "complement", Usage: "also emit uncovered regions of each tree"},
		cli.BoolFlag{Name: "twoterms", Usage: "only pairs sharing two lexical items incl. a content word"},
		cli.BoolFlag{Name: "adjacent", Usage: "only adjacent pairs (n, n+1)"},
		cli.BoolFlag{Name: "indexed", Usage: "report occurrence tree ids instead of totals"},
		cli.IntFlag{Name: "numproc", Value: runtime.NumCPU(), Usage: "number of shard workers"},
		cli.BoolFlag{Name: "debug", Usage: "per-tree progress logging"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	if ctx.NArg() < 1 || ctx.NArg() > 2 {
		return cli.NewExitError("expected one or two treebank files", 2)
	}

	level := zerolog.InfoLevel
	if ctx.Bool("debug") {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.NewConsoleWriter()).Level(level).With().Timestamp().Logger()

	disco := ctx.Bool("disco")
	pm := treefrag.NewProdMap()

	t1, sents1, err := load(ctx.Args().Get(0), pm, disco, logger)
	if err != nil {
		return err
	}

	var t2 *treefrag.Ctrees
	var sents2 [][]string
	target := t1
	if ctx.NArg() == 2 {
		if t2, sents2, err = load(ctx.Args().Get(1), pm, disco, logger); err != nil {
			return err
		}
		target = t2
	}

	// the reverse index serves pair selection and exact counting
	t1.BuildProdIndex(pm.NumProds())
	if t2 != nil {
		t2.BuildProdIndex(pm.NumProds())
	}

	numproc := max(1, ctx.Int("numproc"))
	opts := treefrag.Options{
		Approx:     ctx.Bool("approx"),
		Disco:      disco,
		Complement: ctx.Bool("complement"),
		TwoTerms:   ctx.Bool("twoterms"),
		Adjacent:   ctx.Bool("adjacent"),
		Debug:      ctx.Bool("debug"),
		Logger:     &logger,
	}

	logger.Info().
		Int("trees1", t1.Len()).
		Int("trees2", target.Len()).
		Int("numproc", numproc).
		Msg("extracting")

	results := make([]*treefrag.Result, numproc)
	wg := sync.WaitGroup{}

	chunk := (t1.Len() + numproc - 1) / numproc
	for shard := 0; shard < numproc; shard++ {
		shard := shard
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := opts
			o.Offset = shard * chunk
			o.End = min(t1.Len(), o.Offset+chunk)
			results[shard] = treefrag.Extract(t1, sents1, t2, sents2, pm, o)
		}()
	}
	wg.Wait()

	merged := results[0]
	for _, r := range results[1:] {
		merged.Merge(r)
	}

	if opts.Approx {
		printHistogram(merged.Counts)
		return nil
	}

	keys := make([]string, 0, len(merged.Fragments))
	for key := range merged.Fragments {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	frags := make([]*treefrag.Fragment, len(keys))
	for i, key := range keys {
		frags[i] = merged.Fragments[key]
	}

	if ctx.Bool("indexed") {
		index := treefrag.ExactCountsIndexed(frags, t1, target)
		for i, key := range keys {
			ids := make([]uint32, 0, len(index[i]))
			for id := range index[i] {
				ids = append(ids, id)
			}
			sort.Slice(ids, func(x, y int) bool { return ids[x] < ids[y] })
			fmt.Printf("%v\t%s\n", ids, key)
		}
		return nil
	}

	counts := treefrag.ExactCounts(frags, t1, target)
	for i, key := range keys {
		fmt.Printf("%d\t%s\n", counts[i], key)
	}
	return nil
}

func load(path string, pm *treefrag.ProdMap, disco bool, logger zerolog.Logger) (*treefrag.Ctrees, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	c := treefrag.NewCtrees(0, 0)
	sents, errs := treefrag.ReadBrackets(file, c, pm, disco)
	for _, err := range errs {
		logger.Warn().Err(err).Str("file", path).Msg("skipped tree")
	}
	if c.Len() == 0 {
		return nil, nil, fmt.Errorf("%s: no usable trees", path)
	}

	logger.Info().
		Str("file", path).
		Int("trees", c.Len()).
		Int("maxnodes", c.MaxNodes()).
		Int("prods", pm.NumProds()).
		Msg("loaded treebank")
	return c, sents, nil
}

func printHistogram(counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(x, y int) bool {
		if counts[keys[x]] != counts[keys[y]] {
			return counts[keys[x]] > counts[keys[y]]
		}
		return keys[x] < keys[y]
	})

	for _, key := range keys {
		fmt.Printf("%d\t%s\n", counts[key], key)
	}
}
