// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package treefrag

import "github.com/gaissmai/treefrag/internal/bitset"

// ExactCounts counts for every fragment how often it occurs anywhere
// in the target treebank t2, maximal or not. The fragments stem from
// t1; a fragment can match more than once within a single tree,
// every anchor counts. t2 must have its production index built.
//
// The counts are exact, unlike the approximate maximal-occurrence
// histogram of [Extract]: an intermediate fragment may embed in trees
// that are not the pair it was extracted from.
func ExactCounts(frags []*Fragment, t1, t2 *Ctrees) []int {
	counts := make([]int, len(frags))
	for k, f := range frags {
		exactOccurrences(f, t1, t2, func(uint32) { counts[k]++ })
	}
	return counts
}

// ExactCountsIndexed records for every fragment the multiset of tree
// ids it occurs in, as tree id to multiplicity maps.
func ExactCountsIndexed(frags []*Fragment, t1, t2 *Ctrees) []map[uint32]int {
	index := make([]map[uint32]int, len(frags))
	for k, f := range frags {
		occ := map[uint32]int{}
		exactOccurrences(f, t1, t2, func(tree uint32) { occ[tree]++ })
		index[k] = occ
	}
	return index
}

// exactOccurrences finds every embedding of fragment f in t2 and calls
// visit with the host tree id, once per anchor.
//
// Candidate trees are narrowed first: the intersection of the
// per-production tree sets over all set bits of f. Only the survivors
// are checked structurally, anchored at every node sharing the root
// production.
func exactOccurrences(f *Fragment, t1, t2 *Ctrees, visit func(tree uint32)) {
	a := t1.Nodes(f.Tree)
	root := f.Root
	rootProd := a[root].Prod

	if !t2.HasProdIndex() {
		panic("treefrag: production index not built")
	}
	set := t2.TreesWithProd(rootProd)
	if set == nil {
		// production unknown to the target index, no candidates
		return
	}
	cands := set.Clone()

	// every bit must index a node of the source tree, a bit at or
	// beyond len(a) is a programmer error and panics
	for bit, ok := f.bits.NextSet(0); ok; bit, ok = f.bits.NextSet(bit + 1) {
		if int(bit) >= len(a) {
			panic("treefrag: fragment bit beyond its source tree")
		}
		if int16(bit) == root {
			continue
		}
		other := t2.TreesWithProd(a[bit].Prod)
		if other == nil {
			return
		}
		cands.InPlaceIntersection(other)
	}

	for n, ok := cands.NextSet(0); ok; n, ok = cands.NextSet(n + 1) {
		b := t2.Nodes(uint32(n))
		for j := prodRun(b, rootProd); j < len(b) && b[j].Prod == rootProd; j++ {
			if containsBitset(a, b, f.bits, root, int16(j)) {
				visit(uint32(n))
			}
		}
	}
}

// containsBitset checks whether the fragment bits of a rooted at i
// embed in b anchored at j: a structural match that follows only
// children whose bit is set, terminals and frontiers succeed
// automatically. Equal productions imply equal arity and labels, so
// only the recursion below set bits can fail.
func containsBitset(a, b []Node, bits bitset.BitSet, i, j int16) bool {
	if a[i].Prod != b[j].Prod {
		return false
	}
	if a[i].Left < 0 {
		// lexical production, word identity is part of the prod
		return true
	}

	if il := a[i].Left; bits.Test(uint(il)) {
		if !containsBitset(a, b, bits, il, b[j].Left) {
			return false
		}
	}

	// unary nodes store Right == -1 in this arena, checked on insert
	if ir := a[i].Right; ir >= 0 && bits.Test(uint(ir)) {
		if !containsBitset(a, b, bits, ir, b[j].Right) {
			return false
		}
	}
	return true
}
