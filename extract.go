// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package treefrag

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/gaissmai/treefrag/internal/bitset"
)

// extractBitsets walks tree b in pre-order starting at node j and, for
// every surviving matrix bit (i, j), grows the maximal common subtree
// of a agreeing with b from that anchor. Fragments with at least
// minTerms absorbed terminals are handed to emit with their root in a;
// emit owns the scratch contents only for the duration of the call.
//
// extractAt clears every consumed matrix cell, so each maximal
// fragment is emitted at most once per tree pair and later anchors
// stop at already-consumed cells, which become frontiers.
func extractBitsets(a, b []Node, m matrix, j int16, minTerms int, scratch bitset.BitSet, emit func(root int16)) {
	row := m.row(j)
	for bit, ok := row.NextSet(0); ok; bit, ok = row.NextSet(bit + 1) {
		i := int16(bit)

		scratch.ClearAll()
		terms := extractAt(a, b, m, i, j, scratch)
		if terms >= minTerms {
			emit(i)
		}
	}

	if left := b[j].Left; left >= 0 {
		extractBitsets(a, b, m, left, minTerms, scratch, emit)
		if right := b[j].Right; right >= 0 {
			extractBitsets(a, b, m, right, minTerms, scratch, emit)
		}
	}
}

// extractAt greedily walks a and b in lockstep while their productions
// agree, setting the a-side bits in scratch and consuming the matrix
// cells. Returns the number of terminals absorbed.
func extractAt(a, b []Node, m matrix, i, j int16, scratch bitset.BitSet) int {
	scratch.MustSet(uint(i))
	m.row(j).MustClear(uint(i))

	if a[i].Left < 0 {
		return 1
	}

	// same production, same arity: b[j]'s children mirror a[i]'s
	terms := 0
	if il, jl := a[i].Left, b[j].Left; m.row(jl).Test(uint(il)) {
		terms += extractAt(a, b, m, il, jl, scratch)
	}
	if ir := a[i].Right; ir >= 0 {
		if jr := b[j].Right; m.row(jr).Test(uint(ir)) {
			terms += extractAt(a, b, m, ir, jr, scratch)
		}
	}
	return terms
}

// CoverBitsets returns exactly one single-production fragment per
// distinct production in the arena, anchored at the first node
// carrying it. The children of the anchor stay unset, so they render
// as frontiers.
func CoverBitsets(c *Ctrees) []*Fragment {
	slots := c.Slots()
	seen := mapset.NewThreadUnsafeSet[int32]()

	var frags []*Fragment
	for id := 0; id < c.Len(); id++ {
		for i, n := range c.Nodes(uint32(id)) {
			if !seen.Add(n.Prod) {
				continue
			}
			bits := bitset.New(slots)
			bits.MustSet(uint(i))
			frags = append(frags, &Fragment{
				bits: bits,
				Tree: uint32(id),
				Root: int16(i),
			})
		}
	}
	return frags
}
