// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package treefrag

import "github.com/gaissmai/treefrag/internal/bitset"

// Fragment is a connected subtree of one source tree, represented as a
// bitset over the tree's nodes. A node bit is set iff the node is
// expanded in the fragment with its production (a set preterminal
// keeps its terminal); an unset child of a set node is a frontier
// non-terminal, a placeholder yielding its word span.
// Frontiers are not stored, they are inferred at render time.
type Fragment struct {
	bits bitset.BitSet

	// Tree is the source tree index, Root the fragment root within
	// that tree. Together they replace the trailer words that the
	// historic byte-blob layout carried behind the bitset.
	Tree uint32
	Root int16
}

// Test reports whether node i of the source tree is in the fragment.
func (f *Fragment) Test(i uint) bool {
	return f.bits.Test(i)
}

// Nodes returns the node indices of the fragment in ascending order.
func (f *Fragment) Nodes() []uint {
	return f.bits.All()
}

// Size returns the number of nodes in the fragment.
func (f *Fragment) Size() int {
	return f.bits.Count()
}

// newFragment promotes a scratch bitset into an owned Fragment.
func newFragment(scratch bitset.BitSet, tree uint32, root int16) *Fragment {
	return &Fragment{
		bits: scratch.Clone(),
		Tree: tree,
		Root: root,
	}
}

// CompleteBitsets returns one fragment per tree covering all of its
// nodes. Rendering such a fragment reproduces the original bracket
// string of the tree modulo whitespace.
func CompleteBitsets(c *Ctrees) []*Fragment {
	slots := c.Slots()
	frags := make([]*Fragment, 0, c.Len())

	for id := 0; id < c.Len(); id++ {
		t := c.Tree(uint32(id))
		bits := bitset.New(slots)
		for i := 0; i < t.Len; i++ {
			bits.MustSet(uint(i))
		}
		frags = append(frags, &Fragment{
			bits: bits,
			Tree: uint32(id),
			Root: t.Root,
		})
	}
	return frags
}
