// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package treefrag

import (
	"math"

	"github.com/bits-and-blooms/bitset"
)

// Ctrees is the arena for a whole treebank: an append-only pool of
// nodes plus one NodeArray view per tree. Once a tree is added its
// slice never moves relative to its offset; growth reallocates the
// whole pool. After ingest the arena is immutable and safe for
// concurrent readers without locking.
type Ctrees struct {
	nodes    []Node
	trees    []NodeArray
	maxNodes int

	// treesWithProd[p] is the set of tree indices containing
	// production p, built once after ingest by BuildProdIndex.
	treesWithProd []*bitset.BitSet
}

// NewCtrees reserves capacity for the expected number of trees and
// nodes. Both hints may be zero.
func NewCtrees(treesHint, nodesHint int) *Ctrees {
	return &Ctrees{
		nodes: make([]Node, 0, nodesHint),
		trees: make([]NodeArray, 0, treesHint),
	}
}

// Len returns the number of trees in the arena.
func (c *Ctrees) Len() int {
	return len(c.trees)
}

// MaxNodes returns the size of the biggest tree.
func (c *Ctrees) MaxNodes() int {
	return c.maxNodes
}

// Slots returns the bitset width in words needed for any tree of this
// arena, computed from maxNodes+1.
func (c *Ctrees) Slots() int {
	return (c.maxNodes + 64) >> 6
}

// Tree returns the view of tree id. The id must be in [0, Len).
func (c *Ctrees) Tree(id uint32) NodeArray {
	return c.trees[id]
}

// Nodes returns the node slice of tree id. The id must be in [0, Len).
func (c *Ctrees) Nodes(id uint32) []Node {
	t := c.trees[id]
	return c.nodes[t.Offset : t.Offset+t.Len : t.Offset+t.Len]
}

// PushFromNodes validates one tree, canonicalises its node order by
// production id, rewrites the child indices and commits it to the
// pool. The insertion is staged: a tree that fails validation leaves
// the arena untouched. Returns the new tree id.
func (c *Ctrees) PushFromNodes(nodes []Node, root int16) (uint32, error) {
	if len(nodes) > math.MaxInt16 {
		return 0, ErrTreeTooBig
	}
	if err := validateNodes(nodes, root); err != nil {
		return 0, err
	}

	sorted, newRoot := canonicalize(nodes, root)

	c.grow(len(sorted))
	id := uint32(len(c.trees))
	c.trees = append(c.trees, NodeArray{
		Offset: len(c.nodes),
		Len:    len(sorted),
		Root:   newRoot,
	})
	c.nodes = append(c.nodes, sorted...)

	c.maxNodes = max(c.maxNodes, len(sorted))
	return id, nil
}

// grow reallocates the node pool geometrically (~ x1.125 plus a small
// constant) when n more nodes would not fit.
func (c *Ctrees) grow(n int) {
	need := len(c.nodes) + n
	if need <= cap(c.nodes) {
		return
	}
	newCap := max(need, cap(c.nodes)+cap(c.nodes)/8+4)
	pool := make([]Node, len(c.nodes), newCap)
	copy(pool, c.nodes)
	c.nodes = pool
}

// BuildProdIndex constructs the per-production reverse index over all
// trees. numProds is the size of the global production table; ids
// outside [0, numProds) are a programmer error and panic.
func (c *Ctrees) BuildProdIndex(numProds int) {
	index := make([]*bitset.BitSet, numProds)
	for p := range index {
		index[p] = bitset.New(uint(len(c.trees)))
	}

	for id, t := range c.trees {
		for _, n := range c.nodes[t.Offset : t.Offset+t.Len] {
			index[n.Prod].Set(uint(id))
		}
	}
	c.treesWithProd = index
}

// HasProdIndex reports whether BuildProdIndex has run.
func (c *Ctrees) HasProdIndex() bool {
	return c.treesWithProd != nil
}

// TreesWithProd returns the set of tree indices containing production
// p, or nil if the index was not built or p is outside the indexed
// range. Productions assigned after the index build are unknown to it.
func (c *Ctrees) TreesWithProd(p int32) *bitset.BitSet {
	if c.treesWithProd == nil || int(p) >= len(c.treesWithProd) || p < 0 {
		return nil
	}
	return c.treesWithProd[p]
}
