// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package treefrag

import "errors"

var (
	// ErrMalformedTree, the bracket input for one tree is broken:
	// unbalanced parens, missing label or an empty node. The reader
	// skips the tree and continues.
	ErrMalformedTree = errors.New("malformed tree")

	// ErrNotBinarized, a node has more than two children. On-the-fly
	// binarization is not performed, upstream must binarize.
	ErrNotBinarized = errors.New("tree not binarized")

	// ErrTreeTooBig, a single tree exceeds the node index range.
	ErrTreeTooBig = errors.New("tree exceeds node index range")

	// ErrIndexOutOfRange, a child or root index points outside the
	// tree slice. Staged insertions fail before touching the arena.
	ErrIndexOutOfRange = errors.New("node index out of range")
)
