// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package treefrag extracts recurring tree fragments from treebanks of
// binarized phrase-structure trees and counts their occurrences, as
// used by Data-Oriented Parsing and tree-kernel methods.
//
// The engine works on a packed in-memory treebank: all nodes of all
// trees live in one append-only arena ([Ctrees]), every tree is a
// [NodeArray] view into it, and fragments are fixed-width bitsets over
// the nodes of their source tree ([Fragment]).
//
// For a pair of trees a fast tree kernel computes the matrix of
// common-production node pairs in average near-linear time; a top-down
// pass then extracts every maximal connected common subtree exactly
// once, consuming matrix cells as it goes. Extracted fragments can be
//
//   - rendered back to bracket strings, with gap-preserving
//     renumbering for discontinuous trees ([GetSent]),
//   - counted approximately (maximal occurrences, [Extract]), or
//   - counted exactly against a whole treebank via the per-production
//     reverse index ([ExactCounts]).
//
// Sharding is coarse-grained: workers process disjoint ranges of the
// first treebank against all of the second, sharing the immutable
// arenas without locks, and the caller merges the per-shard results.
package treefrag
