// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package treefrag

import "github.com/gaissmai/treefrag/internal/bitset"

// complementBitsets walks tree a in pre-order and emits every maximal
// connected region not covered by the union bitset as its own
// fragment. A region opens at the shallowest uncovered node and closes
// at every covered child; the walk then continues below the boundary
// for further regions.
func complementBitsets(a []Node, union bitset.BitSet, root int16, scratch bitset.BitSet, emit func(root int16)) {
	var walk func(i int16)
	walk = func(i int16) {
		if union.Test(uint(i)) {
			if left := a[i].Left; left >= 0 {
				walk(left)
				if right := a[i].Right; right >= 0 {
					walk(right)
				}
			}
			return
		}

		// region opens at i; boundary collects the covered children
		// where the region closes
		var boundary []int16

		var fill func(i int16)
		fill = func(i int16) {
			scratch.MustSet(uint(i))
			left := a[i].Left
			if left < 0 {
				return
			}
			if union.Test(uint(left)) {
				boundary = append(boundary, left)
			} else {
				fill(left)
			}
			if right := a[i].Right; right >= 0 {
				if union.Test(uint(right)) {
					boundary = append(boundary, right)
				} else {
					fill(right)
				}
			}
		}

		scratch.ClearAll()
		fill(i)
		emit(i)

		for _, next := range boundary {
			walk(next)
		}
	}

	walk(root)
}
