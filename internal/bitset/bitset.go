// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package bitset implements fixed-width bitsets, a mapping
// between non-negative integers and boolean values.
//
// Studied [github.com/bits-and-blooms/bitset] inside out
// and rewrote needed parts from scratch for this project.
//
// In contrast to the general purpose library the width of a BitSet
// is fixed at allocation: every set in a run is sized for the biggest
// tree in the arena, so the rows of a kernel matrix can be stacked in
// one contiguous word slice and re-sliced without reallocation.
package bitset

import (
	"math/bits"

	popcount "github.com/hideo55/go-popcount"
)

// A BitSet is a slice of words with a fixed width. Out-of-range bits
// are a programmer error, the Must* methods panic by intention.
// This is an internal package with a wide open public API.
type BitSet []uint64

// New allocates a BitSet of slots words, all bits cleared.
func New(slots int) BitSet {
	return make([]uint64, slots)
}

// MustSet sets the bit, it panics if bit is out of range by intention!
func (b BitSet) MustSet(bit uint) {
	b[bit>>6] |= 1 << (bit & 63)
}

// MustClear clears the bit, it panics if bit is out of range by intention!
func (b BitSet) MustClear(bit uint) {
	b[bit>>6] &^= 1 << (bit & 63)
}

// Test if the bit is set, out of range bits test as false.
func (b BitSet) Test(bit uint) (ok bool) {
	if x := int(bit >> 6); x < len(b) {
		return b[x]&(1<<(bit&63)) != 0
	}
	return
}

// ClearAll clears the whole set, keeping its width.
func (b BitSet) ClearAll() {
	for i := range b {
		b[i] = 0
	}
}

// Clone returns a copy of the set with the same width and bits.
func (b BitSet) Clone() BitSet {
	c := BitSet(make([]uint64, len(b)))
	copy(c, b)
	return c
}

// NextSet returns the next bit set from the specified index,
// including possibly the current index along with an ok code.
//
// The carry of word index and bit offset makes ascending scans
// restart-free:
//
//	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) { ... }
func (b BitSet) NextSet(i uint) (uint, bool) {
	x := int(i >> 6)
	if x >= len(b) {
		return 0, false
	}

	// current word, bits below i masked off
	if word := b[x] >> (i & 63); word != 0 {
		return i + uint(bits.TrailingZeros64(word)), true
	}

	// remaining words
	for x++; x < len(b); x++ {
		if b[x] != 0 {
			return uint(x<<6 + bits.TrailingZeros64(b[x])), true
		}
	}
	return 0, false
}

// All returns the indices of all set bits in ascending order.
func (b BitSet) All() []uint {
	all := make([]uint, 0, b.Count())
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		all = append(all, i)
	}
	return all
}

// Count (number of set bits).
// Also known as "popcount" or "population count".
func (b BitSet) Count() int {
	return int(popcount.CountSlice(b))
}

// UnionInPlace ors the words of c into b.
// Both sets must have the same width.
func (b BitSet) UnionInPlace(c BitSet) {
	// bounds check elimination
	_ = b[len(c)-1]

	for i := range c {
		b[i] |= c[i]
	}
}

// IntersectionInPlace ands the words of c into b.
// Both sets must have the same width.
func (b BitSet) IntersectionInPlace(c BitSet) {
	// bounds check elimination
	_ = b[len(c)-1]

	for i := range c {
		b[i] &= c[i]
	}
}

// IsSubset reports whether every bit set in b is also set in c.
func (b BitSet) IsSubset(c BitSet) bool {
	// bounds check elimination
	_ = c[len(b)-1]

	for i := range b {
		if b[i]&^c[i] != 0 {
			return false
		}
	}
	return true
}

// IntersectsAny reports whether b and c have at least one common bit.
func (b BitSet) IntersectsAny(c BitSet) bool {
	// bounds check elimination
	_ = c[len(b)-1]

	for i := range b {
		if b[i]&c[i] != 0 {
			return true
		}
	}
	return false
}

// IsEmpty reports whether no bit is set.
func (b BitSet) IsEmpty() bool {
	for _, w := range b {
		if w != 0 {
			return false
		}
	}
	return true
}
