// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package bitset

import (
	"slices"
	"testing"
)

func TestZeroWidth(t *testing.T) {
	t.Parallel()
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("a zero width bitset must not panic on reads: %v", r)
		}
	}()

	var b BitSet

	b.Test(42)
	b.ClearAll()
	b.Count()
	b.NextSet(0)
	b.All()
	b.IsEmpty()
	b.Clone()
}

func TestSetClearTest(t *testing.T) {
	t.Parallel()
	b := New(3)

	for _, bit := range []uint{0, 1, 63, 64, 100, 191} {
		if b.Test(bit) {
			t.Errorf("Test(%d) on fresh set is true", bit)
		}
		b.MustSet(bit)
		if !b.Test(bit) {
			t.Errorf("Test(%d) after MustSet is false", bit)
		}
		b.MustClear(bit)
		if b.Test(bit) {
			t.Errorf("Test(%d) after MustClear is true", bit)
		}
	}
}

func TestMustSetPanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustSet out of range must panic")
		}
	}()

	b := New(1)
	b.MustSet(64)
}

func TestTestOutOfRange(t *testing.T) {
	t.Parallel()
	b := New(1)
	b.MustSet(63)

	if b.Test(64) {
		t.Error("Test(64) on a one word set is true")
	}
	if b.Test(1 << 20) {
		t.Error("Test out of range is true")
	}
}

func TestNextSet(t *testing.T) {
	t.Parallel()
	b := New(4)

	want := []uint{0, 1, 63, 64, 77, 129, 200, 255}
	for _, bit := range want {
		b.MustSet(bit)
	}

	var got []uint
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		got = append(got, i)
	}

	if !slices.Equal(got, want) {
		t.Errorf("NextSet scan = %v, want %v", got, want)
	}

	if !slices.Equal(b.All(), want) {
		t.Errorf("All() = %v, want %v", b.All(), want)
	}

	if _, ok := b.NextSet(256); ok {
		t.Error("NextSet past the width must return !ok")
	}
}

func TestCount(t *testing.T) {
	t.Parallel()
	b := New(5)

	if c := b.Count(); c != 0 {
		t.Errorf("Count() of empty set = %d, want 0", c)
	}

	for bit := uint(0); bit < 320; bit += 3 {
		b.MustSet(bit)
	}

	if c := b.Count(); c != 107 {
		t.Errorf("Count() = %d, want 107", c)
	}
}

func TestUnionIntersection(t *testing.T) {
	t.Parallel()

	b := New(2)
	c := New(2)

	b.MustSet(1)
	b.MustSet(70)
	c.MustSet(70)
	c.MustSet(99)

	u := b.Clone()
	u.UnionInPlace(c)
	if !slices.Equal(u.All(), []uint{1, 70, 99}) {
		t.Errorf("union = %v, want [1 70 99]", u.All())
	}

	i := b.Clone()
	i.IntersectionInPlace(c)
	if !slices.Equal(i.All(), []uint{70}) {
		t.Errorf("intersection = %v, want [70]", i.All())
	}
}

func TestSubsetDisjoint(t *testing.T) {
	t.Parallel()

	b := New(2)
	c := New(2)
	d := New(2)

	b.MustSet(3)
	b.MustSet(65)

	c.MustSet(3)
	c.MustSet(65)
	c.MustSet(100)

	d.MustSet(4)

	if !b.IsSubset(c) {
		t.Error("b must be subset of c")
	}
	if c.IsSubset(b) {
		t.Error("c must not be subset of b")
	}
	if !b.IntersectsAny(c) {
		t.Error("b and c must intersect")
	}
	if b.IntersectsAny(d) {
		t.Error("b and d must not intersect")
	}
}

func TestClearAll(t *testing.T) {
	t.Parallel()

	b := New(3)
	for _, bit := range []uint{0, 64, 128, 191} {
		b.MustSet(bit)
	}

	b.ClearAll()
	if !b.IsEmpty() {
		t.Errorf("set not empty after ClearAll: %v", b.All())
	}
	if len(b) != 3 {
		t.Errorf("ClearAll changed the width: %d", len(b))
	}
}

func TestCloneIndependent(t *testing.T) {
	t.Parallel()

	b := New(2)
	b.MustSet(42)

	c := b.Clone()
	c.MustSet(43)

	if b.Test(43) {
		t.Error("mutating the clone changed the original")
	}
	if !c.Test(42) {
		t.Error("clone lost a bit")
	}
}
