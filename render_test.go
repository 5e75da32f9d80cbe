// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package treefrag

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaissmai/treefrag/internal/bitset"
)

// fragmentAt builds a fragment of tree id from explicit node bits.
func fragmentAt(c *Ctrees, id uint32, root int16, bits ...uint) *Fragment {
	bs := bitset.New(c.Slots())
	for _, bit := range bits {
		bs.MustSet(bit)
	}
	return &Fragment{bits: bs, Tree: id, Root: root}
}

// nodeByLabel returns the first node of the tree whose production has
// the given lhs label.
func nodeByLabel(t *testing.T, c *Ctrees, pm *ProdMap, id uint32, label string) int16 {
	t.Helper()
	for i, n := range c.Nodes(id) {
		if pm.Label(n.Prod) == label {
			return int16(i)
		}
	}
	t.Fatalf("no node labelled %q in tree %d", label, id)
	return -1
}

func TestRenderContinuousFrontier(t *testing.T) {
	t.Parallel()

	pm := NewProdMap()
	c, sents := mustReadTrees(t, pm, false, "(S (NP (DT the) (NN dog)) (VP barks))")

	s := nodeByLabel(t, c, pm, 0, "S")
	np := nodeByLabel(t, c, pm, 0, "NP")
	vp := nodeByLabel(t, c, pm, 0, "VP")

	// NP kept as frontier, VP expanded
	f := fragmentAt(c, 0, s, uint(s), uint(vp))
	assert.Equal(t, "(S (NP ) (VP barks))", RenderFragment(f, c, pm, sents[0], false))

	// both children expanded, but NP's own children cut off
	f = fragmentAt(c, 0, s, uint(s), uint(np), uint(vp))
	assert.Equal(t, "(S (NP (DT ) (NN )) (VP barks))", RenderFragment(f, c, pm, sents[0], false))
}

func TestRenderDiscontinuous(t *testing.T) {
	t.Parallel()

	pm := NewProdMap()
	c, sents := mustReadTrees(t, pm, true,
		"(S (VP (VB 0) (PRT 3)) (NP (DT 1) (NN 2)))\tWake your friend up",
	)
	require.Equal(t, []string{"Wake", "your", "friend", "up"}, sents[0])

	s := nodeByLabel(t, c, pm, 0, "S")
	vp := nodeByLabel(t, c, pm, 0, "VP")
	vb := nodeByLabel(t, c, pm, 0, "VB")
	prt := nodeByLabel(t, c, pm, 0, "PRT")

	// terminals render as positions, the NP frontier as its span
	f := fragmentAt(c, 0, s, uint(s), uint(vp), uint(vb), uint(prt))
	raw := RenderFragment(f, c, pm, sents[0], true)
	assert.Equal(t, "(S (VP (VB 0) (PRT 3)) (NP 1:2))", raw)

	frag, tup := GetSent(raw, sents[0])
	assert.Equal(t, "(S (VP (VB 0) (PRT 2)) (NP 1))", frag)
	require.Len(t, tup, 3)
	assert.Equal(t, "Wake", *tup[0])
	assert.Nil(t, tup[1])
	assert.Equal(t, "up", *tup[2])
}

func TestRenderDiscontinuousGappyFrontier(t *testing.T) {
	t.Parallel()

	pm := NewProdMap()
	c, _ := mustReadTrees(t, pm, true,
		"(S (VP (VB 0) (NN 2)) (DT 1))\tWalks the man",
	)

	s := nodeByLabel(t, c, pm, 0, "S")
	dt := nodeByLabel(t, c, pm, 0, "DT")

	// the VP frontier yields 0 and 2: two ranges around the gap
	f := fragmentAt(c, 0, s, uint(s), uint(dt))
	raw := RenderFragment(f, c, pm, nil, true)
	assert.Equal(t, "(S (VP 0:0 2:2) (DT 1))", raw)
}

func TestRenderMatchesRegexContract(t *testing.T) {
	t.Parallel()

	labelRE := regexp.MustCompile(`\( *([^ ()]+) *`)

	pm := NewProdMap()
	c, sents := mustReadTrees(t, pm, true,
		"(S (VP (VB 0) (PRT 3)) (NP (DT 1) (NN 2)))\tWake your friend up",
	)

	for _, f := range CompleteBitsets(c) {
		raw := RenderFragment(f, c, pm, sents[f.Tree], true)

		labels := labelRE.FindAllStringSubmatch(raw, -1)
		require.Len(t, labels, 7)
		assert.Equal(t, "S", labels[0][1])

		// every terminal matches the leaf regex
		assert.Len(t, termIndexRE.FindAllString(raw, -1), 4)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	t.Parallel()

	pm := NewProdMap()
	line := "(S (NP (DT the) (NN dog)) (VP barks))"
	c, sents := mustReadTrees(t, pm, false, line)

	// re-reading a rendered complete fragment reproduces the tree
	frags := CompleteBitsets(c)
	rendered := RenderFragment(frags[0], c, pm, sents[0], false)
	require.Equal(t, line, rendered)

	c2, _ := mustReadTrees(t, pm, false, rendered)
	assert.Equal(t, c.Nodes(0), c2.Nodes(0))
}
