// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package treefrag

import (
	"slices"
	"strconv"
	"strings"

	"github.com/gaissmai/treefrag/internal/bitset"
)

// RenderFragment converts a fragment back into a bracketed string.
//
// Continuous mode substitutes the surface tokens of sent at set
// terminals and renders frontier non-terminals as bare labels.
// Discontinuous mode emits terminal positions instead of tokens and
// renders every frontier with its gap-collapsed yield ranges, ready
// for the renumbering pass of [GetSent].
func RenderFragment(f *Fragment, c *Ctrees, pm *ProdMap, sent []string, disco bool) string {
	return renderSubtree(c.Nodes(f.Tree), f.bits, f.Root, pm, sent, disco)
}

func renderSubtree(a []Node, bits bitset.BitSet, root int16, pm *ProdMap, sent []string, disco bool) string {
	w := subtreeWriter{a: a, bits: bits, pm: pm, sent: sent, disco: disco}
	w.subtree(root)
	return w.sb.String()
}

type subtreeWriter struct {
	a     []Node
	bits  bitset.BitSet
	pm    *ProdMap
	sent  []string
	disco bool
	sb    strings.Builder
}

// subtree writes "(label ...)" for node i. Label order follows the
// tree pre-order, left before right. The frontier label is the plain
// non-terminal label of the production, binarization markers and all.
func (w *subtreeWriter) subtree(i int16) {
	w.sb.WriteByte('(')
	w.sb.WriteString(w.pm.Label(w.a[i].Prod))
	w.sb.WriteByte(' ')

	switch {
	case w.bits.Test(uint(i)):
		if w.a[i].IsTerminal() {
			if w.disco {
				w.sb.WriteString(strconv.Itoa(w.a[i].TermIdx()))
			} else {
				w.sb.WriteString(w.sent[w.a[i].TermIdx()])
			}
		} else {
			w.subtree(w.a[i].Left)
			if right := w.a[i].Right; right >= 0 {
				w.sb.WriteByte(' ')
				w.subtree(right)
			}
		}

	case w.disco:
		// frontier: the yield of the full subtree, gap-collapsed
		w.yieldRanges(i)
	}
	// continuous frontier: just the label

	w.sb.WriteByte(')')
}

// yieldRanges writes the terminal positions below node i as maximal
// runs "k:k'", space-separated.
func (w *subtreeWriter) yieldRanges(i int16) {
	terms := appendYield(w.a, i, nil)
	slices.Sort(terms)

	for k := 0; k < len(terms); {
		runEnd := k
		for runEnd+1 < len(terms) && terms[runEnd+1] == terms[runEnd]+1 {
			runEnd++
		}
		if k > 0 {
			w.sb.WriteByte(' ')
		}
		w.sb.WriteString(strconv.Itoa(terms[k]))
		w.sb.WriteByte(':')
		w.sb.WriteString(strconv.Itoa(terms[runEnd]))
		k = runEnd + 1
	}
}

// appendYield collects the terminal positions of the full subtree
// under node i, fragment bits ignored.
func appendYield(a []Node, i int16, terms []int) []int {
	if a[i].IsTerminal() {
		return append(terms, a[i].TermIdx())
	}
	terms = appendYield(a, a[i].Left, terms)
	if right := a[i].Right; right >= 0 {
		terms = appendYield(a, right, terms)
	}
	return terms
}
