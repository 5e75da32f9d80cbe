// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package treefrag

import "github.com/gaissmai/treefrag/internal/bitset"

// matrix is the scratch for one tree pair: one fixed-width bitset row
// per node of tree b, bit i in row j set iff a[i] and b[j] carry the
// same production. The rows are stacked in a single word slice so a
// worker allocates it once and reuses it across all pairs.
type matrix struct {
	words bitset.BitSet
	slots int
}

func newMatrix(maxRows, slots int) matrix {
	return matrix{
		words: bitset.New(maxRows * slots),
		slots: slots,
	}
}

// row returns the bitset row of node j.
func (m matrix) row(j int16) bitset.BitSet {
	off := int(j) * m.slots
	return m.words[off : off+m.slots : off+m.slots]
}

// reset zeros the first rows rows.
func (m matrix) reset(rows int) {
	m.words[:rows*m.slots].ClearAll()
}

// fastTreeKernel fills the common-production matrix for the node
// arrays a and b, both sorted ascending by production id.
//
// Two cursors merge the arrays: on unequal productions the smaller
// side advances, on equality the contiguous runs of that production on
// either side are cross-marked pairwise and both cursors skip the
// runs. For treebanks, runs of repeated productions within one tree
// are short, so the average cost is near-linear instead of the
// quadratic all-pairs scan of Moschitti's formulation.
func fastTreeKernel(a, b []Node, m matrix) {
	alen, blen := len(a), len(b)

	i, j := 0, 0
	for i < alen && j < blen {
		switch {
		case a[i].Prod < b[j].Prod:
			i++
		case a[i].Prod > b[j].Prod:
			j++
		default:
			prod := a[i].Prod

			iEnd := i + 1
			for iEnd < alen && a[iEnd].Prod == prod {
				iEnd++
			}
			jEnd := j + 1
			for jEnd < blen && b[jEnd].Prod == prod {
				jEnd++
			}

			for jj := j; jj < jEnd; jj++ {
				row := m.row(int16(jj))
				for ii := i; ii < iEnd; ii++ {
					row.MustSet(uint(ii))
				}
			}

			i, j = iEnd, jEnd
		}
	}
}

// prodRun returns the index of the first node in the prod-sorted slice
// nodes carrying prod, or len(nodes) if there is none.
func prodRun(nodes []Node, prod int32) int {
	lo, hi := 0, len(nodes)
	for lo < hi {
		mid := (lo + hi) >> 1
		if nodes[mid].Prod < prod {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
