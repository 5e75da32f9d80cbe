// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package treefrag

import "strings"

// ProdMap assigns canonical ids to productions, globally across all
// treebanks of one run, and owns the label table. Append-only during
// ingest, frozen and read-only thereafter.
type ProdMap struct {
	ids    map[string]int32
	labels []string // lhs label per production id
}

// NewProdMap returns an empty production map.
func NewProdMap() *ProdMap {
	return &ProdMap{ids: map[string]int32{}}
}

// ID returns the canonical id of the production (lhs, rhs...),
// assigning a fresh one on first sight.
func (pm *ProdMap) ID(lhs string, rhs ...string) int32 {
	key := lhs + "\x1e" + strings.Join(rhs, "\x1f")
	if id, ok := pm.ids[key]; ok {
		return id
	}
	id := int32(len(pm.labels))
	pm.ids[key] = id
	pm.labels = append(pm.labels, lhs)
	return id
}

// NumProds returns the number of assigned productions.
func (pm *ProdMap) NumProds() int {
	return len(pm.labels)
}

// Label returns the lhs label of production p.
func (pm *ProdMap) Label(p int32) string {
	return pm.labels[p]
}
