// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package treefrag

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// The renumbering contract for discontinuous fragments: a set terminal
// renders as "(label k)", a frontier as "(label k:k' ...)" with one
// inclusive range per maximal run of its yield.
var (
	frontierOrTermRE = regexp.MustCompile(` ([0-9]+)(?::([0-9]+))?\b`)
	termIndexRE      = regexp.MustCompile(`\([^ ()]+ ([0-9]+)\)`)
)

// GetSent renumbers the terminal indices of a discontinuous fragment
// to a dense 0..m sequence, collapsing every gap to width one, and
// returns the rewritten fragment together with its sentence tuple:
// sent[k] for positions covered by a set terminal, nil for gaps and
// frontier yields.
//
//	GetSent("(S (NP 2) (VP 4))", []string{"The","tall","man","there","walks"})
//	  == "(S (NP 0) (VP 2))", ["man", nil, "walks"]
func GetSent(frag string, sent []string) (string, []*string) {
	// span start -> span end, single indices are width-one spans
	spans := map[int]int{}
	for _, m := range frontierOrTermRE.FindAllStringSubmatch(frag, -1) {
		start, _ := strconv.Atoi(m[1])
		end := start
		if m[2] != "" {
			end, _ = strconv.Atoi(m[2])
		}
		spans[start] = end
	}
	if len(spans) == 0 {
		return frag, nil
	}

	// positions covered by a set terminal, not by a frontier span
	isTerm := map[int]bool{}
	for _, m := range termIndexRE.FindAllStringSubmatch(frag, -1) {
		k, _ := strconv.Atoi(m[1])
		isTerm[k] = true
	}

	starts := make([]int, 0, len(spans))
	for n := range spans {
		starts = append(starts, n)
	}
	slices.Sort(starts)
	maxStart := starts[len(starts)-1]

	leafmap := map[int]int{}
	var newsent []*string

	next := 0
	for _, n := range starts {
		leafmap[n] = next
		next++

		if isTerm[n] && n < len(sent) && sent[n] != "" {
			tok := sent[n]
			newsent = append(newsent, &tok)
		} else {
			newsent = append(newsent, nil)
		}

		// a single nil slot per gap of any width
		if _, contiguous := spans[spans[n]+1]; !contiguous && n != maxStart {
			newsent = append(newsent, nil)
			next++
		}
	}

	renumbered := frontierOrTermRE.ReplaceAllStringFunc(frag, func(m string) string {
		num := m[1:] // strip the leading space
		if c := strings.IndexByte(num, ':'); c >= 0 {
			num = num[:c]
		}
		k, _ := strconv.Atoi(num)
		return " " + strconv.Itoa(leafmap[k])
	})

	return renumbered, newsent
}
