// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package treefrag_test

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gaissmai/treefrag"
)

func ExampleExtract() {
	input := `(S (NP (DT the) (NN dog)) (VP barks))
(S (NP (DT the) (NN cat)) (VP barks))`

	pm := treefrag.NewProdMap()
	c := treefrag.NewCtrees(2, 0)
	sents, _ := treefrag.ReadBrackets(strings.NewReader(input), c, pm, false)

	res := treefrag.Extract(c, sents, nil, nil, pm, treefrag.Options{Approx: true})

	keys := make([]string, 0, len(res.Counts))
	for key := range res.Counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Println(res.Counts[key], key)
	}
	// Output:
	// 2 (S (NP (DT the) (NN )) (VP barks))
}

func ExampleGetSent() {
	frag, sent := treefrag.GetSent(
		"(S (NP 2) (VP 4))",
		[]string{"The", "tall", "man", "there", "walks"},
	)

	toks := make([]string, len(sent))
	for i, tok := range sent {
		if tok == nil {
			toks[i] = "_"
		} else {
			toks[i] = *tok
		}
	}

	fmt.Println(frag)
	fmt.Println(strings.Join(toks, " "))
	// Output:
	// (S (NP 0) (VP 2))
	// man _ walks
}
