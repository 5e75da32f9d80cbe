// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package treefrag

import (
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	bbset "github.com/bits-and-blooms/bitset"
	"github.com/gaissmai/treefrag/internal/bitset"
)

// DefaultContentTags matches the part-of-speech labels counted as
// content words by the two-terminals pair filter: nouns, adjectives,
// adverbs, verbs, foreign words and cardinals.
var DefaultContentTags = regexp.MustCompile(`^(?:NN(?:PS?|S)?|JJ[RS]?|RB[RS]?|VB[DGNPZ]?|FW|CD)$`)

// Options steers one extraction pass. The zero value extracts all
// pairs, exact-mode, continuous.
type Options struct {
	// Approx counts maximal occurrences in a histogram instead of
	// keeping one representative fragment per key for later exact
	// counting.
	Approx bool

	// Disco renders terminal indices and renumbers fragments with
	// GetSent; keys carry the sentence tuple.
	Disco bool

	// Complement additionally emits, per source tree, every maximal
	// connected region not covered by the extracted fragments.
	Complement bool

	// TwoTerms restricts pairs to trees sharing two lexical items
	// including one content word, and raises the minimum terminal
	// count of emitted fragments to two.
	TwoTerms bool

	// Adjacent pairs each tree only with its successor.
	Adjacent bool

	// Debug enables per-tree progress logging.
	Debug bool

	// Offset and End bound the shard [Offset, End) over the first
	// treebank; End <= 0 means its length.
	Offset, End int

	// ContentTags overrides DefaultContentTags for TwoTerms.
	ContentTags *regexp.Regexp

	// Logger receives the debug output, stderr console if nil.
	Logger *zerolog.Logger
}

// Result aggregates one shard: a histogram keyed by the rendered
// fragment (approx) or one representative fragment per key (exact).
// Discontinuous keys are "fragment\tsentence tuple".
type Result struct {
	Counts    map[string]int
	Fragments map[string]*Fragment
}

// Merge folds other into r with multiset addition; for representative
// fragments the first one wins. Shards merge in any order.
func (r *Result) Merge(other *Result) {
	for key, cnt := range other.Counts {
		r.Counts[key] += cnt
	}
	for key, frag := range other.Fragments {
		if _, ok := r.Fragments[key]; !ok {
			r.Fragments[key] = frag
		}
	}
}

// Extract finds the maximal connected common subtrees of every
// enumerated tree pair between t1 and t2 and aggregates them per
// rendered fragment key. t2 == nil compares t1 against itself,
// enumerating each unordered pair once.
//
// The worker owns its kernel matrix and scratch bitsets, allocated
// once and reused across all pairs; the arenas and production map are
// only read. Callers shard t1 via Options.Offset/End across workers
// and merge the results.
func Extract(t1 *Ctrees, sents1 [][]string, t2 *Ctrees, sents2 [][]string, pm *ProdMap, o Options) *Result {
	// second-bank sentences are accepted for interface symmetry, keys
	// always render with the source (first bank) sentence
	sameBank := t2 == nil || t2 == t1
	if t2 == nil {
		t2, sents2 = t1, sents1
	}
	_ = sents2

	logger := zerolog.Nop()
	if o.Debug {
		if o.Logger != nil {
			logger = *o.Logger
		} else {
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
		}
	}

	contentTags := o.ContentTags
	if contentTags == nil {
		contentTags = DefaultContentTags
	}

	minTerms := 0
	if o.TwoTerms {
		minTerms = 2
	}

	slots := max(t1.Slots(), t2.Slots())
	w := &extractWorker{
		t1: t1, t2: t2,
		sents1:   sents1,
		pm:       pm,
		o:        o,
		sameBank: sameBank,
		minTerms: minTerms,
		tags:     contentTags,
		m:        newMatrix(t2.MaxNodes(), slots),
		scratch:  bitset.New(slots),
		union:    bitset.New(slots),
		log:      logger,
		res: &Result{
			Counts:    map[string]int{},
			Fragments: map[string]*Fragment{},
		},
	}

	offset := max(0, o.Offset)
	end := o.End
	if end <= 0 || end > t1.Len() {
		end = t1.Len()
	}

	for n := offset; n < end; n++ {
		w.extractTree(uint32(n))
	}
	return w.res
}

type extractWorker struct {
	t1, t2   *Ctrees
	sents1   [][]string
	pm       *ProdMap
	o        Options
	sameBank bool
	minTerms int
	tags     *regexp.Regexp

	m       matrix
	scratch bitset.BitSet
	union   bitset.BitSet

	log zerolog.Logger
	res *Result
}

// extractTree runs tree n of the first treebank against all of its
// enumerated partners and, with Complement set, emits the uncovered
// regions afterwards.
func (w *extractWorker) extractTree(n uint32) {
	a := w.t1.Nodes(n)
	emitted := 0

	// a fragment of a same-bank pair occurs maximally in both trees;
	// the mirrored pair (m, n) is never enumerated
	inc := 1
	if w.sameBank {
		inc = 2
	}

	emit := func(root int16) {
		emitted++
		w.emit(n, a, root, inc)
		if w.o.Complement {
			w.union.UnionInPlace(w.scratch)
		}
	}

	if w.o.Complement {
		w.union.ClearAll()
	}

	pair := func(m uint32) {
		b := w.t2.Nodes(m)
		w.m.reset(len(b))
		fastTreeKernel(a, b, w.m)
		extractBitsets(a, b, w.m, w.t2.Tree(m).Root, w.minTerms, w.scratch, emit)
	}

	switch {
	case w.o.Adjacent:
		if m := n + 1; int(m) < w.t2.Len() {
			pair(m)
		}

	case w.o.TwoTerms:
		cands := w.twoTermCandidates(a)
		for m, ok := cands.NextSet(0); ok; m, ok = cands.NextSet(m + 1) {
			if w.sameBank && uint32(m) <= n {
				continue
			}
			pair(uint32(m))
		}

	default:
		start := uint32(0)
		if w.sameBank {
			start = n + 1
		}
		for m := start; int(m) < w.t2.Len(); m++ {
			pair(m)
		}
	}

	if w.o.Complement {
		complementBitsets(a, w.union, w.t1.Tree(n).Root, w.scratch, func(root int16) {
			w.emit(n, a, root, 1)
		})
	}

	w.log.Debug().
		Uint32("tree", n).
		Int("fragments", emitted).
		Msg("extracted")
}

// emit keys the scratch fragment by its rendered string and folds it
// into the shard result.
func (w *extractWorker) emit(n uint32, a []Node, root int16, inc int) {
	sent := w.sents1[n]
	key := renderSubtree(a, w.scratch, root, w.pm, sent, w.o.Disco)

	if w.o.Disco {
		frag, tuple := GetSent(key, sent)
		key = frag + "\t" + sentKey(tuple)
	}

	if w.o.Approx {
		w.res.Counts[key] += inc
		return
	}
	if _, ok := w.res.Fragments[key]; !ok {
		w.res.Fragments[key] = newFragment(w.scratch, n, root)
	}
}

// twoTermCandidates selects the partner trees sharing with tree a at
// least one content-word production and one other lexical production:
// the union over such (content, lexical) pairs of the intersected
// per-production tree sets.
func (w *extractWorker) twoTermCandidates(a []Node) *bbset.BitSet {
	if !w.t2.HasProdIndex() {
		panic("treefrag: production index not built")
	}
	acc := bbset.New(uint(w.t2.Len()))

	for i, ni := range a {
		if !ni.IsTerminal() || !w.tags.MatchString(w.pm.Label(ni.Prod)) {
			continue
		}
		ti := w.t2.TreesWithProd(ni.Prod)
		if ti == nil {
			continue
		}
		for k, nk := range a {
			if k == i || !nk.IsTerminal() {
				continue
			}
			tk := w.t2.TreesWithProd(nk.Prod)
			if tk == nil {
				continue
			}
			both := ti.Clone()
			both.InPlaceIntersection(tk)
			acc.InPlaceUnion(both)
		}
	}
	return acc
}

// sentKey flattens a sentence tuple for use in a map key, gaps and
// frontier yields render as a hyphen placeholder.
func sentKey(tuple []*string) string {
	parts := make([]string, len(tuple))
	for i, tok := range tuple {
		if tok == nil {
			parts[i] = "-"
		} else {
			parts[i] = *tok
		}
	}
	return strings.Join(parts, " ")
}
