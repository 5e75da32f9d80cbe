// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package treefrag

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadBrackets reads one bracket tree per line from r into the arena,
// assigning production ids through pm, and returns the parallel list
// of sentences.
//
// The format is Penn-style with a single space between label and
// children, already binarized; terminals are bare tokens. With disco
// the leaves are integer sentence positions instead, optionally
// followed by a tab and the space-separated sentence.
//
// A malformed tree aborts that tree but not the read: the offending
// line is skipped, its wrapped error collected in errs, and the arena
// stays uncorrupted since insertions are staged.
func ReadBrackets(r io.Reader, c *Ctrees, pm *ProdMap, disco bool) (sents [][]string, errs []error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var given []string
		if disco {
			if tree, rest, ok := strings.Cut(line, "\t"); ok {
				line = tree
				given = strings.Fields(rest)
			}
		}

		nodes, root, sent, err := parseBracketTree(line, pm, disco, given)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "line %d", lineno))
			continue
		}
		if disco && given != nil {
			sent = given
		}

		if _, err := c.PushFromNodes(nodes, root); err != nil {
			errs = append(errs, errors.Wrapf(err, "line %d", lineno))
			continue
		}
		sents = append(sents, sent)
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, errors.Wrap(err, "reading treebank"))
	}
	return sents, errs
}

// ast is the transient parse of one bracket node.
type ast struct {
	label    string
	leaf     string // terminal token, only set when children is nil
	isLeaf   bool
	children []*ast
}

// parseBracketTree parses one bracket line into arena nodes with local
// child indices in pre-order, plus the recovered sentence. The node
// slice is staged: the caller commits it via Ctrees.PushFromNodes.
// With disco, given is the sentence the integer leaves point into, so
// lexical productions key on the word, not on its position.
func parseBracketTree(line string, pm *ProdMap, disco bool, given []string) ([]Node, int16, []string, error) {
	pos := 0
	root, err := parseNode(line, &pos)
	if err != nil {
		return nil, 0, nil, err
	}
	for pos < len(line) {
		if line[pos] != ' ' {
			return nil, 0, nil, errors.Wrap(ErrMalformedTree, "trailing garbage")
		}
		pos++
	}

	b := treeBuilder{pm: pm, disco: disco, given: given, maxTerm: -1}
	rootIdx, _, err := b.build(root)
	if err != nil {
		return nil, 0, nil, err
	}

	if disco {
		// leaves carry positions, size the sentence for the yield
		b.sent = make([]string, b.maxTerm+1)
	}
	return b.nodes, rootIdx, b.sent, nil
}

// parseNode parses "(label child...)" where a child is a nested node
// or a bare token.
func parseNode(s string, pos *int) (*ast, error) {
	if *pos >= len(s) || s[*pos] != '(' {
		return nil, errors.Wrap(ErrMalformedTree, "expected open paren")
	}
	*pos++
	skipSpace(s, pos)

	label := scanToken(s, pos)
	if label == "" {
		return nil, errors.Wrap(ErrMalformedTree, "missing label")
	}
	n := &ast{label: label}

	for {
		skipSpace(s, pos)
		if *pos >= len(s) {
			return nil, errors.Wrap(ErrMalformedTree, "unbalanced parens")
		}
		switch s[*pos] {
		case ')':
			*pos++
			return n, nil
		case '(':
			child, err := parseNode(s, pos)
			if err != nil {
				return nil, err
			}
			n.children = append(n.children, child)
		default:
			tok := scanToken(s, pos)
			n.children = append(n.children, &ast{leaf: tok, isLeaf: true})
		}
	}
}

func skipSpace(s string, pos *int) {
	for *pos < len(s) && s[*pos] == ' ' {
		*pos++
	}
}

func scanToken(s string, pos *int) string {
	start := *pos
	for *pos < len(s) && s[*pos] != ' ' && s[*pos] != '(' && s[*pos] != ')' {
		*pos++
	}
	return s[start:*pos]
}

// treeBuilder flattens an ast into pre-order arena nodes.
type treeBuilder struct {
	pm    *ProdMap
	disco bool
	given []string // disco sentence for lexical production lookup

	nodes []Node
	sent  []string

	nextTerm int // continuous: running terminal position
	maxTerm  int // disco: highest position seen
}

// build appends the subtree under t and returns its index and label.
func (b *treeBuilder) build(t *ast) (int16, string, error) {
	idx := int16(len(b.nodes))
	b.nodes = append(b.nodes, Node{})

	switch {
	case len(t.children) == 1 && t.children[0].isLeaf:
		// preterminal
		tok := t.children[0].leaf
		var term int
		if b.disco {
			var err error
			if term, err = strconv.Atoi(tok); err != nil || term < 0 {
				return 0, "", errors.Wrapf(ErrMalformedTree, "bad terminal index %q", tok)
			}
			b.maxTerm = max(b.maxTerm, term)
			if term < len(b.given) {
				tok = b.given[term]
			}
		} else {
			term = b.nextTerm
			b.nextTerm++
			b.sent = append(b.sent, tok)
		}
		b.nodes[idx] = Node{
			Prod:  b.pm.ID(t.label, tok),
			Left:  int16(-(term + 1)),
			Right: -1,
		}

	case len(t.children) == 1:
		// unary
		left, leftLabel, err := b.build(t.children[0])
		if err != nil {
			return 0, "", err
		}
		b.nodes[idx] = Node{
			Prod:  b.pm.ID(t.label, leftLabel),
			Left:  left,
			Right: -1,
		}

	case len(t.children) == 2:
		if t.children[0].isLeaf || t.children[1].isLeaf {
			return 0, "", errors.Wrap(ErrMalformedTree, "terminal among non-terminal children")
		}
		left, leftLabel, err := b.build(t.children[0])
		if err != nil {
			return 0, "", err
		}
		right, rightLabel, err := b.build(t.children[1])
		if err != nil {
			return 0, "", err
		}
		b.nodes[idx] = Node{
			Prod:  b.pm.ID(t.label, leftLabel, rightLabel),
			Left:  left,
			Right: right,
		}

	case len(t.children) == 0:
		return 0, "", errors.Wrap(ErrMalformedTree, "node without children")

	default:
		return 0, "", errors.Wrapf(ErrNotBinarized, "node %s has %d children", t.label, len(t.children))
	}

	return idx, t.label, nil
}
