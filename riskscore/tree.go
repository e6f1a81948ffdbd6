package riskscore

import (
	"strconv"

	"github.com/carbocation/grs/snp"
	"github.com/carbocation/grs/weights"
)

// Tree is the multi-locus weight tree: a decision list over conjunctive
// chains of genotype (or allele) identities, terminating in effect sizes.
// Sibling order is insertion order and is semantically meaningful: when a
// subject could satisfy several defined combinations, the one defined
// first in the weights file wins. Published risk models list their
// haplotype/diplotype combinations in exactly this priority order, with a
// fallback default last.
type Tree struct {
	root *node
}

type node struct {
	// order preserves first-insertion order of the sibling keys.
	order    []snp.Key
	children map[snp.Key]*node

	// Terminal effect size. A node with no children is a leaf.
	beta float64
}

func newNode() *node {
	return &node{children: make(map[snp.Key]*node)}
}

func (n *node) leaf() bool {
	return len(n.children) == 0
}

func (n *node) child(key snp.Key) *node {
	c, ok := n.children[key]
	if !ok {
		c = newNode()
		n.children[key] = c
		n.order = append(n.order, key)
	}

	return c
}

// chainStep is the discriminated result of reading one chain position of a
// multi-locus record: either "descend with this key" or "the chain is
// finished here".
type chainStep struct {
	key      snp.Key
	terminal bool
}

// keyFunc extracts the chain key at 1-based index i of a record, reporting
// terminal when no key is resolvable there. The generic model keys chains
// by genotype identity; the Sharp model additionally keys them by allele
// identity.
type keyFunc func(record weights.Record, i int) chainStep

// GenotypeChainKey reads GENOTYPE_i plus the locus fields at index i.
func GenotypeChainKey(record weights.Record, i int) chainStep {
	call := record.Get("GENOTYPE_"+strconv.Itoa(i), "")
	if call == "" {
		return chainStep{terminal: true}
	}

	locus, err := resolveLocus(record, "_"+strconv.Itoa(i))
	if err != nil || !locus.Resolvable() {
		return chainStep{terminal: true}
	}

	return chainStep{key: snp.Key{
		Site:  locus.Site(),
		Value: snp.CanonicalCall(snp.SplitCall(call)),
	}}
}

// AlleleChainKey reads ALLELE_i plus the locus fields at index i.
func AlleleChainKey(record weights.Record, i int) chainStep {
	allele := record.Get("ALLELE_"+strconv.Itoa(i), "")
	if allele == "" {
		return chainStep{terminal: true}
	}

	locus, err := resolveLocus(record, "_"+strconv.Itoa(i))
	if err != nil || !locus.Resolvable() {
		return chainStep{terminal: true}
	}

	return chainStep{key: snp.Key{Site: locus.Site(), Value: allele}}
}

// Insert folds one multi-locus record into the tree under the given key
// extractor. Records lacking even a first key are skipped (not an error).
// A record whose chain revisits an existing prefix reuses the existing
// sub-nodes; a chain terminating where a subtree exists replaces that
// subtree, and a chain extending through an existing leaf replaces the
// leaf (last in the file wins, matching the flat model's duplicate rule).
func (t *Tree) Insert(record weights.Record, key keyFunc, source string, row int) error {
	if step := key(record, 1); step.terminal {
		return nil
	}

	beta, err := resolveBeta(record)
	if err != nil {
		return IngestionError{Source: source, Row: row, Reason: err.Error()}
	}

	if t.root == nil {
		t.root = newNode()
	}

	n := t.root
	for i := 1; ; i++ {
		step := key(record, i)
		if step.terminal {
			n.beta = beta
			n.children = make(map[snp.Key]*node)
			n.order = nil
			break
		}
		n = n.child(step.key)
	}

	return nil
}

// BuildTree constructs the multi-locus weight tree from raw records using
// genotype-identity chain keys (the generic model).
func BuildTree(records []weights.Record, source string) (*Tree, error) {
	t := &Tree{root: newNode()}

	for i, record := range records {
		if err := t.Insert(record, GenotypeChainKey, source, i+1); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Match walks the tree by sibling priority: at each node the first child
// key (in insertion order) present in candidates is followed, with the
// matched observation excluded from the candidates passed further down so
// one genotype cannot satisfy two chain positions, no matter which
// spelling either position names it by. A leaf yields its beta. No match
// yields 0, even when a longer chain's prefix matched.
func (t *Tree) Match(candidates Candidates) float64 {
	if t == nil || t.root == nil {
		return 0
	}

	return match(t.root, candidates)
}

func match(n *node, candidates Candidates) float64 {
	if n.leaf() {
		return n.beta
	}

	for _, key := range n.order {
		if token, ok := candidates[key]; ok {
			return match(n.children[key], without(candidates, token))
		}
	}

	return 0
}

// without returns a copy of the candidate set minus every spelling of one
// observation. Chains are short, so the copy is cheap.
func without(candidates Candidates, token int) Candidates {
	out := make(Candidates, len(candidates))
	for k, tok := range candidates {
		if tok != token {
			out[k] = tok
		}
	}

	return out
}

