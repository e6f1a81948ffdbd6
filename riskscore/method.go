package riskscore

import (
	"github.com/carbocation/grs/weights"
)

// Policy parametrizes a published scoring method: how the base denominator
// is transformed at construction, and how matches from the multi-locus
// tree are combined into the score's multi-locus contribution.
type Policy interface {
	TransformN(n float64) float64
	Combine(t *Tree, subject Subject) float64
}

// genericPolicy keeps the base denominator and takes the single
// best-matching (highest priority) genotype-keyed chain.
type genericPolicy struct{}

func (genericPolicy) TransformN(n float64) float64 { return n }

func (genericPolicy) Combine(t *Tree, subject Subject) float64 {
	return t.Match(subject.GenotypeKeys())
}

// oramPolicy implements Oram et al 2016 (doi:10.2337/dc15-1111): the
// generic matching rule with the denominator transformed to 2·(N+1).
type oramPolicy struct {
	genericPolicy
}

func (oramPolicy) TransformN(n float64) float64 { return 2 * (n + 1) }

// sharpPolicy implements Sharp et al 2019 (doi:10.2337/dc18-1785). The
// denominator is fixed to 1. Haplotype pairs with a defined interaction
// take their joint weight via the generic genotype match; otherwise each
// haplotype of the pair scores independently via the allele-keyed
// collection, capped at the first two collected values.
type sharpPolicy struct{}

func (sharpPolicy) TransformN(float64) float64 { return 1 }

func (sharpPolicy) Combine(t *Tree, subject Subject) float64 {
	collected := collect(t, subject.GenotypeKeys(), subject.AlleleKeys())

	sum := 0.0
	for i, v := range collected {
		if i == 2 {
			break
		}
		sum += v
	}

	return sum
}

// collect gathers matched betas Sharp-style: at every level the generic
// single-chain match is tried first and, when it yields a nonzero value,
// wins as a one-element result; otherwise every allele-keyed child
// reachable from the candidate alleles contributes, recursing with the
// same rule. Unlike the generic walk, the allele candidates are not
// reduced on descent, but one observed allele still satisfies at most one
// sibling per level: a second sibling naming the same allele under
// another spelling is skipped.
func collect(t *Tree, genotypes, alleles Candidates) []float64 {
	if t == nil || t.root == nil {
		return nil
	}

	return collectNode(t.root, genotypes, alleles)
}

func collectNode(n *node, genotypes, alleles Candidates) []float64 {
	if v := match(n, genotypes); v != 0 {
		return []float64{v}
	}

	if n.leaf() {
		return []float64{n.beta}
	}

	var out []float64
	taken := make(map[int]bool, len(n.order))
	for _, key := range n.order {
		token, ok := alleles[key]
		if !ok || taken[token] {
			continue
		}
		taken[token] = true

		out = append(out, collectNode(n.children[key], genotypes, alleles)...)
	}

	return out
}

// MultiRiskScore extends the flat model with a multi-locus weight tree and
// a combination policy. Like RiskScore, it is immutable after
// construction.
type MultiRiskScore struct {
	*RiskScore
	Tree *Tree

	policy Policy
}

// NewMulti builds the generic multi-locus model: flat weights plus a
// genotype-keyed tree, single best-chain matching, untransformed
// denominator.
func NewMulti(records, multiRecords []weights.Record, cfg Config) (*MultiRiskScore, error) {
	return newMulti(records, multiRecords, cfg, genericPolicy{}, false)
}

// NewOram2016 builds the Oram et al 2016 model.
func NewOram2016(records, multiRecords []weights.Record, cfg Config) (*MultiRiskScore, error) {
	return newMulti(records, multiRecords, cfg, oramPolicy{}, false)
}

// NewSharp2019 builds the Sharp et al 2019 model. Its tree carries both
// genotype-keyed chains and allele-keyed chains from the same records.
func NewSharp2019(records, multiRecords []weights.Record, cfg Config) (*MultiRiskScore, error) {
	return newMulti(records, multiRecords, cfg, sharpPolicy{}, true)
}

func newMulti(records, multiRecords []weights.Record, cfg Config, policy Policy, alleleChains bool) (*MultiRiskScore, error) {
	rs, err := New(records, cfg)
	if err != nil {
		return nil, err
	}

	source := cfg.Source
	if source == "" {
		source = "multilocus weights file"
	}

	tree, err := BuildTree(multiRecords, source)
	if err != nil {
		return nil, err
	}
	if alleleChains {
		for i, record := range multiRecords {
			if err := tree.Insert(record, AlleleChainKey, source, i+1); err != nil {
				return nil, err
			}
		}
	}

	rs.N = policy.TransformN(rs.N)

	return &MultiRiskScore{
		RiskScore: rs,
		Tree:      tree,
		policy:    policy,
	}, nil
}

// Calc computes the subject's total score: the flat additive score plus
// the policy's multi-locus contribution over the same denominator. A
// subject matching no multi-locus combination receives no contribution;
// that is not an error.
func (m *MultiRiskScore) Calc(subject Subject) float64 {
	wsum := m.RiskScore.Calc(subject)

	if mrs := m.policy.Combine(m.Tree, subject); mrs != 0 {
		wsum += mrs / m.N
	}

	return wsum
}
