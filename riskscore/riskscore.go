package riskscore

import (
	"fmt"
	"log"

	"gopkg.in/guregu/null.v3"

	"github.com/carbocation/grs/snp"
	"github.com/carbocation/grs/weights"
)

// Subject is one subject's genotype data: a mapping from variant
// identifier to the observed genotype. The engine never mutates it.
type Subject map[string]snp.Genotype

// Candidates is a matching candidate set: every spelling-qualified
// identity the subject presents, mapped to a token naming the underlying
// observation. A locus known by both its rsID and its chrom:pos registers
// one key per spelling but a single token, so consuming either spelling
// consumes the observation itself.
type Candidates map[snp.Key]int

// GenotypeKeys returns the subject's genotype identities across all
// variants, the candidate set for genotype-keyed tree matching. All
// spellings of one genotype share a token.
func (s Subject) GenotypeKeys() Candidates {
	keys := make(Candidates)

	token := 0
	for _, gt := range s {
		for _, k := range gt.Keys() {
			keys[k] = token
		}
		token++
	}

	return keys
}

// AlleleKeys returns the subject's allele identities across all variants,
// the candidate set for allele-keyed tree matching. All spellings of one
// observed allele share a token.
func (s Subject) AlleleKeys() Candidates {
	keys := make(Candidates)

	token := 0
	for _, gt := range s {
		for _, ad := range gt.Alleles {
			for _, site := range gt.Sites() {
				keys[snp.Key{Site: site, Value: ad.Allele}] = token
			}
			token++
		}
	}

	return keys
}

// dosage is one observed allele dosage tagged with its observation token.
type dosage struct {
	token int
	value float64
}

// dosages flattens all alleles across all of the subject's genotypes into
// a spelling-qualified lookup. Every spelling of the same observation
// carries the same token, so Calc can tell two spellings of one allele
// apart from two alleles.
func (s Subject) dosages() map[snp.Key]dosage {
	out := make(map[snp.Key]dosage)

	token := 0
	for _, gt := range s {
		for _, ad := range gt.Alleles {
			for _, site := range gt.Sites() {
				out[snp.Key{Site: site, Value: ad.Allele}] = dosage{token: token, value: ad.Dosage}
			}
			token++
		}
	}

	return out
}

// RiskScore is the flat, additive risk score model: an ordered list of
// risk entries, a flattened identity→beta lookup, and a denominator. Built
// once, read-only afterward; Calc is safe for concurrent use.
type RiskScore struct {
	Risks []RiskEntry
	N     float64

	// beta holds the flattened lookup; order fixes summation order so
	// repeated Calc calls are bit-identical.
	beta  map[snp.Key]float64
	order []snp.Key
}

// Config carries the optional model settings.
type Config struct {
	// N overrides the denominator. When invalid, the denominator defaults
	// to the number of risk entries. Must be > 0 when set.
	N null.Float

	// KnownLoci, when non-nil, is the set of locus sites present in the
	// subject data. Entries absent from it are warned about (the usual
	// cause is mismatched weight and genotype files) but still scored.
	KnownLoci map[string]bool

	// Source names the weights input in diagnostics.
	Source string
}

// New builds a RiskScore from raw weight records.
func New(records []weights.Record, cfg Config) (*RiskScore, error) {
	source := cfg.Source
	if source == "" {
		source = "weights file"
	}

	risks, err := ReadRisks(records, source)
	if err != nil {
		return nil, err
	}

	return NewFromRisks(risks, cfg)
}

// NewFromRisks builds a RiskScore from already-normalized entries.
func NewFromRisks(risks []RiskEntry, cfg Config) (*RiskScore, error) {
	rs := &RiskScore{
		Risks: risks,
		N:     float64(len(risks)),
		beta:  make(map[snp.Key]float64, len(risks)),
	}

	if cfg.N.Valid {
		rs.N = cfg.N.Float64
	}
	if rs.N <= 0 {
		return nil, fmt.Errorf("denominator N (%v) for the arithmetic mean must be > 0", rs.N)
	}

	for _, risk := range risks {
		key := risk.Allele.Key()
		if _, seen := rs.beta[key]; !seen {
			rs.order = append(rs.order, key)
		}
		// Duplicate identities collapse; last in the file wins.
		rs.beta[key] = risk.Beta
	}

	if cfg.KnownLoci != nil {
		rs.validate(cfg.KnownLoci)
	}

	return rs, nil
}

// validate warns for weighted loci that are absent from the subject
// variant set. Non-fatal: the missing locus simply scores a dosage of 0.
func (rs *RiskScore) validate(known map[string]bool) {
	for _, risk := range rs.Risks {
		found := false
		for _, site := range risk.Allele.Sites() {
			if known[site] {
				found = true
				break
			}
		}
		if !found {
			log.Printf("warning: weighted allele %s:%s not found in subject data; did you provide the correct subject variants?",
				risk.Allele.Site(), risk.Allele.Allele)
		}
	}
}

// Calc computes the subject's additive risk score: the dosage-weighted sum
// of betas over the denominator. A locus missing from the subject
// contributes 0. One physical observation satisfies at most one weight
// entry: a second entry naming the same allele under another spelling
// finds the observation already consumed. Pure: no state is mutated and
// identical inputs yield identical results.
func (rs *RiskScore) Calc(subject Subject) float64 {
	dosages := subject.dosages()

	wsum := 0.0
	used := make(map[int]bool, len(rs.order))
	for _, key := range rs.order {
		d, ok := dosages[key]
		if !ok || used[d.token] {
			continue
		}
		used[d.token] = true

		wsum += rs.beta[key] * d.value
	}

	return wsum / rs.N
}
