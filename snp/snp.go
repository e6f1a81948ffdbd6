// Package snp holds the variant-level identities used by the risk score
// engine: loci, weighted alleles, and observed genotypes. These are small
// comparable value types; equality of the derived keys is what drives both
// the flat weighted-sum lookup and multi-locus tree matching.
package snp

import (
	"sort"
	"strconv"
	"strings"
)

// Locus identifies a genomic site, either by a variant identifier (e.g. an
// rsID) or by chromosome and position.
type Locus struct {
	ID    string
	Chrom string
	Pos   int
}

// Site is the canonical lookup string for a locus: "chrom:pos" when both
// are known, otherwise the variant ID. Weight files may name a site either
// way; subject data registers every spelling it knows (see Sites) so the
// two collide regardless.
func (l Locus) Site() string {
	if l.Chrom != "" && l.Pos > 0 {
		return l.Chrom + ":" + strconv.Itoa(l.Pos)
	}

	return l.ID
}

// Sites returns every spelling under which this locus may be referenced:
// "chrom:pos" and the variant ID, when known.
func (l Locus) Sites() []string {
	sites := make([]string, 0, 2)
	if l.Chrom != "" && l.Pos > 0 {
		sites = append(sites, l.Chrom+":"+strconv.Itoa(l.Pos))
	}
	if l.ID != "" {
		sites = append(sites, l.ID)
	}

	return sites
}

// Resolvable reports whether the locus carries enough information to be
// matched at all.
func (l Locus) Resolvable() bool {
	return l.ID != "" || (l.Chrom != "" && l.Pos > 0)
}

// Key is the comparable identity of an allele or a genotype at one locus.
// Value is an allele symbol ("A") or a canonical genotype call ("A:T").
type Key struct {
	Site  string
	Value string
}

// Allele is one weighted allele at a locus.
type Allele struct {
	Locus
	Allele string
}

func (a Allele) Key() Key {
	return Key{Site: a.Site(), Value: a.Allele}
}

// AlleleDosage is an observed allele together with its expected dosage
// (real-valued for imputed genotypes).
type AlleleDosage struct {
	Allele string
	Dosage float64
}

// Genotype is one subject's observed call at a locus: the called alleles
// (one entry per copy, e.g. ["A","T"] or ["A","A"]) and the distinct
// alleles with their dosages. For hard calls the dosage is the copy count;
// imputed data may carry fractional dosages that differ from the call.
type Genotype struct {
	Locus
	Call    []string
	Alleles []AlleleDosage
}

// Key returns the genotype identity under the locus's primary site
// spelling, with the canonical (sorted) form of the call so that a "T/A"
// call from a VCF matches an "A:T" weight.
func (g Genotype) Key() Key {
	return Key{Site: g.Site(), Value: CanonicalCall(g.Call)}
}

// Keys returns the genotype identity under every site spelling the locus
// is known by. Subject candidate sets use all of them, so weights keyed by
// rsID and weights keyed by chrom:pos both match.
func (g Genotype) Keys() []Key {
	call := CanonicalCall(g.Call)

	var keys []Key
	for _, site := range g.Sites() {
		keys = append(keys, Key{Site: site, Value: call})
	}

	return keys
}

// CanonicalCall normalizes a genotype call to a sorted, colon-joined
// string. Diploid calls have no inherent allele order, so ["T","A"] and
// ["A","T"] are the same call.
func CanonicalCall(alleles []string) string {
	sorted := make([]string, len(alleles))
	copy(sorted, alleles)
	sort.Strings(sorted)

	return strings.Join(sorted, ":")
}

// NewGenotype builds a Genotype from a hard call, with per-allele dosages
// equal to copy counts.
func NewGenotype(locus Locus, call []string) Genotype {
	g := Genotype{Locus: locus, Call: call}

	counts := make(map[string]float64)
	order := make([]string, 0, len(call))
	for _, allele := range call {
		if _, seen := counts[allele]; !seen {
			order = append(order, allele)
		}
		counts[allele]++
	}
	for _, allele := range order {
		g.Alleles = append(g.Alleles, AlleleDosage{Allele: allele, Dosage: counts[allele]})
	}

	return g
}

// SplitCall breaks a raw genotype string ("A:T", "T/A", "A|T") into its
// allele symbols. Empty and missing ('.') alleles are dropped.
func SplitCall(call string) []string {
	fields := strings.FieldsFunc(call, func(r rune) bool {
		return r == ':' || r == '/' || r == '|'
	})

	out := fields[:0]
	for _, f := range fields {
		if f != "" && f != "." {
			out = append(out, f)
		}
	}

	return out
}
