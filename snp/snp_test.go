package snp

import (
	"reflect"
	"testing"
)

func TestLocusSite(t *testing.T) {
	if s := (Locus{ID: "rs123"}).Site(); s != "rs123" {
		t.Errorf("expected rs123, got %s", s)
	}
	if s := (Locus{Chrom: "1", Pos: 100}).Site(); s != "1:100" {
		t.Errorf("expected 1:100, got %s", s)
	}

	both := Locus{ID: "rs123", Chrom: "1", Pos: 100}
	if s := both.Site(); s != "1:100" {
		t.Errorf("chrom:pos should be the primary spelling, got %s", s)
	}
	if got := both.Sites(); !reflect.DeepEqual(got, []string{"1:100", "rs123"}) {
		t.Errorf("unexpected spellings %v", got)
	}
}

func TestLocusResolvable(t *testing.T) {
	if (Locus{}).Resolvable() {
		t.Error("empty locus should not be resolvable")
	}
	if (Locus{Chrom: "1"}).Resolvable() {
		t.Error("chromosome without position should not be resolvable")
	}
	if !(Locus{ID: "rs123"}).Resolvable() {
		t.Error("ID alone should be resolvable")
	}
	if !(Locus{Chrom: "1", Pos: 100}).Resolvable() {
		t.Error("chrom+pos should be resolvable")
	}
}

func TestAlleleKey(t *testing.T) {
	a := Allele{Locus: Locus{Chrom: "2", Pos: 200}, Allele: "G"}
	if key := a.Key(); key != (Key{Site: "2:200", Value: "G"}) {
		t.Errorf("unexpected key %v", key)
	}
}

func TestGenotypeKeyCanonicalOrder(t *testing.T) {
	locus := Locus{ID: "rs1"}
	g1 := NewGenotype(locus, []string{"T", "A"})
	g2 := NewGenotype(locus, []string{"A", "T"})

	if g1.Key() != g2.Key() {
		t.Errorf("allele order should not matter: %v vs %v", g1.Key(), g2.Key())
	}
	if g1.Key().Value != "A:T" {
		t.Errorf("expected A:T, got %s", g1.Key().Value)
	}
}

func TestNewGenotypeHomozygous(t *testing.T) {
	g := NewGenotype(Locus{ID: "rs1"}, []string{"A", "A"})

	if g.Key().Value != "A:A" {
		t.Errorf("expected A:A, got %s", g.Key().Value)
	}
	if len(g.Alleles) != 1 || g.Alleles[0].Dosage != 2 {
		t.Errorf("expected single allele with dosage 2, got %+v", g.Alleles)
	}
}

func TestGenotypeKeysAllSpellings(t *testing.T) {
	g := NewGenotype(Locus{ID: "rs1", Chrom: "1", Pos: 100}, []string{"A", "T"})
	want := []Key{{Site: "1:100", Value: "A:T"}, {Site: "rs1", Value: "A:T"}}

	if got := g.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSplitCall(t *testing.T) {
	for call, want := range map[string][]string{
		"A:T": {"A", "T"},
		"T/A": {"T", "A"},
		"A|A": {"A", "A"},
		"./.": nil,
	} {
		got := SplitCall(call)
		if len(got) == 0 && len(want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("SplitCall(%q) = %v, want %v", call, got, want)
		}
	}
}
