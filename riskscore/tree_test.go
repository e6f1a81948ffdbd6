package riskscore

import (
	"testing"

	"github.com/carbocation/grs/snp"
	"github.com/carbocation/grs/weights"
)

func key(site, value string) snp.Key {
	return snp.Key{Site: site, Value: value}
}

// candidates builds a candidate set in which every key is its own
// observation.
func candidates(keys ...snp.Key) Candidates {
	set := make(Candidates, len(keys))
	for i, k := range keys {
		set[k] = i
	}

	return set
}

func TestBuildTreeSingleChain(t *testing.T) {
	records := []weights.Record{
		{"ID_1": "rsA", "GENOTYPE_1": "A:T", "ID_2": "rsB", "GENOTYPE_2": "C:C", "BETA": "1.0"},
	}

	tree, err := BuildTree(records, "multi.weights")
	if err != nil {
		t.Fatal(err)
	}

	both := candidates(key("rsA", "A:T"), key("rsB", "C:C"))
	if got := tree.Match(both); got != 1.0 {
		t.Errorf("full chain should match, got %v", got)
	}

	partial := candidates(key("rsA", "A:T"))
	if got := tree.Match(partial); got != 0 {
		t.Errorf("prefix-only match should contribute 0, got %v", got)
	}
}

func TestTreePriorityOrder(t *testing.T) {
	// Two single-level chains; the first-defined must win even when both
	// match.
	records := []weights.Record{
		{"ID_1": "rsA", "GENOTYPE_1": "A:A", "BETA": "1.0"},
		{"ID_1": "rsB", "GENOTYPE_1": "G:G", "BETA": "2.0"},
	}

	tree, err := BuildTree(records, "multi.weights")
	if err != nil {
		t.Fatal(err)
	}

	both := candidates(key("rsA", "A:A"), key("rsB", "G:G"))
	if got := tree.Match(both); got != 1.0 {
		t.Errorf("first-defined sibling should win, got %v", got)
	}

	onlySecond := candidates(key("rsB", "G:G"))
	if got := tree.Match(onlySecond); got != 2.0 {
		t.Errorf("second sibling should match when first is absent, got %v", got)
	}
}

func TestTreeExclusionOnDescent(t *testing.T) {
	// A chain requiring the same genotype twice can never match, because
	// the matched key is excluded from the candidates on descent.
	records := []weights.Record{
		{"ID_1": "rsA", "GENOTYPE_1": "A:A", "ID_2": "rsA", "GENOTYPE_2": "A:A", "BETA": "1.0"},
	}

	tree, err := BuildTree(records, "multi.weights")
	if err != nil {
		t.Fatal(err)
	}

	if got := tree.Match(candidates(key("rsA", "A:A"))); got != 0 {
		t.Errorf("the same genotype must not satisfy two chain positions, got %v", got)
	}
}

func TestTreeExclusionAcrossSpellings(t *testing.T) {
	// The chain names the same locus first by rsID and then by chrom:pos.
	// A subject carrying that genotype once, under both spellings, must
	// not satisfy both positions with it.
	records := []weights.Record{
		{"ID_1": "rsA", "GENOTYPE_1": "A:T", "CHROM_2": "1", "POS_2": "100", "GENOTYPE_2": "A:T", "BETA": "1.0"},
	}

	tree, err := BuildTree(records, "multi.weights")
	if err != nil {
		t.Fatal(err)
	}

	one := subjectWith(
		snp.NewGenotype(snp.Locus{ID: "rsA", Chrom: "1", Pos: 100}, []string{"A", "T"}),
	)
	if got := tree.Match(one.GenotypeKeys()); got != 0 {
		t.Errorf("one genotype must not satisfy two chain positions via its spellings, got %v", got)
	}

	two := subjectWith(
		snp.NewGenotype(snp.Locus{ID: "rsA"}, []string{"A", "T"}),
		snp.NewGenotype(snp.Locus{Chrom: "1", Pos: 100}, []string{"A", "T"}),
	)
	if got := tree.Match(two.GenotypeKeys()); got != 1.0 {
		t.Errorf("two distinct genotypes should satisfy the chain, got %v", got)
	}
}

func TestTreeNoMatch(t *testing.T) {
	records := []weights.Record{
		{"ID_1": "rsC", "GENOTYPE_1": "A:A", "BETA": "1.0"},
	}

	tree, err := BuildTree(records, "multi.weights")
	if err != nil {
		t.Fatal(err)
	}

	subject := candidates(key("rsA", "A:A"), key("rsB", "G:G"))
	if got := tree.Match(subject); got != 0 {
		t.Errorf("no-match should contribute 0, got %v", got)
	}
}

func TestTreeSharedPrefix(t *testing.T) {
	records := []weights.Record{
		{"ID_1": "rsA", "GENOTYPE_1": "A:A", "ID_2": "rsB", "GENOTYPE_2": "C:C", "BETA": "1.0"},
		{"ID_1": "rsA", "GENOTYPE_1": "A:A", "ID_2": "rsB", "GENOTYPE_2": "C:T", "BETA": "2.0"},
	}

	tree, err := BuildTree(records, "multi.weights")
	if err != nil {
		t.Fatal(err)
	}

	if got := tree.Match(candidates(key("rsA", "A:A"), key("rsB", "C:T"))); got != 2.0 {
		t.Errorf("second chain under the shared prefix should match, got %v", got)
	}
}

func TestTreeSkipsRecordWithoutFirstKey(t *testing.T) {
	records := []weights.Record{
		{"BETA": "9.0"},
		{"ID_1": "rsA", "GENOTYPE_1": "A:A", "BETA": "1.0"},
	}

	tree, err := BuildTree(records, "multi.weights")
	if err != nil {
		t.Fatal(err)
	}

	if got := tree.Match(candidates(key("rsA", "A:A"))); got != 1.0 {
		t.Errorf("keyless record should be ignored, got %v", got)
	}
}

func TestTreeGenotypeCallNormalization(t *testing.T) {
	records := []weights.Record{
		{"ID_1": "rsA", "GENOTYPE_1": "T:A", "BETA": "1.0"},
	}

	tree, err := BuildTree(records, "multi.weights")
	if err != nil {
		t.Fatal(err)
	}

	g := snp.NewGenotype(snp.Locus{ID: "rsA"}, []string{"A", "T"})
	if got := tree.Match(candidates(g.Key())); got != 1.0 {
		t.Errorf("call order should not matter, got %v", got)
	}
}

func TestTreePOSIDChainLocus(t *testing.T) {
	records := []weights.Record{
		{"POSID_1": "1:100", "GENOTYPE_1": "A:A", "BETA": "1.0"},
	}

	tree, err := BuildTree(records, "multi.weights")
	if err != nil {
		t.Fatal(err)
	}

	if got := tree.Match(candidates(key("1:100", "A:A"))); got != 1.0 {
		t.Errorf("POSID_1-derived locus should match, got %v", got)
	}
}

func TestTreeBadBetaIsFatal(t *testing.T) {
	records := []weights.Record{
		{"ID_1": "rsA", "GENOTYPE_1": "A:A", "BETA": "strong"},
	}

	if _, err := BuildTree(records, "multi.weights"); err == nil {
		t.Error("unparsable beta should be a fatal ingestion error")
	}
}

func TestTreeLaterLeafReplacesSubtree(t *testing.T) {
	records := []weights.Record{
		{"ID_1": "rsA", "GENOTYPE_1": "A:A", "ID_2": "rsB", "GENOTYPE_2": "C:C", "BETA": "1.0"},
		{"ID_1": "rsA", "GENOTYPE_1": "A:A", "BETA": "3.0"},
	}

	tree, err := BuildTree(records, "multi.weights")
	if err != nil {
		t.Fatal(err)
	}

	if got := tree.Match(candidates(key("rsA", "A:A"))); got != 3.0 {
		t.Errorf("later terminating chain should replace the subtree, got %v", got)
	}
}
