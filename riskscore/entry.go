// Package riskscore computes genetic risk scores: a weighted sum of a
// subject's allele dosages against a table of per-locus effect sizes,
// optionally extended with multi-locus (haplotype/diplotype) combination
// weights arranged in a priority-ordered tree.
package riskscore

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/carbocation/grs/snp"
	"github.com/carbocation/grs/weights"
)

// RiskEntry is one canonical weighted allele: a locus identity plus its
// effect size.
type RiskEntry struct {
	Allele snp.Allele
	Beta   float64
}

// IngestionError is a fatal malformed-weights diagnostic. It names the
// source so the user can tell which input file is at fault.
type IngestionError struct {
	Source string
	Row    int
	Reason string
}

func (e IngestionError) Error() string {
	return fmt.Sprintf("%s: row %d: %s", e.Source, e.Row, e.Reason)
}

// ReadRisks normalizes raw weight records into risk entries. Each record
// must yield a resolvable locus (CHROM+POS, or POSID, or RSID) and an
// allele symbol; beta is taken from BETA, else ln(ODDSRATIO), else 0.
// Malformed records are an error, never silently dropped. source is used
// only for diagnostics (typically the weights file name).
func ReadRisks(records []weights.Record, source string) ([]RiskEntry, error) {
	risks := make([]RiskEntry, 0, len(records))

	for i, record := range records {
		locus, err := resolveLocus(record, "")
		if err != nil {
			return nil, IngestionError{Source: source, Row: i + 1, Reason: err.Error()}
		}

		allele := record.Get("ALLELE", "")
		if allele == "" {
			return nil, IngestionError{Source: source, Row: i + 1, Reason: "no ALLELE given"}
		}
		if !locus.Resolvable() {
			return nil, IngestionError{Source: source, Row: i + 1, Reason: "no recognizable position (CHROM+POS, POSID, or RSID)"}
		}

		beta, err := resolveBeta(record)
		if err != nil {
			return nil, IngestionError{Source: source, Row: i + 1, Reason: err.Error()}
		}

		risks = append(risks, RiskEntry{
			Allele: snp.Allele{Locus: locus, Allele: allele},
			Beta:   beta,
		})
	}

	return risks, nil
}

// resolveLocus extracts a locus identity from a record. suffix is "" for
// single-locus records and "_1", "_2", … for multi-locus chain positions.
func resolveLocus(record weights.Record, suffix string) (snp.Locus, error) {
	posid := record.Get("POSID"+suffix, ":")

	chrom := record.Get("CHROM"+suffix, strings.SplitN(posid, ":", 2)[0])

	var pos int
	posField := record.Get("POS"+suffix, "")
	if posField == "" {
		if parts := strings.SplitN(posid, ":", 2); len(parts) == 2 {
			posField = splitPosID(parts[1])
		}
	}
	if posField != "" {
		p, err := strconv.Atoi(posField)
		if err != nil {
			return snp.Locus{}, fmt.Errorf("position %q is not an integer", posField)
		}
		pos = p
	}

	id := record.Get("ID"+suffix, record.Get("RSID"+suffix, ""))

	return snp.Locus{ID: id, Chrom: chrom, Pos: pos}, nil
}

// splitPosID trims any trailing allele annotation from the position part
// of a POSID such as "1:100_A_T".
func splitPosID(pos string) string {
	if i := strings.IndexByte(pos, '_'); i >= 0 {
		return pos[:i]
	}

	return pos
}

// resolveBeta returns the record's effect size: BETA verbatim when
// present, otherwise the natural log of ODDSRATIO, otherwise ln(1) = 0.
func resolveBeta(record weights.Record) (float64, error) {
	if b := record.Get("BETA", ""); b != "" {
		beta, err := strconv.ParseFloat(b, 64)
		if err != nil {
			return 0, fmt.Errorf("BETA %q is not a number", b)
		}
		return beta, nil
	}

	or := record.Get("ODDSRATIO", "1")
	oddsratio, err := strconv.ParseFloat(or, 64)
	if err != nil {
		return 0, fmt.Errorf("ODDSRATIO %q is not a number", or)
	}

	return math.Log(oddsratio), nil
}
