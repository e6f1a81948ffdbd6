package weights

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"

	"github.com/carbocation/grs"
)

// pgsRow maps the named columns of a PGS Catalog scoring file. Format:
// https://www.pgscatalog.org/downloads/#scoring_columns
type pgsRow struct {
	RSID         string `csv:"rsID"`
	ChrName      string `csv:"chr_name"`
	ChrPosition  string `csv:"chr_position"`
	EffectAllele string `csv:"effect_allele"`
	EffectWeight string `csv:"effect_weight"`
}

// ReadPGSCatalog reads a PGS Catalog scoring table and renames its columns
// into the canonical Record shape consumed by the risk score model. PGS
// scoring files are tab-delimited with '#' metadata lines.
func ReadPGSCatalog(r io.Reader) ([]Record, error) {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.Comma = '\t'
		cr.Comment = '#'
		cr.LazyQuotes = true
		return cr
	})

	rows := []*pgsRow{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, pfx.Err(err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record{
			"RSID":   row.RSID,
			"CHROM":  row.ChrName,
			"POS":    row.ChrPosition,
			"ALLELE": row.EffectAllele,
			"BETA":   row.EffectWeight,
		})
	}

	return records, nil
}

// OpenPGSCatalog reads a PGS Catalog scoring file from disk, decompressing
// if needed (the catalog distributes scores gzipped).
func OpenPGSCatalog(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	fd, err := grs.MaybeDecompress(f)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer fd.Close()

	return ReadPGSCatalog(fd)
}
