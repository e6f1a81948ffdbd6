package cohort

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/carbocation/pfx"

	"github.com/carbocation/grs"
	"github.com/carbocation/grs/snp"
)

// FromGenoInfo reads a cohort from a paired geno/info file set (the format
// produced by SNPextractor-style tools). The info file is a variant table
// with ID and optional CHROM/POS columns. The geno file has a header of
// "ID" followed by one column per subject, and one row per variant whose
// cells are genotype call strings such as "A:T" or "A/T"; empty or missing
// ('.') calls are skipped for that subject.
func FromGenoInfo(geno, info io.Reader) (*Cohort, error) {
	loci, err := readInfo(info)
	if err != nil {
		return nil, err
	}

	rows, err := readTable(geno)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("geno file is empty")
	}

	header := rows[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("geno file header must name a variant ID column and at least one subject")
	}

	c := New(header[1:])

	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		variantID := row[0]
		locus, ok := loci[variantID]
		if !ok {
			locus = snp.Locus{ID: variantID}
		}

		for i, call := range row[1:] {
			if i >= len(c.SubjectIDs) {
				break
			}

			alleles := snp.SplitCall(call)
			if len(alleles) == 0 {
				continue
			}

			c.Add(c.SubjectIDs[i], snp.NewGenotype(locus, alleles))
		}
	}

	return c, nil
}

// readInfo parses the variant table into loci keyed by variant ID.
func readInfo(r io.Reader) (map[string]snp.Locus, error) {
	rows, err := readTable(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("info file is empty")
	}

	header := make(map[string]int)
	for i, name := range rows[0] {
		header[name] = i
	}
	idCol, ok := header["ID"]
	if !ok {
		return nil, fmt.Errorf("info file has no ID column")
	}

	loci := make(map[string]snp.Locus, len(rows)-1)
	for _, row := range rows[1:] {
		if idCol >= len(row) || row[idCol] == "" {
			continue
		}

		locus := snp.Locus{ID: row[idCol]}
		if c, ok := header["CHROM"]; ok && c < len(row) {
			locus.Chrom = row[c]
		}
		if p, ok := header["POS"]; ok && p < len(row) {
			if pos, err := strconv.Atoi(row[p]); err == nil {
				locus.Pos = pos
			}
		}

		loci[locus.ID] = locus
	}

	return loci, nil
}

// readTable reads a delimited file with auto-detected delimiter, '#'
// comments, and jagged rows permitted.
func readTable(r io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = grs.DetectDelimiter(bytes.NewReader(raw))
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}

	return rows, nil
}

// OpenGenoInfo reads a cohort from geno and info files on disk,
// decompressing either if needed.
func OpenGenoInfo(genoPath, infoPath string) (*Cohort, error) {
	geno, err := openMaybeCompressed(genoPath)
	if err != nil {
		return nil, err
	}
	defer geno.Close()

	info, err := openMaybeCompressed(infoPath)
	if err != nil {
		return nil, err
	}
	defer info.Close()

	return FromGenoInfo(geno, info)
}

func openMaybeCompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	fd, err := grs.MaybeDecompress(f)
	if err != nil {
		f.Close()
		return nil, pfx.Err(err)
	}

	return struct {
		io.Reader
		io.Closer
	}{fd, multiCloser{fd, f}}, nil
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var err error
	for _, c := range m {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	return err
}
