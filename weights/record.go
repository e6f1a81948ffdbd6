// Package weights reads tabular risk-weight files into raw records. A
// weight file has exactly one header line; columns are identified by name
// and unrecognized names are ignored. The delimiter (tab, comma, or space)
// is auto-detected and compressed files are decompressed transparently.
package weights

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"

	"github.com/carbocation/pfx"

	"github.com/carbocation/grs"
)

// Record is one raw row of a weights file, keyed by header column name.
type Record map[string]string

// Get returns the value of the named field, or def when the field is
// absent or empty.
func (r Record) Get(field, def string) string {
	if v, ok := r[field]; ok && v != "" {
		return v
	}

	return def
}

// Read parses a delimited weights table from r. The first non-comment line
// is the header; every subsequent line becomes one Record. Jagged rows are
// permitted (missing trailing fields are simply absent from the record).
func Read(r io.Reader) ([]Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	delim := grs.DetectDelimiter(bytes.NewReader(raw))

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = delim
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var header []string
	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}

		if header == nil {
			header = row
			continue
		}

		record := make(Record, len(header))
		for i, name := range header {
			if i >= len(row) {
				break
			}
			record[name] = row[i]
		}
		records = append(records, record)
	}

	return records, nil
}

// Open reads a weights file from disk, decompressing if needed.
func Open(path string) ([]Record, error) {
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

	return Read(fd)
}
