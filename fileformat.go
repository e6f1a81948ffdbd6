// Package grs provides the file plumbing shared by the genetic risk score
// tooling: weight tables and subject genotype files may arrive compressed
// and with any common column delimiter, and the readers in this module
// normalize both before the domain packages see the data.
package grs

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/csimplestring/go-csv/detector"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type Compression byte

const (
	CompressionUnknown Compression = iota
	CompressionNone
	CompressionGzip
	CompressionZip
	CompressionXZ
	CompressionZ
	CompressionBZip2
)

// Magic byte signatures from https://stackoverflow.com/a/19127748/199475
var compressionSigs = map[Compression][]byte{
	CompressionGzip:  {0x1f, 0x8b, 0x08},
	CompressionZip:   {0x50, 0x4b, 0x03, 0x04},
	CompressionXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	CompressionZ:     {0x1f, 0x9d},
	CompressionBZip2: {0x42, 0x5a, 0x68},
}

// DetectCompression sniffs the leading bytes of r against known compression
// signatures. It consumes up to 6 bytes from r.
func DetectCompression(r io.Reader) (Compression, error) {
	buff := make([]byte, 6)
	if _, err := io.ReadAtLeast(r, buff, 1); err == io.EOF {
		// Empty input is trivially uncompressed.
		return CompressionNone, nil
	} else if err != nil {
		return CompressionUnknown, err
	}

Sigs:
	for compression, sig := range compressionSigs {
		for i := range sig {
			if buff[i] != sig[i] {
				continue Sigs
			}
		}
		return compression, nil
	}

	return CompressionNone, nil
}

// MaybeDecompress wraps r in the appropriate decompressor if its leading
// bytes match a known compression signature, and otherwise returns r
// unchanged (rewound to the start). r is assumed to be positioned at the
// start of the stream.
func MaybeDecompress(r io.ReadSeeker) (io.ReadCloser, error) {
	compression, err := DetectCompression(r)
	if err != nil {
		return nil, err
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	switch compression {
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionZip:
		return readCloser{zipstream.NewReader(r)}, nil
	case CompressionBZip2:
		return readCloser{bzip2.NewReader(r)}, nil
	case CompressionXZ:
		xzr, err := xz.NewReader(r, 0)
		if err != nil {
			return nil, err
		}
		return readCloser{xzr}, nil
	case CompressionZ:
		// compress(1) .Z data is LZW with header flags the stdlib lzw
		// reader does not speak.
		return nil, fmt.Errorf("input is compress(1) .Z data, which is not supported; recompress with gzip or xz")
	}

	// Nothing matched; assume the stream is uncompressed.
	return readCloser{r}, nil
}

// DetectDelimiter returns the most likely column delimiter for a tabular
// stream, defaulting to tab when detection is inconclusive. The weight and
// genotype file formats accepted by this module may be tab, comma, or space
// separated.
func DetectDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return '\t'
}

// readCloser upgrades readers that have no Close of their own.
type readCloser struct {
	io.Reader
}

func (readCloser) Close() error { return nil }
