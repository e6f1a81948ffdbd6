package cohort

import (
	"io"
	"log"
	"os"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/carbocation/vcfgo"

	"github.com/carbocation/grs"
	"github.com/carbocation/grs/snp"
)

// FromVCF reads an entire VCF into a cohort. Genotype calls come from the
// GT field; when a biallelic site carries a DS (imputed dosage) field, the
// dosages are taken from it instead of the hard call's allele counts.
// Reading the whole VCF into memory is deliberate; pre-filter large files
// with bcftools or similar first.
func FromVCF(r io.Reader) (*Cohort, error) {
	rdr, err := vcfgo.NewReader(r, false)
	if err != nil {
		return nil, pfx.Err(err)
	}

	c := New(rdr.Header.SampleNames)

	for {
		variant := rdr.Read()
		if variant == nil {
			break
		}

		if err := rdr.Header.ParseSamples(variant); err != nil {
			log.Println("sample parsing:", err)
		}

		locus := snp.Locus{
			ID:    variant.Id(),
			Chrom: variant.Chromosome,
			Pos:   int(variant.Pos),
		}
		if locus.ID == "." {
			locus.ID = ""
		}

		siteAlleles := append([]string{variant.Ref()}, variant.Alt()...)

		for i, sample := range variant.Samples {
			if i >= len(rdr.Header.SampleNames) {
				break
			}
			if sample == nil || len(sample.GT) == 0 {
				continue
			}

			call := make([]string, 0, len(sample.GT))
			missing := false
			for _, gt := range sample.GT {
				if gt < 0 || gt >= len(siteAlleles) {
					missing = true
					break
				}
				call = append(call, siteAlleles[gt])
			}
			if missing || len(call) == 0 {
				continue
			}

			g := snp.NewGenotype(locus, call)
			if ds, ok := sample.Fields["DS"]; ok && len(variant.Alt()) == 1 {
				if dosage, err := strconv.ParseFloat(ds, 64); err == nil {
					g = withImputedDosage(g, variant.Ref(), variant.Alt()[0], dosage)
				}
			}

			c.Add(rdr.Header.SampleNames[i], g)
		}
	}

	// The vcfgo reader accumulates soft errors; none of them should abort
	// a scoring run, but the user should see them.
	if err := rdr.Error(); err != nil {
		log.Println("vcf:", err)
		rdr.Clear()
	}

	return c, nil
}

// withImputedDosage replaces the hard-call dosages with the imputed alt
// dosage: the alt allele carries DS copies, the ref allele the remaining
// 2-DS. The call itself is unchanged.
func withImputedDosage(g snp.Genotype, ref, alt string, dosage float64) snp.Genotype {
	out := g
	out.Alleles = make([]snp.AlleleDosage, len(g.Alleles))

	for i, ad := range g.Alleles {
		switch ad.Allele {
		case alt:
			ad.Dosage = dosage
		case ref:
			ad.Dosage = 2 - dosage
		}
		out.Alleles[i] = ad
	}

	return out
}

// OpenVCF reads a cohort from a VCF file on disk, decompressing if needed.
func OpenVCF(path string) (*Cohort, error) {
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

	return FromVCF(fd)
}
