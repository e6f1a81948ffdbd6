// Package cohort loads subject genotype data for scoring, either from a
// VCF or from a paired geno/info file set. The two sources are mutually
// exclusive at the command line.
package cohort

import (
	"github.com/carbocation/grs/riskscore"
	"github.com/carbocation/grs/snp"
)

// Cohort is the scored population: per-subject genotype data plus the
// subject order of the input, which fixes output order for
// reproducibility.
type Cohort struct {
	SubjectIDs []string
	Genotypes  map[string]riskscore.Subject
}

func New(subjectIDs []string) *Cohort {
	c := &Cohort{
		SubjectIDs: subjectIDs,
		Genotypes:  make(map[string]riskscore.Subject, len(subjectIDs)),
	}
	for _, id := range subjectIDs {
		c.Genotypes[id] = make(riskscore.Subject)
	}

	return c
}

// Add records one observed genotype for a subject, keyed by the variant's
// primary site spelling.
func (c *Cohort) Add(subjectID string, g snp.Genotype) {
	subject, ok := c.Genotypes[subjectID]
	if !ok {
		subject = make(riskscore.Subject)
		c.Genotypes[subjectID] = subject
		c.SubjectIDs = append(c.SubjectIDs, subjectID)
	}

	subject[g.Site()] = g
}

// KnownLoci returns every locus spelling observed anywhere in the cohort,
// for validating weight files against the subject variant set.
func (c *Cohort) KnownLoci() map[string]bool {
	known := make(map[string]bool)
	for _, subject := range c.Genotypes {
		for _, g := range subject {
			for _, site := range g.Sites() {
				known[site] = true
			}
		}
	}

	return known
}
