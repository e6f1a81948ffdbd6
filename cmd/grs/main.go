// grs calculates a Genetic Risk Score for every subject in a cohort based
// on predefined risk weights.
//
// Weights and genotype data are read once at startup; each subject is then
// scored independently against the immutable model.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/carbocation/grs/cohort"
)

const Version = "1.3"

var (
	BufferSize = 4096
	STDOUT     = bufio.NewWriterSize(os.Stdout, BufferSize)

	// errlog reports fatal problems. Unlike the default logger it is
	// never silenced by -log.
	errlog = log.New(os.Stderr, "", log.LstdFlags)
)

func main() {
	defer STDOUT.Flush()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "aggregate":
		runAggregate(os.Args[2:])
	case "oram2016":
		runOram2016(os.Args[2:])
	case "sharp2019":
		runSharp2019(os.Args[2:])
	case "pgscatalog":
		runPGSCatalog(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Println("grs", Version)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: grs <command> [options]

Commands:
  aggregate   Aggregated (linear) risk score from user-provided weights
  oram2016    Risk score per Oram et al 2016 (doi:10.2337/dc15-1111)
  sharp2019   Risk score per Sharp et al 2019 (doi:10.2337/dc18-1785)
  pgscatalog  Risk score from a PGS Catalog scoring file (pgscatalog.org)
  version     Print the program version

Weight files are column-based with one header line; columns are identified
by name (ALLELE, BETA, CHROM, ODDSRATIO, POS, POSID; multi-locus files use
ALLELE_#, CHROM_#, GENOTYPE_#, ID_#, POS_#, POSID_#). Tab, comma, and
space delimiters are auto-detected, as is compression.

Run 'grs <command> -h' for command options.`)
}

// cohortFlags are the subject-data inputs shared by every command: either
// a VCF, or a geno/info file pair, never both.
type cohortFlags struct {
	vcf  string
	geno string
	info string
}

func addCohortFlags(fs *flag.FlagSet) *cohortFlags {
	cf := &cohortFlags{}
	fs.StringVar(&cf.vcf, "vcf", "", "VCF file with subject genotypes. The entire file is read into memory; pre-filter large files with 'bcftools view --regions' or similar.")
	fs.StringVar(&cf.geno, "geno", "", "Geno file of the type created by SNPextractor. Requires --info.")
	fs.StringVar(&cf.info, "info", "", "Info file of the type created by SNPextractor. Requires --geno.")

	return cf
}

// load enforces that EITHER a VCF OR both geno and info files were given.
func (cf *cohortFlags) load() (*cohort.Cohort, error) {
	haveVCF := cf.vcf != ""
	havePair := cf.geno != "" && cf.info != ""

	if haveVCF == havePair {
		return nil, fmt.Errorf("specify EITHER --vcf OR BOTH --geno and --info")
	}

	if haveVCF {
		return cohort.OpenVCF(cf.vcf)
	}

	return cohort.OpenGenoInfo(cf.geno, cf.info)
}

func fatalIfErr(err error) {
	if err != nil {
		errlog.Fatalln(err)
	}
}
