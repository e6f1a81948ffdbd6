package main

import (
	"flag"
	"io"
	"log"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"

	"github.com/carbocation/grs/riskscore"
	"github.com/carbocation/grs/weights"
)

// parseDenominator turns the -n flag into an optional override. An empty
// flag means "use the default" (the number of weight entries).
func parseDenominator(raw string) null.Float {
	if raw == "" {
		return null.Float{}
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errlog.Fatalf("-n (%q) must be a number\n", raw)
	}

	return null.FloatFrom(n)
}

func addLogFlag(fs *flag.FlagSet) *string {
	return fs.String("log", "warning", "Logging level: debug, info, warning, error, or critical.")
}

// configureLogging applies the -log level. Everything the tool logs
// non-fatally (mismatch warnings, the --stats summary) is at or below
// warning, so levels above warning silence the default logger; fatal
// diagnostics go through errlog and always reach stderr.
func configureLogging(level string) {
	switch strings.ToLower(level) {
	case "debug", "info", "warning":
	case "error", "critical":
		log.SetOutput(io.Discard)
	default:
		errlog.Fatalf("invalid -log level %q; valid levels: debug, info, warning, error, critical", level)
	}
}

// runAggregate computes the plain additive score from user-provided
// weights.
func runAggregate(args []string) {
	fs := flag.NewFlagSet("aggregate", flag.ExitOnError)
	cf := addCohortFlags(fs)
	weightsPath := fs.String("weights", "", "Single-locus risk weights file.")
	denominator := fs.String("n", "", "Denominator for the arithmetic mean of scores. Set to 1 to disable mean calculation. Default: number of weight entries.")
	workers := fs.Int("workers", 0, "Concurrent scoring workers. Default: number of CPUs.")
	stats := fs.Bool("stats", false, "Log mean and standard deviation of the cohort's scores.")
	logLevel := addLogFlag(fs)
	fs.Parse(args)
	configureLogging(*logLevel)

	if *weightsPath == "" {
		fs.PrintDefaults()
		errlog.Fatalln("Please provide --weights")
	}

	c, err := cf.load()
	fatalIfErr(err)

	records, err := weights.Open(*weightsPath)
	fatalIfErr(err)

	model, err := riskscore.New(records, riskscore.Config{
		N:         parseDenominator(*denominator),
		KnownLoci: c.KnownLoci(),
		Source:    *weightsPath,
	})
	fatalIfErr(err)

	scores := scoreCohort(model, c, *workers)
	printScores(c, scores, -1)
	if *stats {
		summarize(scores)
	}
}

// multiArgs are the flags shared by the published multi-locus methods.
type multiArgs struct {
	cf       *cohortFlags
	weights  *string
	multi    *string
	workers  *int
	stats    *bool
	logLevel *string
}

func addMultiFlags(fs *flag.FlagSet) *multiArgs {
	return &multiArgs{
		cf:       addCohortFlags(fs),
		weights:  fs.String("weights", "", "Single-locus risk weights file."),
		multi:    fs.String("multilocus", "", "Multi-locus risk weights file."),
		workers:  fs.Int("workers", 0, "Concurrent scoring workers. Default: number of CPUs."),
		stats:    fs.Bool("stats", false, "Log mean and standard deviation of the cohort's scores."),
		logLevel: addLogFlag(fs),
	}
}

func runMulti(name string, args []string,
	build func(records, multiRecords []weights.Record, cfg riskscore.Config) (*riskscore.MultiRiskScore, error)) {

	fs := flag.NewFlagSet(name, flag.ExitOnError)
	ma := addMultiFlags(fs)
	fs.Parse(args)
	configureLogging(*ma.logLevel)

	if *ma.weights == "" || *ma.multi == "" {
		fs.PrintDefaults()
		errlog.Fatalln("Please provide --weights and --multilocus")
	}

	c, err := ma.cf.load()
	fatalIfErr(err)

	records, err := weights.Open(*ma.weights)
	fatalIfErr(err)

	multiRecords, err := weights.Open(*ma.multi)
	fatalIfErr(err)

	model, err := build(records, multiRecords, riskscore.Config{
		KnownLoci: c.KnownLoci(),
		Source:    *ma.weights,
	})
	fatalIfErr(err)

	scores := scoreCohort(model, c, *ma.workers)

	// The published methods report scores rounded to 4 decimals.
	printScores(c, scores, 4)
	if *ma.stats {
		summarize(scores)
	}
}

func runOram2016(args []string) {
	runMulti("oram2016", args, riskscore.NewOram2016)
}

func runSharp2019(args []string) {
	runMulti("sharp2019", args, riskscore.NewSharp2019)
}

// runPGSCatalog scores against a scoring file downloaded from the PGS
// Catalog (https://www.pgscatalog.org/).
func runPGSCatalog(args []string) {
	fs := flag.NewFlagSet("pgscatalog", flag.ExitOnError)
	cf := addCohortFlags(fs)
	pgsPath := fs.String("pgs", "", "Scoring file obtained from the PGS Catalog.")
	denominator := fs.String("n", "", "Denominator for the arithmetic mean of scores. Default: number of weight entries.")
	workers := fs.Int("workers", 0, "Concurrent scoring workers. Default: number of CPUs.")
	stats := fs.Bool("stats", false, "Log mean and standard deviation of the cohort's scores.")
	logLevel := addLogFlag(fs)
	fs.Parse(args)
	configureLogging(*logLevel)

	if *pgsPath == "" {
		fs.PrintDefaults()
		errlog.Fatalln("Please provide --pgs")
	}

	c, err := cf.load()
	fatalIfErr(err)

	records, err := weights.OpenPGSCatalog(*pgsPath)
	fatalIfErr(err)

	model, err := riskscore.New(records, riskscore.Config{
		N:         parseDenominator(*denominator),
		KnownLoci: c.KnownLoci(),
		Source:    *pgsPath,
	})
	fatalIfErr(err)

	scores := scoreCohort(model, c, *workers)
	printScores(c, scores, -1)
	if *stats {
		summarize(scores)
	}
}
