package main

import (
	"fmt"
	"log"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/carbocation/grs/cohort"
	"github.com/carbocation/grs/riskscore"
)

// scorer is satisfied by both RiskScore and MultiRiskScore.
type scorer interface {
	Calc(subject riskscore.Subject) float64
}

// scoreCohort scores every subject against the (immutable) model. Subjects
// are independent, so they are dispatched to a bounded worker pool;
// results land in a slice indexed by cohort input order, which keeps the
// output reproducible.
func scoreCohort(model scorer, c *cohort.Cohort, workers int) []float64 {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	scores := make([]float64, len(c.SubjectIDs))

	concurrencyLimit := make(chan struct{}, workers)
	pool := sync.WaitGroup{}

	for i, subjectID := range c.SubjectIDs {
		concurrencyLimit <- struct{}{}
		pool.Add(1)

		go func(i int, subject riskscore.Subject) {
			defer pool.Done()
			scores[i] = model.Calc(subject)
			<-concurrencyLimit
		}(i, c.Genotypes[subjectID])
	}

	pool.Wait()

	return scores
}

// printScores writes one subject per line in cohort input order. digits,
// when >= 0, rounds for display; the score itself is never rounded.
func printScores(c *cohort.Cohort, scores []float64, digits int) {
	for i, subjectID := range c.SubjectIDs {
		if digits >= 0 {
			fmt.Fprintf(STDOUT, "%s\t%.*f\n", subjectID, digits, scores[i])
		} else {
			fmt.Fprintf(STDOUT, "%s\t%v\n", subjectID, scores[i])
		}
	}
}

// summarize logs cohort-level score statistics.
func summarize(scores []float64) {
	if len(scores) == 0 {
		log.Println("no subjects scored")
		return
	}

	mean, std := stat.MeanStdDev(scores, nil)
	log.Printf("scored %d subjects: mean %.6f, sd %.6f\n", len(scores), mean, std)
}
