package caller

import (
	"runtime"
	"sync"
)

// positionJob identifies one codon-aligned position of one gene.
type positionJob struct {
	Seq       int
	GeneIndex int
	AbsPos    int // absolute 1-based position of the codon's first base
	CodonPos  int // 1-based codon number within the gene
}

// positionResult is the outcome of processing one position. Position is nil
// for skipped positions. Metrics holds this position's validation counters,
// merged by the collector rather than shared.
type positionResult struct {
	Seq      int
	Job      positionJob
	Census   Census
	Position *VariantPosition
	Metrics  Metrics
}

// runPositions fans jobs out to a worker pool. Results arrive in completion
// order; use collectOrdered to consume them in position order. If workers
// is 0, runtime.NumCPU() is used.
func runPositions(jobs []positionJob, workers int, fn func(positionJob) positionResult) <-chan positionResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	items := make(chan positionJob, 2*workers)
	results := make(chan positionResult, 2*workers)

	go func() {
		defer close(items)
		for _, j := range jobs {
			items <- j
		}
	}()

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := range items {
				results <- fn(j)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// collectOrdered calls fn for each result in sequence-number order,
// buffering out-of-order results until the next expected sequence number is
// available. Blocks until the results channel is closed.
func collectOrdered(results <-chan positionResult, fn func(positionResult)) {
	pending := make(map[int]positionResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r
		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			fn(rr)
		}
	}
}
