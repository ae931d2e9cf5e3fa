package ingest

import (
	"sync"

	"git.home.luguber.info/inful/apimark/internal/store"
)

type partitionResult struct {
	Partition store.Partition
	Err       error
}

// parseAll fans file parsing out over a bounded worker set and returns one
// partition per input file, in input order. Ordered results keep the
// partition merge deterministic, which matters for stable duplicate-uid
// reporting.
func parseAll(files []string, concurrency int, parse func(string) (store.Partition, error)) []partitionResult {
	if len(files) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(files) {
		concurrency = len(files)
	}

	sem := make(chan struct{}, concurrency)
	results := make([]partitionResult, len(files))

	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			part, err := parse(file)
			results[i] = partitionResult{Partition: part, Err: err}
		}(i, file)
	}
	wg.Wait()
	return results
}
