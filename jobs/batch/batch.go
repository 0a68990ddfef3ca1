package batch

import (
	"context"
	"runtime"
	"sync"

	"github.com/maelgrv/spotflex/core/availability"
	"github.com/maelgrv/spotflex/core/pricing"
)

// Request describes one multi-period aggregation run over a shared
// classified series. The series is read-only for the duration of the run.
type Request struct {
	Records    []pricing.ClassifiedRecord
	Periods    []availability.Period
	Thresholds []float64
	PowersMW   []float64
	MinSample  int
	// Workers bounds the pool size; <= 0 means GOMAXPROCS.
	Workers int
}

// Run aggregates every period of the request. Periods are independent and
// the input immutable, so they fan out over a bounded worker pool with no
// shared mutable state. Results come back in period order regardless of
// completion order. A canceled context stops the pool early and returns
// ctx.Err(); no partial results are handed out.
func Run(ctx context.Context, req Request) ([]availability.PeriodResult, error) {
	workers := req.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(req.Periods) {
		workers = len(req.Periods)
	}
	if workers == 0 {
		return nil, nil
	}

	results := make([]availability.PeriodResult, len(req.Periods))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = availability.Aggregate(req.Records, req.Periods[i], req.Thresholds, req.PowersMW, req.MinSample)
			}
		}()
	}

	var err error
feed:
	for i := range req.Periods {
		if err = ctx.Err(); err != nil {
			break feed
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if err != nil {
		return nil, err
	}
	return results, nil
}
