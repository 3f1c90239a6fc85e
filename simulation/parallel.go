package simulation

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/signalnine/sicmmab/strategy"
)

// RunBatchParallel executes the runs of cfg on a pool of workers.
// A non-positive worker count uses one worker per CPU. The aggregate is
// identical to RunBatch for the same seed.
func RunBatchParallel(ctx context.Context, cfg BatchConfig, seed uint64, numWorkers int) (AggregatedStats, error) {
	if err := cfg.Validate(); err != nil {
		return AggregatedStats{}, err
	}
	factory, err := strategy.NewFactory(cfg.Kind, cfg.strategyConfig(), cfg.logger())
	if err != nil {
		return AggregatedStats{}, err
	}
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > cfg.Runs {
		numWorkers = cfg.Runs
	}

	queue := make(chan RunJob, cfg.Runs)
	results := make(chan RunResult, cfg.Runs)

	g, ctx := errgroup.WithContext(ctx)

	// Start workers
	for w := 0; w < numWorkers; w++ {
		g.Go(func() error {
			return worker(ctx, queue, results, cfg, factory, seed)
		})
	}

	// Queue all jobs with deterministic seeds
	for _, job := range jobs(cfg.Runs, seed) {
		queue <- job
	}
	close(queue)

	var waitErr error
	go func() {
		waitErr = g.Wait()
		close(results)
	}()

	all := make([]RunResult, cfg.Runs)
	for res := range results {
		all[res.RunIndex] = res
	}
	if waitErr != nil {
		return AggregatedStats{}, waitErr
	}
	return aggregateResults(all, cfg.Horizon, seed), nil
}

// worker processes jobs until the queue drains or ctx is cancelled.
func worker(ctx context.Context, queue <-chan RunJob, results chan<- RunResult, cfg BatchConfig, factory strategy.Factory, seed uint64) error {
	for job := range queue {
		if err := ctx.Err(); err != nil {
			return err
		}
		results <- RunSingle(cfg, factory, job, seed)
	}
	return nil
}
