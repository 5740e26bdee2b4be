// Package executor drains the job list through a bounded worker pool. Jobs
// are independent; a failed transfer is recorded and never stops its
// siblings. Only context cancellation stops the pool early.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"curator/internal/logging"
	"curator/internal/plan"
	"curator/internal/services"
	"curator/internal/transfer"
)

// Failure captures one per-job error.
type Failure struct {
	Job plan.Job
	Err error
}

// Result aggregates the pool outcome.
type Result struct {
	Completed int
	Failed    int
	Failures  []Failure
}

// Pool executes transfer jobs with bounded concurrency.
type Pool struct {
	strategy transfer.Strategy
	workers  int
	logger   *slog.Logger
}

// New constructs a pool. A non-positive worker count falls back to 1.
func New(strategy transfer.Strategy, workers int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		strategy: strategy,
		workers:  workers,
		logger:   logging.NewComponentLogger(logger, "executor"),
	}
}

// Run drains jobs and returns the aggregated result. The returned error is
// non-nil only when the context was cancelled; per-job failures live in the
// result.
func (p *Pool) Run(ctx context.Context, jobs []plan.Job) (*Result, error) {
	result := &Result{}
	if len(jobs) == 0 {
		return result, ctx.Err()
	}

	logger := logging.WithContext(ctx, p.logger)
	logger.Info(
		"starting transfer pool",
		logging.Int("jobs", len(jobs)),
		logging.Int("workers", p.workers),
		logging.String("strategy", p.strategy.Name()),
	)

	var mu sync.Mutex
	done := 0
	sampler := logging.NewProgressSampler(5)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.workers)

	for _, job := range jobs {
		if err := groupCtx.Err(); err != nil {
			break
		}
		job := job
		group.Go(func() error {
			err := p.transfer(groupCtx, job)

			mu.Lock()
			defer mu.Unlock()
			done++
			if err != nil {
				result.Failed++
				result.Failures = append(result.Failures, Failure{Job: job, Err: err})
				logger.Warn(
					"transfer failed",
					logging.String("source", job.Source),
					logging.String("destination", job.Destination),
					logging.Error(err),
				)
			} else {
				result.Completed++
			}
			if sampler.ShouldLog(done, len(jobs)) {
				logger.Info(
					"transfer progress",
					logging.Int("done", done),
					logging.Int("total", len(jobs)),
					logging.Int("failed", result.Failed),
				)
			}
			// Per-job failures never abort the group.
			return nil
		})
	}

	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		logger.Warn("transfer pool interrupted", logging.Int("done", done), logging.Int("total", len(jobs)))
		return result, err
	}
	return result, nil
}

// transfer runs one job, converting panics in a strategy into per-job errors
// so a bad job cannot take down the pool.
func (p *Pool) transfer(ctx context.Context, job plan.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = services.Wrap(services.ErrTransient, "executor", "transfer", fmt.Sprintf("panic: %v", r), nil)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.strategy.Transfer(ctx, job.Source, job.Destination)
}
