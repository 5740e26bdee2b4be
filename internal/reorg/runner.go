// Package reorg orchestrates a full reorganization run: parse the metadata,
// index the source tree, build the copy plan, materialize the output
// taxonomy, and execute the transfers.
package reorg

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"curator/internal/deps"
	"curator/internal/executor"
	"curator/internal/logging"
	"curator/internal/metadata"
	"curator/internal/plan"
	"curator/internal/report"
	"curator/internal/runhistory"
	"curator/internal/services"
	"curator/internal/sourceindex"
	"curator/internal/taxonomy"
	"curator/internal/transfer"
)

const lockFileName = ".curator.lock"

// Options configures one run.
type Options struct {
	MetadataPath string
	SourceDir    string
	OutputDir    string
	Strategy     string
	Workers      int
	CopySidecars bool
	SkipExisting bool
	Verify       bool
	RsyncBinary  string
	RsyncArgs    []string

	// History is optional; when set, completed runs are recorded.
	History *runhistory.Store
}

// PlanResult holds the outcome of the read-only planning stages.
type PlanResult struct {
	Plan      *plan.Plan
	Index     *sourceindex.Index
	Records   int
	Malformed int
}

// Runner executes reorganization runs against a fixed set of options.
type Runner struct {
	opts   Options
	logger *slog.Logger
}

// NewRunner validates the options and returns a ready runner.
func NewRunner(opts Options, logger *slog.Logger) (*Runner, error) {
	if opts.MetadataPath == "" || opts.SourceDir == "" || opts.OutputDir == "" {
		return nil, services.Wrap(services.ErrInput, "reorg", "new", "metadata path, source dir, and output dir are required", nil)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{opts: opts, logger: logging.NewComponentLogger(logger, "reorg")}, nil
}

// BuildPlan runs the read-only stages: parse, index, plan. It does not touch
// the output directory.
func (r *Runner) BuildPlan(ctx context.Context) (*PlanResult, error) {
	parseCtx := logging.WithStage(ctx, "parse")
	parser, closer, err := metadata.Open(r.opts.MetadataPath)
	if err != nil {
		return nil, err
	}
	records, err := parser.ReadAll()
	closeErr := closer.Close()
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, services.Wrap(services.ErrInput, "reorg", "parse", "close metadata file", closeErr)
	}
	r.logger.InfoContext(parseCtx, "metadata parsed",
		logging.Int("records", len(records)),
		logging.Int("malformed", parser.Malformed()))

	indexCtx := logging.WithStage(ctx, "index")
	index, err := sourceindex.Build(indexCtx, r.opts.SourceDir)
	if err != nil {
		return nil, err
	}
	r.logger.InfoContext(indexCtx, "source tree indexed",
		logging.Int("files", index.FilesSeen()),
		logging.Int("unique_names", index.Len()),
		logging.Int("collisions", index.Collisions()))

	planCtx := logging.WithStage(ctx, "plan")
	planner := plan.NewPlanner(r.opts.OutputDir, index)
	for _, record := range records {
		planner.Add(record)
	}
	built := planner.Plan()
	r.logger.InfoContext(planCtx, "copy plan built",
		logging.Int("jobs", built.Resolved()),
		logging.Int("skipped", built.SkippedCount()),
		logging.Int("directories", len(built.Directories())))

	return &PlanResult{
		Plan:      built,
		Index:     index,
		Records:   len(records),
		Malformed: parser.Malformed(),
	}, nil
}

// Run executes the full pipeline and returns the run summary. Per-file
// transfer failures are counted in the summary, not returned as an error;
// the error return covers fatal conditions and cancellation.
func (r *Runner) Run(ctx context.Context) (report.Summary, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)
	started := time.Now()

	summary := report.Summary{
		RunID:    runID,
		Strategy: r.opts.Strategy,
		Workers:  r.opts.Workers,
	}

	logger.InfoContext(ctx, "reorganization started",
		logging.String("metadata", r.opts.MetadataPath),
		logging.String("source", r.opts.SourceDir),
		logging.String("output", r.opts.OutputDir),
		logging.String("strategy", r.opts.Strategy),
		logging.Int("workers", r.opts.Workers))

	unlock, err := r.acquireLock()
	if err != nil {
		return summary, err
	}
	defer unlock()

	result, err := r.BuildPlan(ctx)
	if err != nil {
		return summary, err
	}
	summary.Records = result.Records
	summary.Malformed = result.Malformed
	summary.Resolved = result.Plan.Resolved()
	summary.Skipped = result.Plan.SkippedCount()
	summary.Collisions = result.Index.Collisions()

	strategy, err := r.buildStrategy(result.Index)
	if err != nil {
		return summary, err
	}

	prepareCtx := logging.WithStage(ctx, "prepare")
	created, err := taxonomy.Materialize(prepareCtx, result.Plan.Directories())
	if err != nil {
		return summary, err
	}
	summary.DirsMade = created

	transferCtx := logging.WithStage(ctx, "transfer")
	pool := executor.New(strategy, r.opts.Workers, logger)
	poolResult, err := pool.Run(transferCtx, result.Plan.Jobs)
	if poolResult != nil {
		summary.Completed = poolResult.Completed
		summary.Failed = poolResult.Failed
	}
	summary.Elapsed = time.Since(started)
	if err != nil {
		return summary, err
	}

	for _, failure := range poolResult.Failures {
		logger.WarnContext(transferCtx, "transfer failed",
			logging.String("source", failure.Job.Source),
			logging.String("destination", failure.Job.Destination),
			logging.Error(failure.Err))
	}

	r.recordHistory(ctx, started, summary)

	logger.InfoContext(ctx, "reorganization finished",
		logging.Int("transferred", summary.Completed),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

// acquireLock takes an exclusive advisory lock under the output directory so
// concurrent runs against the same library cannot interleave.
func (r *Runner) acquireLock() (func(), error) {
	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "reorg", "lock", "create output directory", err)
	}
	lock := flock.New(filepath.Join(r.opts.OutputDir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "reorg", "lock", "acquire output lock", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "reorg", "lock", "another run is already using this output directory", nil)
	}
	return func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			r.logger.Warn("failed to release output lock", logging.Error(unlockErr))
		}
	}, nil
}

func (r *Runner) buildStrategy(index *sourceindex.Index) (transfer.Strategy, error) {
	requirements := deps.ForStrategy(r.opts.Strategy, r.opts.RsyncBinary)
	if missing := deps.Missing(deps.CheckBinaries(requirements)); len(missing) > 0 {
		return nil, services.Wrap(services.ErrConfiguration, "reorg", "strategy", missing[0].Detail, nil)
	}

	cfg := transfer.Config{
		SkipExisting: r.opts.SkipExisting,
		Verify:       r.opts.Verify,
		RsyncBinary:  r.opts.RsyncBinary,
		RsyncArgs:    r.opts.RsyncArgs,
	}
	if r.opts.CopySidecars {
		cfg.Sidecar = index.Lookup
	}
	strategy, err := transfer.ForName(r.opts.Strategy, cfg)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "reorg", "strategy", "select transfer strategy", err)
	}
	return strategy, nil
}

func (r *Runner) recordHistory(ctx context.Context, started time.Time, summary report.Summary) {
	if r.opts.History == nil {
		return
	}
	run := runhistory.Run{
		ID:           summary.RunID,
		StartedAt:    started,
		FinishedAt:   started.Add(summary.Elapsed),
		MetadataPath: r.opts.MetadataPath,
		SourceDir:    r.opts.SourceDir,
		OutputDir:    r.opts.OutputDir,
		Strategy:     r.opts.Strategy,
		Workers:      r.opts.Workers,
		Summary:      summary,
	}
	if err := r.opts.History.Record(ctx, run); err != nil {
		r.logger.WarnContext(ctx, "failed to record run history", logging.Error(err))
	}
}
