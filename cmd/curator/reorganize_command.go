package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/reorg"
	"curator/internal/report"
)

func newReorganizeCommand(ctx *commandContext) *cobra.Command {
	var workersFlag int
	var strategyFlag string
	var noSidecars bool

	cmd := &cobra.Command{
		Use:   "reorganize <metadata_file> <source_dir> <output_dir> [worker_count] [strategy]",
		Short: "Copy files into the output taxonomy described by the metadata",
		Long: `Reorganize reads the metadata CSV, indexes every file under the source
directory, and transfers each referenced file into
<output_dir>/<base_model>/<effective_model>/<filename>.

Records whose file cannot be found in the source tree are skipped and
counted; per-file transfer failures do not abort the run.`,
		Args: cobra.RangeArgs(3, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			// Config < flag < positional argument.
			workers := cfg.Reorganize.Workers
			strategy := cfg.Reorganize.Strategy
			if cmd.Flags().Changed("workers") {
				workers = workersFlag
			}
			if cmd.Flags().Changed("strategy") {
				strategy = strategyFlag
			}
			if len(args) > 3 {
				parsed, err := strconv.Atoi(strings.TrimSpace(args[3]))
				if err != nil || parsed < 1 {
					return fmt.Errorf("worker_count must be a positive integer, got %q", args[3])
				}
				workers = parsed
			}
			if len(args) > 4 {
				strategy = strings.TrimSpace(args[4])
			}

			logger, err := ctx.buildLogger()
			if err != nil {
				return err
			}

			history, err := ctx.openHistory()
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			if history != nil {
				defer history.Close()
			}

			runner, err := reorg.NewRunner(reorg.Options{
				MetadataPath: args[0],
				SourceDir:    args[1],
				OutputDir:    args[2],
				Strategy:     strategy,
				Workers:      workers,
				CopySidecars: cfg.Reorganize.CopySidecars && !noSidecars,
				SkipExisting: cfg.Reorganize.SkipExisting,
				Verify:       cfg.Reorganize.Verify,
				RsyncBinary:  cfg.Rsync.Binary,
				RsyncArgs:    cfg.Rsync.ExtraArgs,
				History:      history,
			}, logger)
			if err != nil {
				return err
			}

			runCtx, cancel := signalContext(cmd)
			defer cancel()

			summary, err := runner.Run(runCtx)
			if err != nil {
				return err
			}

			printSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().IntVar(&workersFlag, "workers", 0, "Number of parallel transfer workers")
	cmd.Flags().StringVar(&strategyFlag, "strategy", "", "Transfer strategy: copy, rsync, symlink, or move")
	cmd.Flags().BoolVar(&noSidecars, "no-sidecars", false, "Do not copy matching .json sidecar files")
	return cmd
}

func printSummary(cmd *cobra.Command, summary report.Summary) {
	out := cmd.OutOrStdout()
	if isTerminal(out) {
		fmt.Fprintln(out, summary.Render())
		return
	}
	fmt.Fprintf(out, "records=%d malformed=%d resolved=%d skipped=%d transferred=%d failed=%d elapsed=%s throughput=%.1f\n",
		summary.Records,
		summary.Malformed,
		summary.Resolved,
		summary.Skipped,
		summary.Completed,
		summary.Failed,
		summary.Elapsed.Round(time.Millisecond),
		summary.Throughput())
}
