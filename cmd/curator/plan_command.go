package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curator/internal/reorg"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var showSkipped bool

	cmd := &cobra.Command{
		Use:   "plan <metadata_file> <source_dir> <output_dir>",
		Short: "Show what a reorganization run would do without copying anything",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.buildLogger()
			if err != nil {
				return err
			}

			runner, err := reorg.NewRunner(reorg.Options{
				MetadataPath: args[0],
				SourceDir:    args[1],
				OutputDir:    args[2],
			}, logger)
			if err != nil {
				return err
			}

			planCtx, cancel := signalContext(cmd)
			defer cancel()

			result, err := runner.BuildPlan(planCtx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			pairs := result.Plan.Pairs()
			rows := make([][]string, 0, len(pairs))
			for _, pair := range pairs {
				rows = append(rows, []string{pair.BaseModel, pair.EffectiveModel})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Base Model", "Effective Model"},
				rows,
			))

			fmt.Fprintf(out, "\n%d records, %d resolved, %d skipped, %d malformed, %d directories\n",
				result.Records,
				result.Plan.Resolved(),
				result.Plan.SkippedCount(),
				result.Malformed,
				len(result.Plan.Directories()))

			if showSkipped && len(result.Plan.Skipped) > 0 {
				fmt.Fprintln(out, "\nSkipped (not found in source tree):")
				for _, name := range result.Plan.Skipped {
					fmt.Fprintf(out, "  %s\n", name)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSkipped, "show-skipped", false, "List filenames that were not found in the source tree")
	return cmd
}
