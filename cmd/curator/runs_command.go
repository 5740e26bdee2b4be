package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent reorganization runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := ctx.openHistory()
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			if history == nil {
				return fmt.Errorf("run history is disabled; enable it in the [history] config section")
			}
			defer history.Close()

			runs, err := history.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.StartedAt.Local().Format(time.DateTime),
					shortID(run.ID),
					run.Strategy,
					strconv.Itoa(run.Workers),
					strconv.Itoa(run.Summary.Records),
					strconv.Itoa(run.Summary.Completed),
					strconv.Itoa(run.Summary.Skipped),
					strconv.Itoa(run.Summary.Failed),
					run.Summary.Elapsed.Round(time.Second).String(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Run", "Strategy", "Workers", "Records", "Done", "Skipped", "Failed", "Elapsed"},
				rows,
				3, 4, 5, 6, 7, 8,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
