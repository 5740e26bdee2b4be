package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"curator/internal/sourceindex"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <source_dir>",
		Short: "Index a source tree and report what it contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scanCtx, cancel := signalContext(cmd)
			defer cancel()

			index, err := sourceindex.Build(scanCtx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Metric", "Value"},
				[][]string{
					{"Files seen", strconv.Itoa(index.FilesSeen())},
					{"Unique filenames", strconv.Itoa(index.Len())},
					{"Name collisions", strconv.Itoa(index.Collisions())},
				},
				1,
			))

			counts := index.ExtensionCounts()
			if len(counts) == 0 {
				return nil
			}
			extensions := make([]string, 0, len(counts))
			for ext := range counts {
				extensions = append(extensions, ext)
			}
			sort.Slice(extensions, func(i, j int) bool {
				if counts[extensions[i]] != counts[extensions[j]] {
					return counts[extensions[i]] > counts[extensions[j]]
				}
				return extensions[i] < extensions[j]
			})

			rows := make([][]string, 0, len(extensions))
			for _, ext := range extensions {
				rows = append(rows, []string{ext, strconv.Itoa(counts[ext])})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Extension", "Files"},
				rows,
				1,
			))
			return nil
		},
	}
}
