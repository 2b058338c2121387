package main

import (
	"github.com/spf13/cobra"

	"github.com/fieldlens/fieldlens/analyzer"
	"github.com/fieldlens/fieldlens/render"
)

var (
	pathsMaxDepth int
	pathsStrategy string
	pathsLimit    int
)

var pathsCmd = &cobra.Command{
	Use:   "paths <source-unit> <target-unit>",
	Short: "Trace dependency paths between two units",
	Long: `Enumerate simple dependency paths between two units, following
the graph in either direction. The enumeration is bounded by --max-depth
and --limit; with --strategy longest this means the longest path found
within those bounds, not the graph-theoretic longest path.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		strategy, err := analyzer.ParseStrategy(pathsStrategy)
		if err != nil {
			return err
		}
		r, ctx, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer r.close(ctx)

		paths, err := r.analyzer.FindPaths(ctx, args[0], args[1], pathsMaxDepth, strategy, pathsLimit)
		if err != nil {
			return err
		}
		out, err := render.Paths(paths, r.format)
		if err != nil {
			return err
		}
		return r.print(cmd, out)
	},
}

func init() {
	pathsCmd.Flags().IntVar(&pathsMaxDepth, "max-depth", 5,
		"Maximum path length in unit hops")
	pathsCmd.Flags().StringVar(&pathsStrategy, "strategy", "shortest",
		"Path strategy: shortest, all or longest")
	pathsCmd.Flags().IntVar(&pathsLimit, "limit", 10,
		"Maximum number of paths returned")
	rootCmd.AddCommand(pathsCmd)
}
