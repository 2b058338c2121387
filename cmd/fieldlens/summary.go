package main

import (
	"github.com/spf13/cobra"

	"github.com/fieldlens/fieldlens/analyzer"
	"github.com/fieldlens/fieldlens/render"
)

var summaryTopUnits int

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Assess the aggregate fragility of the whole system",
	Long: `Combine global counts, connectivity, the field distribution and
the high-impact field count into a single fragility report with
recommended actions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		r, ctx, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer r.close(ctx)

		report, err := analyzer.New(r.store,
			analyzer.WithTopUnits(summaryTopUnits),
		).Summarize(ctx)
		if err != nil {
			return err
		}
		out, err := render.Summary(report, r.format)
		if err != nil {
			return err
		}
		return r.print(cmd, out)
	},
}

func init() {
	summaryCmd.Flags().IntVar(&summaryTopUnits, "top", 10,
		"How many highly connected units to list")
	rootCmd.AddCommand(summaryCmd)
}
