package main

import (
	"github.com/spf13/cobra"

	"github.com/fieldlens/fieldlens/analyzer"
	"github.com/fieldlens/fieldlens/render"
)

var (
	fieldsMinConsumers int
	fieldsSort         string
	fieldsLimit        int
	fieldsDistribution bool
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Rank structurally critical fields",
	Long: `Rank fields by fan-out and classify each into a risk tier.
Only fields with at least one producer are considered; --distribution
prints the consumer-count histogram of the eligible population instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		r, ctx, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer r.close(ctx)

		if fieldsDistribution {
			bands, err := r.analyzer.Distribution(ctx)
			if err != nil {
				return err
			}
			out, err := render.Distribution(bands, r.format)
			if err != nil {
				return err
			}
			return r.print(cmd, out)
		}

		ranked, err := r.analyzer.RankFields(ctx, fieldsMinConsumers, analyzer.SortKey(fieldsSort), fieldsLimit)
		if err != nil {
			return err
		}
		out, err := render.Fields(ranked, r.format)
		if err != nil {
			return err
		}
		return r.print(cmd, out)
	},
}

func init() {
	fieldsCmd.Flags().IntVar(&fieldsMinConsumers, "min-consumers", 1,
		"Only rank fields with at least this many consumers")
	fieldsCmd.Flags().StringVar(&fieldsSort, "sort", "consumers",
		"Sort key: consumers, producers or ratio")
	fieldsCmd.Flags().IntVar(&fieldsLimit, "limit", 20,
		"Maximum number of fields returned")
	fieldsCmd.Flags().BoolVar(&fieldsDistribution, "distribution", false,
		"Print the consumer-count distribution instead of the ranking")
	rootCmd.AddCommand(fieldsCmd)
}
